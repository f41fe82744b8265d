package burnops

import "github.com/opchain/burnops/primitives"

// fakeTransaction is a minimal in-memory BurnchainTransaction, standing in
// for the out-of-scope burnchain transaction parser (spec §6).
type fakeTransaction struct {
	opcode     Opcode
	data       []byte
	signers    []Signer
	recipients []Recipient
	txid       primitives.Txid
	vtxindex   uint32
}

func (f *fakeTransaction) Signers() []Signer       { return f.signers }
func (f *fakeTransaction) Recipients() []Recipient { return f.recipients }
func (f *fakeTransaction) Opcode() Opcode          { return f.opcode }
func (f *fakeTransaction) Data() []byte            { return f.data }
func (f *fakeTransaction) Txid() primitives.Txid   { return f.txid }
func (f *fakeTransaction) Vtxindex() uint32        { return f.vtxindex }

func burnAddress() primitives.Address {
	addr, err := primitives.NewAddress(primitives.HashModeSingleSigHash160, primitives.BurnAddressBytes)
	if err != nil {
		panic(err)
	}
	return addr
}

func paymentAddress(hash [20]byte) primitives.Address {
	addr, err := primitives.NewAddress(primitives.HashModeSingleSigHash160, hash)
	if err != nil {
		panic(err)
	}
	return addr
}

// fakeStore is an in-memory ReadTx implementation used by the semantic
// validator tests, so they can assert against fork-scoped reads without a
// bbolt-backed chainstate.Store.
type fakeStore struct {
	first       Snapshot
	snapshots   map[primitives.BurnchainHeaderHash]Snapshot
	parent      map[SegmentID]SegmentID
	keys        map[SegmentID]map[primitives.VRFPublicKey]LeaderKeyRegisterOp
	consumed    map[SegmentID]map[primitives.VRFPublicKey]uint64
	commits     map[SegmentID]map[[2]uint64]LeaderBlockCommitOp // key: {height, vtxindex}
	consensusCh map[SegmentID]map[uint64]primitives.ConsensusHash
}

func newFakeStore(first Snapshot) *fakeStore {
	return &fakeStore{
		first:       first,
		snapshots:   map[primitives.BurnchainHeaderHash]Snapshot{first.BurnHeaderHash: first},
		parent:      map[SegmentID]SegmentID{},
		keys:        map[SegmentID]map[primitives.VRFPublicKey]LeaderKeyRegisterOp{},
		consumed:    map[SegmentID]map[primitives.VRFPublicKey]uint64{},
		commits:     map[SegmentID]map[[2]uint64]LeaderBlockCommitOp{},
		consensusCh: map[SegmentID]map[uint64]primitives.ConsensusHash{},
	}
}

func (s *fakeStore) ancestors(segment SegmentID) []SegmentID {
	out := []SegmentID{segment}
	cur := segment
	for {
		p, ok := s.parent[cur]
		if !ok {
			return out
		}
		out = append(out, p)
		cur = p
	}
}

func (s *fakeStore) FirstBlockSnapshot() (Snapshot, error) { return s.first, nil }

func (s *fakeStore) BlockSnapshot(hash primitives.BurnchainHeaderHash) (Snapshot, bool, error) {
	snap, ok := s.snapshots[hash]
	return snap, ok, nil
}

func (s *fakeStore) LeaderKeyAt(height uint64, vtxindex uint32, segment SegmentID) (LeaderKeyRegisterOp, bool, error) {
	for _, seg := range s.ancestors(segment) {
		for _, op := range s.keys[seg] {
			if op.BlockHeight == height && op.Vtxindex == vtxindex {
				return op, true, nil
			}
		}
	}
	return LeaderKeyRegisterOp{}, false, nil
}

func (s *fakeStore) IsLeaderKeyConsumed(asOfHeight uint64, key primitives.VRFPublicKey, segment SegmentID) (bool, error) {
	for _, seg := range s.ancestors(segment) {
		if at, ok := s.consumed[seg][key]; ok && at <= asOfHeight {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) BlockCommitAt(height uint64, vtxindex uint32, segment SegmentID) (LeaderBlockCommitOp, bool, error) {
	for _, seg := range s.ancestors(segment) {
		if op, ok := s.commits[seg][[2]uint64{height, uint64(vtxindex)}]; ok {
			return op, true, nil
		}
	}
	return LeaderBlockCommitOp{}, false, nil
}

func (s *fakeStore) HasVRFPublicKey(key primitives.VRFPublicKey, segment SegmentID) (bool, error) {
	for _, seg := range s.ancestors(segment) {
		if _, ok := s.keys[seg][key]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) IsFreshConsensusHash(asOfHeight uint64, lifetime uint64, ch primitives.ConsensusHash, segment SegmentID) (bool, error) {
	var lowerBound uint64
	if asOfHeight > lifetime {
		lowerBound = asOfHeight - lifetime
	}
	for _, seg := range s.ancestors(segment) {
		for height, stored := range s.consensusCh[seg] {
			if height <= lowerBound || height > asOfHeight {
				continue
			}
			if stored.Equal(ch) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *fakeStore) putKey(seg SegmentID, op LeaderKeyRegisterOp) {
	if s.keys[seg] == nil {
		s.keys[seg] = map[primitives.VRFPublicKey]LeaderKeyRegisterOp{}
	}
	s.keys[seg][op.PublicKey] = op
}

func (s *fakeStore) putCommit(seg SegmentID, op LeaderBlockCommitOp) {
	if s.commits[seg] == nil {
		s.commits[seg] = map[[2]uint64]LeaderBlockCommitOp{}
	}
	s.commits[seg][[2]uint64{op.BlockHeight, uint64(op.Vtxindex)}] = op
}

func (s *fakeStore) putConsensusHash(seg SegmentID, height uint64, ch primitives.ConsensusHash) {
	if s.consensusCh[seg] == nil {
		s.consensusCh[seg] = map[uint64]primitives.ConsensusHash{}
	}
	s.consensusCh[seg][height] = ch
}

func (s *fakeStore) consume(seg SegmentID, key primitives.VRFPublicKey, atHeight uint64) {
	if s.consumed[seg] == nil {
		s.consumed[seg] = map[primitives.VRFPublicKey]uint64{}
	}
	s.consumed[seg][key] = atHeight
}
