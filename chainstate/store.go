// Package chainstate is the persistent, fork-aware chainstate store the
// burnops validators query through the ReadTx interface. It is a concrete,
// go.etcd.io/bbolt-backed implementation grounded on node/store/db.go's
// Open/View/Update idiom and node/store/reorg.go's ancestor-walk logic,
// adapted from block-hash granularity to fork-segment granularity.
package chainstate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/opchain/burnops"
	"github.com/opchain/burnops/primitives"
)

var (
	bucketSnapshotsByHash  = []byte("snapshots_by_hash")
	bucketSnapshotsBySlot  = []byte("snapshots_by_slot")
	bucketSegmentParent    = []byte("segment_parent")
	bucketConsensusHashIdx = []byte("consensus_hash_index")
	bucketConsumedKeys     = []byte("consumed_keys")
	bucketVRFKeysBySegment = []byte("vrf_keys_by_segment")
)

var allBuckets = [][]byte{
	bucketSnapshotsByHash,
	bucketSnapshotsBySlot,
	bucketSegmentParent,
	bucketConsensusHashIdx,
	bucketConsumedKeys,
	bucketVRFKeysBySegment,
}

// Store is the persistent chainstate backing burnops.ReadTx queries.
type Store struct {
	dir string
	db  *bolt.DB
}

// Open opens (creating if absent) the bbolt-backed store under dir for the
// given network. Grounded on node/store/db.go's Open.
func Open(dir string, network string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("chainstate: dir required")
	}
	if network == "" {
		return nil, fmt.Errorf("chainstate: network required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("chainstate: mkdir %s: %w", dir, err)
	}

	path := filepath.Join(dir, "chainstate.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("chainstate: open bbolt: %w", err)
	}

	s := &Store{dir: dir, db: bdb}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	m, err := readManifest(dir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := writeManifestAtomic(dir, &Manifest{SchemaVersion: SchemaVersionV1, Network: network}); err != nil {
				_ = bdb.Close()
				return nil, err
			}
			return s, nil
		}
		_ = bdb.Close()
		return nil, fmt.Errorf("chainstate: read manifest: %w", err)
	}
	if m.SchemaVersion > SchemaVersionV1 {
		_ = bdb.Close()
		return nil, fmt.Errorf("chainstate: manifest schema_version %d > supported %d", m.SchemaVersion, SchemaVersionV1)
	}
	if m.Network != network {
		_ = bdb.Close()
		return nil, fmt.Errorf("chainstate: manifest network %q != requested %q", m.Network, network)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// View opens a read-only transaction and hands fn a burnops.ReadTx serving
// every query from that one consistent snapshot (spec §4.E). ctx is
// checked once at the call boundary only -- no suspension point within a
// bbolt transaction spans it (SPEC_FULL.md §5).
func (s *Store) View(ctx context.Context, fn func(burnops.ReadTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(&readTx{tx: tx})
	})
}

// InitGenesis seeds the store with the burnchain genesis snapshot, under
// the fork segment named by genesis.ForkSegmentID. Must be called exactly
// once before any validator call.
func (s *Store) InitGenesis(genesis burnops.Snapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putSnapshot(tx, genesis)
	})
}

// RegisterSegment records a new fork segment's parent edge, so the
// ancestor walk used by LeaderKeyAt/HasVRFPublicKey/etc. can cross into
// the parent segment's history. Called by the surrounding system when it
// opens a new segment (spec.md doesn't name this operation explicitly; it
// is the chainstate-side counterpart of spec §3's "fork segment" concept).
func (s *Store) RegisterSegment(child, parent burnops.SegmentID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSegmentParent).Put(segmentKey(child), segmentKey(parent))
	})
}

// Apply persists the write-set a validator returned on Ok. Spec §7: "the
// validator does not persist" -- this is the caller-side apply step spec §6
// assigns to "the surrounding system."
func (s *Store) Apply(writes []burnops.StoreWrite) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, w := range writes {
			if w.IndexVRFKey != nil {
				op := *w.IndexVRFKey
				snap := burnops.Snapshot{
					BlockHeight:    op.BlockHeight,
					BurnHeaderHash: op.BurnHeaderHash,
					ConsensusHash:  op.ConsensusHash,
					ForkSegmentID:  op.ForkSegmentID,
				}
				if err := putSnapshot(tx, snap); err != nil {
					return err
				}
				if err := tx.Bucket(bucketSnapshotsBySlot).Put(
					slotKey(op.ForkSegmentID, op.BlockHeight, op.Vtxindex, slotKindKeyRegister),
					encodeKeyRegister(op),
				); err != nil {
					return err
				}
				if err := tx.Bucket(bucketVRFKeysBySegment).Put(pubkeyRowKey(op.ForkSegmentID, op.PublicKey), encodeKeyRegister(op)); err != nil {
					return err
				}
				if err := tx.Bucket(bucketConsensusHashIdx).Put(consensusHashKey(op.ForkSegmentID, op.BlockHeight), op.ConsensusHash[:]); err != nil {
					return err
				}
			}
			if w.IndexCommit != nil {
				op := *w.IndexCommit
				key := slotKey(op.ForkSegmentID, op.BlockHeight, op.Vtxindex, slotKindBlockCommit)
				if err := tx.Bucket(bucketSnapshotsBySlot).Put(key, encodeBlockCommit(op)); err != nil {
					return err
				}
			}
			if w.ConsumeVRFKey != nil {
				c := *w.ConsumeVRFKey
				var heightBuf [8]byte
				putUint64LE(heightBuf[:], c.AtHeight)
				if err := tx.Bucket(bucketConsumedKeys).Put(pubkeyRowKey(c.ForkSegment, c.Key), heightBuf[:]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func putSnapshot(tx *bolt.Tx, s burnops.Snapshot) error {
	return tx.Bucket(bucketSnapshotsByHash).Put(s.BurnHeaderHash[:], encodeSnapshot(s))
}

// readTx is the bbolt-backed burnops.ReadTx implementation, scoped to one
// bolt.Tx for the lifetime of a Store.View call.
type readTx struct {
	tx *bolt.Tx
}

func (r *readTx) FirstBlockSnapshot() (burnops.Snapshot, error) {
	c := r.tx.Bucket(bucketSnapshotsByHash).Cursor()
	var best *burnops.Snapshot
	for k, v := c.First(); k != nil; k, v = c.Next() {
		snap, err := decodeSnapshot(v)
		if err != nil {
			return burnops.Snapshot{}, burnops.Invariant(fmt.Sprintf("corrupt snapshot row: %v", err))
		}
		if best == nil || snap.BlockHeight < best.BlockHeight {
			s := snap
			best = &s
		}
	}
	if best == nil {
		return burnops.Snapshot{}, burnops.Invariant("store has no genesis snapshot")
	}
	return *best, nil
}

func (r *readTx) BlockSnapshot(hash primitives.BurnchainHeaderHash) (burnops.Snapshot, bool, error) {
	v := r.tx.Bucket(bucketSnapshotsByHash).Get(hash[:])
	if v == nil {
		return burnops.Snapshot{}, false, nil
	}
	snap, err := decodeSnapshot(v)
	if err != nil {
		return burnops.Snapshot{}, false, burnops.Invariant(fmt.Sprintf("corrupt snapshot row: %v", err))
	}
	return snap, true, nil
}

// ancestorSegments returns segment, then every ancestor of segment in
// parent-first order, by walking segment_parent. Grounded on
// node/store/reorg.go's pathFromAncestor walk, adapted from block-hash
// granularity to fork-segment granularity.
func (r *readTx) ancestorSegments(segment burnops.SegmentID) ([]burnops.SegmentID, error) {
	out := []burnops.SegmentID{segment}
	cur := segment
	seen := map[burnops.SegmentID]bool{segment: true}
	for {
		v := r.tx.Bucket(bucketSegmentParent).Get(segmentKey(cur))
		if v == nil {
			return out, nil
		}
		var parent burnops.SegmentID
		parent = burnops.SegmentID(beUint64(v))
		if seen[parent] {
			return nil, burnops.Invariant("segment_parent cycle detected")
		}
		out = append(out, parent)
		seen[parent] = true
		cur = parent
	}
}

func beUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8 && i < len(b); i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func (r *readTx) LeaderKeyAt(height uint64, vtxindex uint32, segment burnops.SegmentID) (burnops.LeaderKeyRegisterOp, bool, error) {
	ancestors, err := r.ancestorSegments(segment)
	if err != nil {
		return burnops.LeaderKeyRegisterOp{}, false, err
	}
	for _, seg := range ancestors {
		v := r.tx.Bucket(bucketSnapshotsBySlot).Get(slotKey(seg, height, vtxindex, slotKindKeyRegister))
		if v == nil {
			continue
		}
		op, err := decodeKeyRegister(v)
		if err != nil {
			return burnops.LeaderKeyRegisterOp{}, false, burnops.Invariant(fmt.Sprintf("corrupt key_register row: %v", err))
		}
		return op, true, nil
	}
	return burnops.LeaderKeyRegisterOp{}, false, nil
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (r *readTx) IsLeaderKeyConsumed(asOfHeight uint64, key primitives.VRFPublicKey, segment burnops.SegmentID) (bool, error) {
	ancestors, err := r.ancestorSegments(segment)
	if err != nil {
		return false, err
	}
	for _, seg := range ancestors {
		v := r.tx.Bucket(bucketConsumedKeys).Get(pubkeyRowKey(seg, key))
		if v == nil {
			continue
		}
		consumedAt := readUint64LE(v)
		if consumedAt <= asOfHeight {
			return true, nil
		}
	}
	return false, nil
}

func readUint64LE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8 && i < len(b); i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func (r *readTx) BlockCommitAt(height uint64, vtxindex uint32, segment burnops.SegmentID) (burnops.LeaderBlockCommitOp, bool, error) {
	ancestors, err := r.ancestorSegments(segment)
	if err != nil {
		return burnops.LeaderBlockCommitOp{}, false, err
	}
	for _, seg := range ancestors {
		v := r.tx.Bucket(bucketSnapshotsBySlot).Get(slotKey(seg, height, vtxindex, slotKindBlockCommit))
		if v == nil {
			continue
		}
		op, err := decodeBlockCommit(v)
		if err != nil {
			return burnops.LeaderBlockCommitOp{}, false, burnops.Invariant(fmt.Sprintf("corrupt block_commit row: %v", err))
		}
		return op, true, nil
	}
	return burnops.LeaderBlockCommitOp{}, false, nil
}

func (r *readTx) HasVRFPublicKey(key primitives.VRFPublicKey, segment burnops.SegmentID) (bool, error) {
	ancestors, err := r.ancestorSegments(segment)
	if err != nil {
		return false, err
	}
	for _, seg := range ancestors {
		if r.tx.Bucket(bucketVRFKeysBySegment).Get(pubkeyRowKey(seg, key)) != nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *readTx) IsFreshConsensusHash(asOfHeight uint64, lifetime uint64, ch primitives.ConsensusHash, segment burnops.SegmentID) (bool, error) {
	ancestors, err := r.ancestorSegments(segment)
	if err != nil {
		return false, err
	}
	var lowerBound uint64
	if asOfHeight > lifetime {
		lowerBound = asOfHeight - lifetime
	}
	for _, seg := range ancestors {
		c := r.tx.Bucket(bucketConsensusHashIdx).Cursor()
		prefix := segmentKey(seg)
		for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			height := beUint64(k[8:16])
			if height <= lowerBound || height > asOfHeight {
				continue
			}
			var stored primitives.ConsensusHash
			copy(stored[:], v)
			if stored.Equal(ch) {
				return true, nil
			}
		}
	}
	return false, nil
}
