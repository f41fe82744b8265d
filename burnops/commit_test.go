package burnops

import (
	"testing"

	"github.com/opchain/burnops/primitives"
)

func tipAt(store *fakeStore, segment SegmentID, height uint64, hash [32]byte) Snapshot {
	s := Snapshot{BlockHeight: height, ForkSegmentID: segment, BurnHeaderHash: hash}
	store.snapshots[hash] = s
	return s
}

func baseCommit(blockHeight uint64, segment SegmentID) *LeaderBlockCommitOp {
	signer, err := inputSignerFrom(Signer{PublicKey: []byte{0x04, 0x01}})
	if err != nil {
		panic(err)
	}
	return &LeaderBlockCommitOp{
		BurnFee:         1000,
		BlockHeight:     blockHeight,
		ForkSegmentID:   segment,
		Input:           signer,
		KeyBlockBackptr: 2,
		KeyVtxindex:     400,
		EpochNum:        uint32(blockHeight - 121),
	}
}

func keyFor(signerIn Signer, segment SegmentID, height uint64, vtxindex uint32) LeaderKeyRegisterOp {
	signer, err := inputSignerFrom(signerIn)
	if err != nil {
		panic(err)
	}
	addr, err := primitives.NewAddress(signer.HashMode, signer.ToAddressBits())
	if err != nil {
		panic(err)
	}
	return LeaderKeyRegisterOp{
		ForkSegmentID: segment,
		BlockHeight:   height,
		Vtxindex:      vtxindex,
		Address:       addr,
		PublicKey:     [32]byte{0x01},
	}
}

// Scenario 7: commit predates genesis.
func TestValidateLeaderBlockCommit_PredatesGenesis(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	op := baseCommit(80, 1)
	op.EpochNum = 0
	header := BurnchainBlockHeader{ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if code, _ := CodeOf(err); code != ErrBlockCommitPredatesGenesis {
		t.Fatalf("expected ErrBlockCommitPredatesGenesis, got %v (err=%v)", code, err)
	}
}

// Scenario 8: commit bad epoch.
func TestValidateLeaderBlockCommit_BadEpoch(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	op := baseCommit(126, 1)
	op.EpochNum = 50 // expected 5
	header := BurnchainBlockHeader{ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if code, _ := CodeOf(err); code != ErrBlockCommitBadEpoch {
		t.Fatalf("expected ErrBlockCommitBadEpoch, got %v (err=%v)", code, err)
	}
}

// Scenario 9: commit no such leader key.
func TestValidateLeaderBlockCommit_NoSuchLeaderKey(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	tip := tipAt(store, 1, 402, [32]byte{0xaa})
	op := baseCommit(402, 1)
	op.KeyBlockBackptr = 2
	op.KeyVtxindex = 400
	op.EpochNum = uint32(402 - 121)
	header := BurnchainBlockHeader{ParentBlockHash: tip.BurnHeaderHash, ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if code, _ := CodeOf(err); code != ErrBlockCommitNoLeaderKey {
		t.Fatalf("expected ErrBlockCommitNoLeaderKey, got %v (err=%v)", code, err)
	}
}

// Scenario 10: commit key already consumed.
func TestValidateLeaderBlockCommit_KeyAlreadyConsumed(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	tip := tipAt(store, 1, 500, [32]byte{0xaa})
	signerIn := Signer{PublicKey: []byte{0x04, 0x01}}
	key := keyFor(signerIn, 1, 498, 400)
	store.putKey(1, key)
	store.consume(1, key.PublicKey, 499)

	op := baseCommit(501, 1)
	op.KeyBlockBackptr = uint16(501 - 498)
	op.KeyVtxindex = 400
	op.EpochNum = uint32(501 - 121)
	header := BurnchainBlockHeader{ParentBlockHash: tip.BurnHeaderHash, ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if code, _ := CodeOf(err); code != ErrBlockCommitLeaderKeyUsed {
		t.Fatalf("expected ErrBlockCommitLeaderKeyAlreadyUsed, got %v (err=%v)", code, err)
	}
}

// Scenario 11: commit no parent.
func TestValidateLeaderBlockCommit_NoParent(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	tip := tipAt(store, 1, 500, [32]byte{0xaa})
	signerIn := Signer{PublicKey: []byte{0x04, 0x01}}
	key := keyFor(signerIn, 1, 498, 400)
	store.putKey(1, key)

	op := baseCommit(501, 1)
	op.KeyBlockBackptr = uint16(501 - 498)
	op.KeyVtxindex = 400
	op.EpochNum = uint32(501 - 121)
	op.ParentBlockBackptr = 1
	op.ParentVtxindex = 445
	header := BurnchainBlockHeader{ParentBlockHash: tip.BurnHeaderHash, ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if code, _ := CodeOf(err); code != ErrBlockCommitNoParent {
		t.Fatalf("expected ErrBlockCommitNoParent, got %v (err=%v)", code, err)
	}
}

// Scenario 12: commit parent in same block.
func TestValidateLeaderBlockCommit_SameBlockParent(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	tip := tipAt(store, 1, 500, [32]byte{0xaa})
	signerIn := Signer{PublicKey: []byte{0x04, 0x01}}
	key := keyFor(signerIn, 1, 498, 400)
	store.putKey(1, key)

	op := baseCommit(501, 1)
	op.KeyBlockBackptr = uint16(501 - 498)
	op.KeyVtxindex = 400
	op.EpochNum = uint32(501 - 121)
	op.ParentBlockBackptr = 0
	op.ParentVtxindex = 444
	header := BurnchainBlockHeader{ParentBlockHash: tip.BurnHeaderHash, ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if code, _ := CodeOf(err); code != ErrBlockCommitNoParent {
		t.Fatalf("expected ErrBlockCommitNoParent, got %v (err=%v)", code, err)
	}
}

// Scenario 13: commit signer/key mismatch.
func TestValidateLeaderBlockCommit_SignerKeyMismatch(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	tip := tipAt(store, 1, 500, [32]byte{0xaa})
	mismatchedKey := keyFor(Signer{PublicKey: []byte{0x04, 0x99}}, 1, 498, 400)
	store.putKey(1, mismatchedKey)

	op := baseCommit(501, 1)
	op.KeyBlockBackptr = uint16(501 - 498)
	op.KeyVtxindex = 400
	op.EpochNum = uint32(501 - 121)
	header := BurnchainBlockHeader{ParentBlockHash: tip.BurnHeaderHash, ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if code, _ := CodeOf(err); code != ErrBlockCommitBadInput {
		t.Fatalf("expected ErrBlockCommitBadInput, got %v (err=%v)", code, err)
	}
}

// Scenario 14: commit zero burn.
func TestValidateLeaderBlockCommit_ZeroBurn(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	op := baseCommit(200, 1)
	op.BurnFee = 0
	header := BurnchainBlockHeader{ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if code, _ := CodeOf(err); code != ErrBlockCommitBadInput {
		t.Fatalf("expected ErrBlockCommitBadInput, got %v (err=%v)", code, err)
	}
}

// Scenario 17: commit on a new fork segment whose ancestor walk still sees
// the key and parent.
func TestValidateLeaderBlockCommit_NewForkSegmentAccepts(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	store.parent[2] = 1
	signerIn := Signer{PublicKey: []byte{0x04, 0x01}}
	key := keyFor(signerIn, 1, 498, 400)
	store.putKey(1, key)
	store.putCommit(1, LeaderBlockCommitOp{ForkSegmentID: 1, BlockHeight: 500, Vtxindex: 445})
	tip := tipAt(store, 2, 500, [32]byte{0xbb})

	op := baseCommit(501, 2)
	op.KeyBlockBackptr = uint16(501 - 498)
	op.KeyVtxindex = 400
	op.EpochNum = uint32(501 - 121)
	op.ParentBlockBackptr = 1
	op.ParentVtxindex = 445
	header := BurnchainBlockHeader{ParentBlockHash: tip.BurnHeaderHash, ForkSegmentID: 2}
	writes, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writes) != 2 {
		t.Fatalf("expected 2 writes (index commit + consume key), got %d", len(writes))
	}
}

// Scenario 18: commit genesis-parent, no parent lookup performed.
func TestValidateLeaderBlockCommit_GenesisParentAccepts(t *testing.T) {
	store := newFakeStore(Snapshot{BlockHeight: 121, ForkSegmentID: 1})
	signerIn := Signer{PublicKey: []byte{0x04, 0x01}}
	key := keyFor(signerIn, 1, 498, 400)
	store.putKey(1, key)
	tip := tipAt(store, 1, 500, [32]byte{0xaa})

	op := baseCommit(501, 1)
	op.KeyBlockBackptr = uint16(501 - 498)
	op.KeyVtxindex = 400
	op.EpochNum = uint32(501 - 121)
	op.ParentBlockBackptr = 0
	op.ParentVtxindex = 0
	header := BurnchainBlockHeader{ParentBlockHash: tip.BurnHeaderHash, ForkSegmentID: 1}
	_, err := ValidateLeaderBlockCommit(op, header, store, baseParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
