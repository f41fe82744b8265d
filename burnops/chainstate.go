package burnops

import "github.com/opchain/burnops/primitives"

// Snapshot is the burnchain genesis or any other block header's chainstate
// row: the fields the validators need out of "some block on some fork"
// (spec §4.E).
type Snapshot struct {
	BlockHeight    uint64
	BurnHeaderHash primitives.BurnchainHeaderHash
	ConsensusHash  primitives.ConsensusHash
	ForkSegmentID  SegmentID
}

// ReadTx is the fork-aware, read-only chainstate query contract of spec
// §4.E. All methods are total pure functions of the committed state as of
// when the transaction was opened; implementations must serve every call
// from one consistent snapshot (spec §4.E: "must be called inside a read
// transaction"). The package chainstate provides a persistent, bbolt-backed
// implementation; tests in this package use an in-memory fake.
type ReadTx interface {
	// FirstBlockSnapshot returns the burnchain genesis.
	FirstBlockSnapshot() (Snapshot, error)

	// BlockSnapshot looks up any header by hash.
	BlockSnapshot(hash primitives.BurnchainHeaderHash) (Snapshot, bool, error)

	// LeaderKeyAt returns the key registered at that slot on the ancestor
	// chain of segment.
	LeaderKeyAt(height uint64, vtxindex uint32, segment SegmentID) (LeaderKeyRegisterOp, bool, error)

	// IsLeaderKeyConsumed reports whether some accepted commit on the
	// ancestor chain of segment, at or before asOfHeight, consumed key.
	IsLeaderKeyConsumed(asOfHeight uint64, key primitives.VRFPublicKey, segment SegmentID) (bool, error)

	// BlockCommitAt returns the commit accepted at that slot on the
	// ancestor chain of segment.
	BlockCommitAt(height uint64, vtxindex uint32, segment SegmentID) (LeaderBlockCommitOp, bool, error)

	// HasVRFPublicKey reports whether key appears in any accepted
	// key-register on the ancestor chain of segment.
	HasVRFPublicKey(key primitives.VRFPublicKey, segment SegmentID) (bool, error)

	// IsFreshConsensusHash reports whether ch equals the consensus_hash of
	// some snapshot in the half-open window (asOfHeight-lifetime, asOfHeight]
	// on the ancestor chain of segment.
	IsFreshConsensusHash(asOfHeight uint64, lifetime uint64, ch primitives.ConsensusHash, segment SegmentID) (bool, error)
}

// ErrInvariant marks a store-read failure that a consensus-correct caller
// must never produce: a missing parent snapshot for a header currently
// being processed, or a corrupt row. Spec §7: these are fatal to the
// enclosing block and propagated upward, never reported as a validation
// rejection.
type ErrInvariant struct {
	Msg string
}

func (e *ErrInvariant) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "chainstate invariant violation: " + e.Msg
}

// Invariant constructs an ErrInvariant. Exported so chainstate
// implementations outside this package can report invariant failures in
// the same vocabulary the validators recognize.
func Invariant(msg string) error {
	return &ErrInvariant{Msg: msg}
}
