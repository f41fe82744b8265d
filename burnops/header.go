package burnops

import "github.com/opchain/burnops/primitives"

// SegmentID names a contiguous run of burnchain blocks treated as one
// branch in the fork DAG (spec §3, glossary: "fork segment").
type SegmentID uint64

// BurnchainBlockHeader is the containing block header a decoded operation
// is evaluated against.
type BurnchainBlockHeader struct {
	BlockHeight         uint64
	BlockHash           primitives.BurnchainHeaderHash
	ParentBlockHash     primitives.BurnchainHeaderHash
	NumTxs              uint64
	ForkSegmentID       SegmentID
	ParentForkSegmentID SegmentID
	ForkSegmentLength   uint64
	ForkLength          uint64
}
