package burnops

import "github.com/opchain/burnops/primitives"

// LeaderKeyRegisterOp is a decoded, header-populated LeaderKeyRegister
// record (spec §3). It becomes "accepted" only once Validate returns Ok in
// some block; acceptance is tracked per fork segment by the caller via the
// write-set Validate returns.
type LeaderKeyRegisterOp struct {
	ConsensusHash  primitives.ConsensusHash
	PublicKey      primitives.VRFPublicKey
	Memo           []byte
	Address        primitives.Address
	Txid           primitives.Txid
	Vtxindex       uint32
	BlockHeight    uint64
	BurnHeaderHash primitives.BurnchainHeaderHash
	ForkSegmentID  SegmentID
}

// LeaderBlockCommitOp is a decoded, header-populated LeaderBlockCommit
// record (spec §3).
type LeaderBlockCommitOp struct {
	BlockHeaderHash    primitives.BlockHeaderHash
	NewSeed            primitives.VRFSeed
	ParentBlockBackptr uint16
	ParentVtxindex     uint16
	KeyBlockBackptr    uint16
	KeyVtxindex        uint16
	EpochNum           uint32
	Memo               []byte
	BurnFee            uint64
	Input              primitives.BurnchainSigner
	Txid               primitives.Txid
	Vtxindex           uint32
	BlockHeight        uint64
	BurnHeaderHash     primitives.BurnchainHeaderHash
	ForkSegmentID      SegmentID
}
