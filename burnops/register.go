package burnops

// StoreWrite describes one mutation the caller must apply to chainstate
// after a validator returns Ok (spec §6: "the validator does not persist").
// The validator computes the write-set but never applies it.
type StoreWrite struct {
	IndexVRFKey   *LeaderKeyRegisterOp // insert into vrf_keys_by_segment / snapshots_by_slot
	ConsumeVRFKey *VRFKeyConsumption   // mark a key consumed as of this commit's block height
	IndexCommit   *LeaderBlockCommitOp // insert into snapshots_by_slot for this commit's slot
}

// VRFKeyConsumption records that a LeaderBlockCommit consumed a previously
// registered key, on the fork segment the commit was accepted on.
type VRFKeyConsumption struct {
	Key         [32]byte
	AtHeight    uint64
	ForkSegment SegmentID
}

// ValidateLeaderKeyRegister runs the spec §4.F algorithm: resolve the
// chain tip from header.ParentBlockHash, reject a duplicate VRF key,
// reject a stale consensus hash, else accept.
//
// A missing chain tip snapshot is a fatal invariant violation (spec §4.F
// rule 1: "never occurs for a header already being processed") and is
// returned as *ErrInvariant, not an *OpError.
func ValidateLeaderKeyRegister(op *LeaderKeyRegisterOp, header BurnchainBlockHeader, tx ReadTx, params BurnchainParams) ([]StoreWrite, error) {
	chainTip, ok, err := tx.BlockSnapshot(header.ParentBlockHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Invariant("missing chain tip snapshot for header.parent_block_hash")
	}

	alreadyRegistered, err := tx.HasVRFPublicKey(op.PublicKey, chainTip.ForkSegmentID)
	if err != nil {
		return nil, err
	}
	if alreadyRegistered {
		logRejection("leader_key_register", ErrLeaderKeyAlreadyRegistered, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_key_register", ErrLeaderKeyAlreadyRegistered, "public_key already registered on this fork")
	}

	fresh, err := tx.IsFreshConsensusHash(chainTip.BlockHeight, params.ConsensusHashLifetime, op.ConsensusHash, chainTip.ForkSegmentID)
	if err != nil {
		return nil, err
	}
	if !fresh {
		logRejection("leader_key_register", ErrLeaderKeyBadConsensusHash, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_key_register", ErrLeaderKeyBadConsensusHash, "consensus_hash not within freshness window")
	}

	logAcceptance("leader_key_register", op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
	return []StoreWrite{{IndexVRFKey: op}}, nil
}
