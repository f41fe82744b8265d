package burnops

// ValidateLeaderBlockCommit runs the spec §4.G algorithm: burn-fee sanity,
// genesis/epoch bounds, leader-key resolution and single-use check, parent
// linkage, and address binding against the paired key.
//
// As in ValidateLeaderKeyRegister, a missing chain tip snapshot is a fatal
// invariant violation, never a validation rejection.
func ValidateLeaderBlockCommit(op *LeaderBlockCommitOp, header BurnchainBlockHeader, tx ReadTx, params BurnchainParams) ([]StoreWrite, error) {
	if op.BurnFee == 0 {
		logRejection("leader_block_commit", ErrBlockCommitBadInput, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_block_commit", ErrBlockCommitBadInput, "burn_fee must be > 0")
	}

	first, err := tx.FirstBlockSnapshot()
	if err != nil {
		return nil, err
	}
	if op.BlockHeight < first.BlockHeight {
		logRejection("leader_block_commit", ErrBlockCommitPredatesGenesis, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_block_commit", ErrBlockCommitPredatesGenesis, "block_height precedes burnchain genesis")
	}

	targetEpoch := op.BlockHeight - first.BlockHeight
	if uint64(op.EpochNum) != targetEpoch {
		logRejection("leader_block_commit", ErrBlockCommitBadEpoch, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_block_commit", ErrBlockCommitBadEpoch, "epoch_num does not match block_height - first_block_height")
	}

	if op.KeyBlockBackptr == 0 {
		logRejection("leader_block_commit", ErrBlockCommitNoLeaderKey, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_block_commit", ErrBlockCommitNoLeaderKey, "key_block_backptr == 0: cannot reference a key in the same block")
	}

	chainTip, ok, err := tx.BlockSnapshot(header.ParentBlockHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Invariant("missing chain tip snapshot for header.parent_block_hash")
	}

	leaderKeyHeight := op.BlockHeight - uint64(op.KeyBlockBackptr)
	key, ok, err := tx.LeaderKeyAt(leaderKeyHeight, uint32(op.KeyVtxindex), chainTip.ForkSegmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		logRejection("leader_block_commit", ErrBlockCommitNoLeaderKey, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_block_commit", ErrBlockCommitNoLeaderKey, "no leader key at (key_block_backptr, key_vtxindex)")
	}

	consumed, err := tx.IsLeaderKeyConsumed(chainTip.BlockHeight, key.PublicKey, chainTip.ForkSegmentID)
	if err != nil {
		return nil, err
	}
	if consumed {
		logRejection("leader_block_commit", ErrBlockCommitLeaderKeyUsed, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_block_commit", ErrBlockCommitLeaderKeyUsed, "leader key already consumed on this fork")
	}

	if op.ParentBlockBackptr == 0 && op.ParentVtxindex != 0 {
		logRejection("leader_block_commit", ErrBlockCommitNoParent, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_block_commit", ErrBlockCommitNoParent, "same-block parent is disallowed")
	}
	if op.ParentBlockBackptr != 0 || op.ParentVtxindex != 0 {
		parentHeight := op.BlockHeight - uint64(op.ParentBlockBackptr)
		_, ok, err := tx.BlockCommitAt(parentHeight, uint32(op.ParentVtxindex), chainTip.ForkSegmentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			logRejection("leader_block_commit", ErrBlockCommitNoParent, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
			return nil, operr("leader_block_commit", ErrBlockCommitNoParent, "no accepted commit at parent back-pointer")
		}
	}
	// else: genesis-parent, (0, 0) -- accepted without a parent lookup.

	if op.Input.ToAddressBits() != key.Address.ToBytes() {
		logRejection("leader_block_commit", ErrBlockCommitBadInput, op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
		return nil, operr("leader_block_commit", ErrBlockCommitBadInput, "input does not pair with the leader key's registered address")
	}

	logAcceptance("leader_block_commit", op.Txid, op.Vtxindex, op.ForkSegmentID, op.BlockHeight)
	return []StoreWrite{
		{IndexCommit: op},
		{ConsumeVRFKey: &VRFKeyConsumption{Key: key.PublicKey, AtHeight: op.BlockHeight, ForkSegment: op.ForkSegmentID}},
	}, nil
}
