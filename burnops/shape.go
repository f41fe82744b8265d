package burnops

// DecodeLeaderKeyRegister validates a burnchain transaction's shape
// (spec §4.D) and, if it holds, decodes its payload (spec §4.C) into a
// fully-populated LeaderKeyRegisterOp. header supplies the block-level
// fields (block_height, burn_header_hash, fork_segment_id) stamped onto
// the record at decode time.
func DecodeLeaderKeyRegister(tx BurnchainTransaction, header BurnchainBlockHeader) (*LeaderKeyRegisterOp, error) {
	if err := (Framing{Want: OpcodeLeaderKeyRegister, Op: "leader_key_register"}).Check(tx); err != nil {
		return nil, err
	}
	if len(tx.Signers()) < 1 {
		return nil, operr("leader_key_register", ErrInvalidInput, "no inputs")
	}
	recipients := tx.Recipients()
	if len(recipients) < 1 {
		return nil, operr("leader_key_register", ErrInvalidInput, "no outputs")
	}

	payload, err := DecodeLeaderKeyRegisterPayload(tx.Data())
	if err != nil {
		return nil, err
	}

	return &LeaderKeyRegisterOp{
		ConsensusHash:  payload.ConsensusHash,
		PublicKey:      payload.PublicKey,
		Memo:           payload.Memo,
		Address:        recipients[0].Address,
		Txid:           tx.Txid(),
		Vtxindex:       tx.Vtxindex(),
		BlockHeight:    header.BlockHeight,
		BurnHeaderHash: header.BlockHash,
		ForkSegmentID:  header.ForkSegmentID,
	}, nil
}

// DecodeLeaderBlockCommit validates a burnchain transaction's shape
// (spec §4.D) and, if it holds, decodes its payload (spec §4.C) into a
// fully-populated LeaderBlockCommitOp, including the range-sanity checks
// spec §4.D assigns to the shape validator rather than the wire decoder.
func DecodeLeaderBlockCommit(tx BurnchainTransaction, header BurnchainBlockHeader) (*LeaderBlockCommitOp, error) {
	if err := (Framing{Want: OpcodeLeaderBlockCommit, Op: "leader_block_commit"}).Check(tx); err != nil {
		return nil, err
	}
	signers := tx.Signers()
	if len(signers) < 1 {
		return nil, operr("leader_block_commit", ErrInvalidInput, "no inputs")
	}
	recipients := tx.Recipients()
	if len(recipients) < 1 {
		return nil, operr("leader_block_commit", ErrInvalidInput, "no outputs")
	}

	firstOut := recipients[0]
	if !firstOut.Address.IsBurn() {
		return nil, operr("leader_block_commit", ErrParseError, "first output is not a burn sink")
	}
	if firstOut.Amount == 0 {
		return nil, operr("leader_block_commit", ErrParseError, "first output amount must be > 0")
	}

	payload, err := DecodeLeaderBlockCommitPayload(tx.Data())
	if err != nil {
		return nil, err
	}

	if payload.ParentBlockBackptr == 0 && payload.ParentVtxindex != 0 {
		return nil, operr("leader_block_commit", ErrParseError, "zero parent_block_backptr requires zero parent_vtxindex")
	}
	if uint64(payload.ParentBlockBackptr) >= header.BlockHeight {
		return nil, operr("leader_block_commit", ErrParseError, "parent_block_backptr >= block_height")
	}
	if payload.KeyBlockBackptr < 1 || uint64(payload.KeyBlockBackptr) >= header.BlockHeight {
		return nil, operr("leader_block_commit", ErrParseError, "key_block_backptr out of range")
	}
	if uint64(payload.EpochNum) >= header.BlockHeight {
		return nil, operr("leader_block_commit", ErrParseError, "epoch_num >= block_height")
	}

	input, err := inputSignerFrom(signers[0])
	if err != nil {
		return nil, operr("leader_block_commit", ErrInvalidInput, err.Error())
	}

	return &LeaderBlockCommitOp{
		BlockHeaderHash:    payload.BlockHeaderHash,
		NewSeed:            payload.NewSeed,
		ParentBlockBackptr: payload.ParentBlockBackptr,
		ParentVtxindex:     payload.ParentVtxindex,
		KeyBlockBackptr:    payload.KeyBlockBackptr,
		KeyVtxindex:        payload.KeyVtxindex,
		EpochNum:           payload.EpochNum,
		Memo:               payload.Memo,
		BurnFee:            firstOut.Amount,
		Input:              input,
		Txid:               tx.Txid(),
		Vtxindex:           tx.Vtxindex(),
		BlockHeight:        header.BlockHeight,
		BurnHeaderHash:     header.BlockHash,
		ForkSegmentID:      header.ForkSegmentID,
	}, nil
}
