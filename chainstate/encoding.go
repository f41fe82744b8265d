package chainstate

import (
	"encoding/binary"
	"fmt"

	"github.com/opchain/burnops"
	"github.com/opchain/burnops/primitives"
)

// Composite keys are encoded big-endian so bbolt's lexicographic cursor
// order matches ascending numeric order for range scans (the
// consensus_hash freshness window walk). Scalar values that are never
// range-scanned keep the teacher's little-endian convention
// (node/store/utxo_encoding.go).

func segmentKey(segment burnops.SegmentID) []byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], uint64(segment))
	return out[:]
}

func slotKey(segment burnops.SegmentID, height uint64, vtxindex uint32, kind byte) []byte {
	out := make([]byte, 8+8+4+1)
	binary.BigEndian.PutUint64(out[0:8], uint64(segment))
	binary.BigEndian.PutUint64(out[8:16], height)
	binary.BigEndian.PutUint32(out[16:20], vtxindex)
	out[20] = kind
	return out
}

func consensusHashKey(segment burnops.SegmentID, height uint64) []byte {
	out := make([]byte, 16)
	binary.BigEndian.PutUint64(out[0:8], uint64(segment))
	binary.BigEndian.PutUint64(out[8:16], height)
	return out
}

func pubkeyRowKey(segment burnops.SegmentID, key primitives.VRFPublicKey) []byte {
	out := make([]byte, 8+32)
	binary.BigEndian.PutUint64(out[0:8], uint64(segment))
	copy(out[8:40], key[:])
	return out
}

const (
	slotKindKeyRegister byte = 1
	slotKindBlockCommit byte = 2
)

// encodeSnapshot lays out: height u64le | burn_header_hash 32 | consensus_hash 20 | fork_segment_id u64le.
func encodeSnapshot(s burnops.Snapshot) []byte {
	out := make([]byte, 8+32+20+8)
	binary.LittleEndian.PutUint64(out[0:8], s.BlockHeight)
	copy(out[8:40], s.BurnHeaderHash[:])
	copy(out[40:60], s.ConsensusHash[:])
	binary.LittleEndian.PutUint64(out[60:68], uint64(s.ForkSegmentID))
	return out
}

func decodeSnapshot(b []byte) (burnops.Snapshot, error) {
	if len(b) != 68 {
		return burnops.Snapshot{}, fmt.Errorf("chainstate: snapshot: expected 68 bytes, got %d", len(b))
	}
	var s burnops.Snapshot
	s.BlockHeight = binary.LittleEndian.Uint64(b[0:8])
	copy(s.BurnHeaderHash[:], b[8:40])
	copy(s.ConsensusHash[:], b[40:60])
	s.ForkSegmentID = burnops.SegmentID(binary.LittleEndian.Uint64(b[60:68]))
	return s, nil
}

// encodeKeyRegister lays out the fields of LeaderKeyRegisterOp needed to
// reconstruct it from a snapshots_by_slot row: consensus_hash 20 |
// public_key 32 | address.hash_mode 1 | address.hash160 20 | txid 32 |
// vtxindex u32le | block_height u64le | burn_header_hash 32 | fork_segment_id u64le | memo (rest).
func encodeKeyRegister(op burnops.LeaderKeyRegisterOp) []byte {
	out := make([]byte, 0, 20+32+1+20+32+4+8+32+8+len(op.Memo))
	out = append(out, op.ConsensusHash[:]...)
	out = append(out, op.PublicKey[:]...)
	out = append(out, byte(op.Address.HashMode))
	out = append(out, op.Address.Hash160[:]...)
	out = append(out, op.Txid[:]...)
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], op.Vtxindex)
	out = append(out, tmp4[:]...)
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], op.BlockHeight)
	out = append(out, tmp8[:]...)
	out = append(out, op.BurnHeaderHash[:]...)
	binary.LittleEndian.PutUint64(tmp8[:], uint64(op.ForkSegmentID))
	out = append(out, tmp8[:]...)
	out = append(out, op.Memo...)
	return out
}

func decodeKeyRegister(b []byte) (burnops.LeaderKeyRegisterOp, error) {
	const fixed = 20 + 32 + 1 + 20 + 32 + 4 + 8 + 32 + 8
	if len(b) < fixed {
		return burnops.LeaderKeyRegisterOp{}, fmt.Errorf("chainstate: key_register row: truncated")
	}
	var op burnops.LeaderKeyRegisterOp
	off := 0
	copy(op.ConsensusHash[:], b[off:off+20])
	off += 20
	copy(op.PublicKey[:], b[off:off+32])
	off += 32
	mode := primitives.HashMode(b[off])
	off++
	var hash160 [20]byte
	copy(hash160[:], b[off:off+20])
	off += 20
	addr, err := primitives.NewAddress(mode, hash160)
	if err != nil {
		return burnops.LeaderKeyRegisterOp{}, fmt.Errorf("chainstate: key_register row: %w", err)
	}
	op.Address = addr
	copy(op.Txid[:], b[off:off+32])
	off += 32
	op.Vtxindex = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	op.BlockHeight = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	copy(op.BurnHeaderHash[:], b[off:off+32])
	off += 32
	op.ForkSegmentID = burnops.SegmentID(binary.LittleEndian.Uint64(b[off : off+8]))
	off += 8
	op.Memo = append([]byte(nil), b[off:]...)
	return op, nil
}

// encodeBlockCommit mirrors encodeKeyRegister for LeaderBlockCommitOp:
// block_header_hash 32 | new_seed 32 | parent_block_backptr u16le |
// parent_vtxindex u16le | key_block_backptr u16le | key_vtxindex u16le |
// epoch_num u32le | burn_fee u64le | input.hash_mode 1 | input.num_sigs 1 |
// input.num_keys u16le | input.public_keys (33 bytes each) | txid 32 |
// vtxindex u32le | block_height u64le | burn_header_hash 32 |
// fork_segment_id u64le | memo (rest).
func encodeBlockCommit(op burnops.LeaderBlockCommitOp) []byte {
	out := make([]byte, 0, 256)
	out = append(out, op.BlockHeaderHash[:]...)
	out = append(out, op.NewSeed[:]...)
	var tmp2 [2]byte
	binary.LittleEndian.PutUint16(tmp2[:], op.ParentBlockBackptr)
	out = append(out, tmp2[:]...)
	binary.LittleEndian.PutUint16(tmp2[:], op.ParentVtxindex)
	out = append(out, tmp2[:]...)
	binary.LittleEndian.PutUint16(tmp2[:], op.KeyBlockBackptr)
	out = append(out, tmp2[:]...)
	binary.LittleEndian.PutUint16(tmp2[:], op.KeyVtxindex)
	out = append(out, tmp2[:]...)
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], op.EpochNum)
	out = append(out, tmp4[:]...)
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], op.BurnFee)
	out = append(out, tmp8[:]...)
	out = append(out, byte(op.Input.HashMode), op.Input.NumSigs)
	binary.LittleEndian.PutUint16(tmp2[:], uint16(len(op.Input.PublicKeys)))
	out = append(out, tmp2[:]...)
	for _, pk := range op.Input.PublicKeys {
		var keyBuf [33]byte
		copy(keyBuf[:], pk)
		out = append(out, keyBuf[:]...)
	}
	out = append(out, op.Txid[:]...)
	binary.LittleEndian.PutUint32(tmp4[:], op.Vtxindex)
	out = append(out, tmp4[:]...)
	binary.LittleEndian.PutUint64(tmp8[:], op.BlockHeight)
	out = append(out, tmp8[:]...)
	out = append(out, op.BurnHeaderHash[:]...)
	binary.LittleEndian.PutUint64(tmp8[:], uint64(op.ForkSegmentID))
	out = append(out, tmp8[:]...)
	out = append(out, op.Memo...)
	return out
}

func decodeBlockCommit(b []byte) (burnops.LeaderBlockCommitOp, error) {
	const fixedUpToKeyCount = 32 + 32 + 2 + 2 + 2 + 2 + 4 + 8 + 1 + 1 + 2
	if len(b) < fixedUpToKeyCount {
		return burnops.LeaderBlockCommitOp{}, fmt.Errorf("chainstate: block_commit row: truncated")
	}
	var op burnops.LeaderBlockCommitOp
	off := 0
	copy(op.BlockHeaderHash[:], b[off:off+32])
	off += 32
	copy(op.NewSeed[:], b[off:off+32])
	off += 32
	op.ParentBlockBackptr = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	op.ParentVtxindex = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	op.KeyBlockBackptr = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	op.KeyVtxindex = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	op.EpochNum = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	op.BurnFee = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	mode := primitives.HashMode(b[off])
	off++
	numSigs := b[off]
	off++
	numKeys := int(binary.LittleEndian.Uint16(b[off : off+2]))
	off += 2
	if off+numKeys*33+32+4+8+32+8 > len(b) {
		return burnops.LeaderBlockCommitOp{}, fmt.Errorf("chainstate: block_commit row: truncated public_keys")
	}
	pubkeys := make([][]byte, numKeys)
	for i := 0; i < numKeys; i++ {
		pk := append([]byte(nil), b[off:off+33]...)
		pubkeys[i] = pk
		off += 33
	}
	input, err := primitives.NewBurnchainSigner(mode, numSigs, pubkeys)
	if err != nil {
		return burnops.LeaderBlockCommitOp{}, fmt.Errorf("chainstate: block_commit row: %w", err)
	}
	op.Input = input
	copy(op.Txid[:], b[off:off+32])
	off += 32
	op.Vtxindex = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	op.BlockHeight = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	copy(op.BurnHeaderHash[:], b[off:off+32])
	off += 32
	op.ForkSegmentID = burnops.SegmentID(binary.LittleEndian.Uint64(b[off : off+8]))
	off += 8
	op.Memo = append([]byte(nil), b[off:]...)
	return op, nil
}
