package burnops

import (
	"encoding/binary"

	"github.com/opchain/burnops/primitives"
)

// Minimum payload lengths from the wire tables (spec §4.C). The payload
// passed in here has already had its 3-byte magic+opcode framing prefix
// stripped by the framing stage.
const (
	leaderKeyRegisterMinLen = 52
	leaderBlockCommitMinLen = 77
)

func readBytes(b []byte, off *int, n int) ([]byte, error) {
	if n < 0 || *off+n > len(b) {
		return nil, operr("", ErrParseError, "unexpected EOF")
	}
	v := b[*off : *off+n]
	*off += n
	return v, nil
}

func readU16be(b []byte, off *int) (uint16, error) {
	if *off+2 > len(b) {
		return 0, operr("", ErrParseError, "unexpected EOF (u16be)")
	}
	v := binary.BigEndian.Uint16(b[*off : *off+2])
	*off += 2
	return v, nil
}

func readU32be(b []byte, off *int) (uint32, error) {
	if *off+4 > len(b) {
		return 0, operr("", ErrParseError, "unexpected EOF (u32be)")
	}
	v := binary.BigEndian.Uint32(b[*off : *off+4])
	*off += 4
	return v, nil
}

// decodedLeaderKeyRegisterPayload is the wire-only portion of a
// LeaderKeyRegister record: consensus_hash, public_key, memo. Header- and
// transaction-shape-derived fields (address, txid, vtxindex, ...) are
// filled in by the shape validator (component D), never here.
type decodedLeaderKeyRegisterPayload struct {
	ConsensusHash primitives.ConsensusHash
	PublicKey     primitives.VRFPublicKey
	Memo          []byte
}

// DecodeLeaderKeyRegisterPayload decodes the wire format tabulated in
// spec §4.C. It rejects under-length payloads and invalid VRF public key
// bytes; no other structural validation happens here.
func DecodeLeaderKeyRegisterPayload(data []byte) (decodedLeaderKeyRegisterPayload, error) {
	var out decodedLeaderKeyRegisterPayload
	if len(data) < leaderKeyRegisterMinLen {
		return out, operr("leader_key_register", ErrParseError, "payload shorter than 52 bytes")
	}
	off := 0
	chBytes, err := readBytes(data, &off, 20)
	if err != nil {
		return out, err
	}
	copy(out.ConsensusHash[:], chBytes)

	pkBytes, err := readBytes(data, &off, 32)
	if err != nil {
		return out, err
	}
	pk, err := primitives.ParseVRFPublicKey(pkBytes)
	if err != nil {
		return out, operr("leader_key_register", ErrParseError, err.Error())
	}
	out.PublicKey = pk

	out.Memo = append([]byte(nil), data[off:]...)
	return out, nil
}

// decodedLeaderBlockCommitPayload is the wire-only portion of a
// LeaderBlockCommit record.
type decodedLeaderBlockCommitPayload struct {
	BlockHeaderHash    primitives.BlockHeaderHash
	NewSeed            primitives.VRFSeed
	ParentBlockBackptr uint16
	ParentVtxindex     uint16
	KeyBlockBackptr    uint16
	KeyVtxindex        uint16
	EpochNum           uint32
	Memo               []byte
}

// DecodeLeaderBlockCommitPayload decodes the wire format tabulated in
// spec §4.C. Exactly one memo byte is consumed; any further trailing bytes
// are ignored (this is where the source-commented "hybrid PoB/PoW" layout
// would have substituted a 9-byte PoW nonce for the memo -- that alternative
// is never parsed here, see spec §9).
func DecodeLeaderBlockCommitPayload(data []byte) (decodedLeaderBlockCommitPayload, error) {
	var out decodedLeaderBlockCommitPayload
	if len(data) < leaderBlockCommitMinLen {
		return out, operr("leader_block_commit", ErrParseError, "payload shorter than 77 bytes")
	}
	off := 0

	hashBytes, err := readBytes(data, &off, 32)
	if err != nil {
		return out, err
	}
	copy(out.BlockHeaderHash[:], hashBytes)

	seedBytes, err := readBytes(data, &off, 32)
	if err != nil {
		return out, err
	}
	copy(out.NewSeed[:], seedBytes)

	if out.ParentBlockBackptr, err = readU16be(data, &off); err != nil {
		return out, err
	}
	if out.ParentVtxindex, err = readU16be(data, &off); err != nil {
		return out, err
	}
	if out.KeyBlockBackptr, err = readU16be(data, &off); err != nil {
		return out, err
	}
	if out.KeyVtxindex, err = readU16be(data, &off); err != nil {
		return out, err
	}
	if out.EpochNum, err = readU32be(data, &off); err != nil {
		return out, err
	}

	memoByte, err := readBytes(data, &off, 1)
	if err != nil {
		return out, err
	}
	out.Memo = append([]byte(nil), memoByte...)
	return out, nil
}
