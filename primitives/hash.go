// Package primitives defines the fixed-width value types shared by the
// burnchain operation decoder and validator: hashes, VRF public keys,
// addresses and burnchain signers.
package primitives

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// BlockHeaderHash identifies a block header on the chain this validator
// is building for (as opposed to the burnchain carrying it).
type BlockHeaderHash [32]byte

// BurnchainHeaderHash identifies a block header on the underlying burnchain.
type BurnchainHeaderHash [32]byte

// VRFSeed is the 32-byte seed commitment carried by a block-commit.
type VRFSeed [32]byte

// Txid identifies a burnchain transaction.
type Txid [32]byte

// OpsHash digests the operations accepted in one block.
type OpsHash [32]byte

// SortitionHash is the randomness input to downstream sortition.
type SortitionHash [32]byte

// ConsensusHash identifies a burnchain snapshot for freshness checks.
type ConsensusHash [20]byte

func (h BlockHeaderHash) Equal(o BlockHeaderHash) bool {
	return subtle.ConstantTimeCompare(h[:], o[:]) == 1
}

func (h BurnchainHeaderHash) Equal(o BurnchainHeaderHash) bool {
	return subtle.ConstantTimeCompare(h[:], o[:]) == 1
}

func (h VRFSeed) Equal(o VRFSeed) bool {
	return subtle.ConstantTimeCompare(h[:], o[:]) == 1
}

func (h Txid) Equal(o Txid) bool {
	return subtle.ConstantTimeCompare(h[:], o[:]) == 1
}

func (h OpsHash) Equal(o OpsHash) bool {
	return subtle.ConstantTimeCompare(h[:], o[:]) == 1
}

func (h SortitionHash) Equal(o SortitionHash) bool {
	return subtle.ConstantTimeCompare(h[:], o[:]) == 1
}

func (h ConsensusHash) Equal(o ConsensusHash) bool {
	return subtle.ConstantTimeCompare(h[:], o[:]) == 1
}

func (h BlockHeaderHash) String() string     { return hex.EncodeToString(h[:]) }
func (h BurnchainHeaderHash) String() string { return hex.EncodeToString(h[:]) }
func (h VRFSeed) String() string             { return hex.EncodeToString(h[:]) }
func (h Txid) String() string                { return hex.EncodeToString(h[:]) }
func (h OpsHash) String() string             { return hex.EncodeToString(h[:]) }
func (h SortitionHash) String() string       { return hex.EncodeToString(h[:]) }
func (h ConsensusHash) String() string       { return hex.EncodeToString(h[:]) }

func (h BlockHeaderHash) MarshalJSON() ([]byte, error)     { return marshalFixed(h[:]) }
func (h BurnchainHeaderHash) MarshalJSON() ([]byte, error) { return marshalFixed(h[:]) }
func (h VRFSeed) MarshalJSON() ([]byte, error)             { return marshalFixed(h[:]) }
func (h Txid) MarshalJSON() ([]byte, error)                { return marshalFixed(h[:]) }
func (h OpsHash) MarshalJSON() ([]byte, error)             { return marshalFixed(h[:]) }
func (h SortitionHash) MarshalJSON() ([]byte, error)       { return marshalFixed(h[:]) }
func (h ConsensusHash) MarshalJSON() ([]byte, error)       { return marshalFixed(h[:]) }

func (h *BlockHeaderHash) UnmarshalJSON(b []byte) error     { return unmarshalFixed(b, h[:]) }
func (h *BurnchainHeaderHash) UnmarshalJSON(b []byte) error { return unmarshalFixed(b, h[:]) }
func (h *VRFSeed) UnmarshalJSON(b []byte) error             { return unmarshalFixed(b, h[:]) }
func (h *Txid) UnmarshalJSON(b []byte) error                { return unmarshalFixed(b, h[:]) }
func (h *OpsHash) UnmarshalJSON(b []byte) error             { return unmarshalFixed(b, h[:]) }
func (h *SortitionHash) UnmarshalJSON(b []byte) error       { return unmarshalFixed(b, h[:]) }
func (h *ConsensusHash) UnmarshalJSON(b []byte) error       { return unmarshalFixed(b, h[:]) }

func marshalFixed(b []byte) ([]byte, error) {
	return json.Marshal(hex.EncodeToString(b))
}

func unmarshalFixed(raw []byte, dst []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("primitives: invalid hex: %w", err)
	}
	if len(decoded) != len(dst) {
		return fmt.Errorf("primitives: expected %d bytes, got %d", len(dst), len(decoded))
	}
	copy(dst, decoded)
	return nil
}
