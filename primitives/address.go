package primitives

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // grounded on exccutil.Hash160's two-stage digest; no replacement ships a drop-in Hash160.
)

// BurnAddressBytes is the well-known unspendable sink: the all-zero 20-byte
// hash. Any Address whose To bytes equal this sentinel is a burn output.
var BurnAddressBytes = [20]byte{}

// HashMode enumerates how the 20-byte address hash was derived from a
// burnchain signer's public key set. Single-sig and bare multisig are the
// two variants spec.md's equality requirement needs to be well-defined over.
type HashMode byte

const (
	HashModeSingleSigHash160 HashMode = 0x00
	HashModeMultiSigHash160  HashMode = 0x01
)

func (m HashMode) valid() bool {
	return m == HashModeSingleSigHash160 || m == HashModeMultiSigHash160
}

// Address is the 20-byte hash embedded in a burnchain output script,
// together with the hash mode under which it was produced.
type Address struct {
	HashMode HashMode
	Hash160  [20]byte
}

// NewAddress constructs an Address from an already-parsed 20-byte hash.
// The burnchain output-script parser (out of scope here) is responsible for
// recovering hash and mode from the script; this type only carries them.
func NewAddress(mode HashMode, hash [20]byte) (Address, error) {
	if !mode.valid() {
		return Address{}, fmt.Errorf("primitives: invalid hash_mode %#x", byte(mode))
	}
	return Address{HashMode: mode, Hash160: hash}, nil
}

// ToBytes returns the 20-byte hash embedded in the address.
func (a Address) ToBytes() [20]byte {
	return a.Hash160
}

// IsBurn reports whether a is the well-known burn sink.
func (a Address) IsBurn() bool {
	return a.Hash160 == BurnAddressBytes
}

func (a Address) String() string {
	return hex.EncodeToString(a.Hash160[:])
}

// Hash160 computes ripemd160(sha256(buf)), the two-stage digest burnchain
// address and signer hashing both use.
func Hash160(buf []byte) [20]byte {
	sum := sha256.Sum256(buf)
	h := ripemd160.New()
	h.Write(sum[:])
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
