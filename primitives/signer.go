package primitives

import "fmt"

// maxSigners bounds a degenerate signer descriptor (e.g. a bare multisig
// advertising thousands of keys) that nothing downstream would otherwise
// reject before it reached address hashing.
const maxSigners = 16

// BurnchainSigner describes the sender of a LeaderBlockCommit transaction's
// first input: the hash mode, signature threshold, and public keys the
// spending script commits to. Equality of the derived 20-byte address bits
// against a leader key's registered address is the entire proof of control
// this layer requires (see spec §4.G rule 9): no signature is re-verified.
type BurnchainSigner struct {
	HashMode   HashMode
	NumSigs    uint8
	PublicKeys [][]byte
}

// NewBurnchainSigner validates and constructs a signer descriptor.
func NewBurnchainSigner(mode HashMode, numSigs uint8, pubkeys [][]byte) (BurnchainSigner, error) {
	if !mode.valid() {
		return BurnchainSigner{}, fmt.Errorf("primitives: invalid hash_mode %#x", byte(mode))
	}
	if numSigs == 0 {
		return BurnchainSigner{}, fmt.Errorf("primitives: num_sigs must be >= 1")
	}
	if len(pubkeys) == 0 || len(pubkeys) > maxSigners {
		return BurnchainSigner{}, fmt.Errorf("primitives: public_keys count %d out of range (1..%d)", len(pubkeys), maxSigners)
	}
	if int(numSigs) > len(pubkeys) {
		return BurnchainSigner{}, fmt.Errorf("primitives: num_sigs %d exceeds public_keys count %d", numSigs, len(pubkeys))
	}
	out := make([][]byte, len(pubkeys))
	for i, pk := range pubkeys {
		out[i] = append([]byte(nil), pk...)
	}
	return BurnchainSigner{HashMode: mode, NumSigs: numSigs, PublicKeys: out}, nil
}

// ToAddressBits reproduces the 20-byte hash used when the corresponding
// Address was constructed from the same (hash_mode, num_sigs, public_keys)
// triple: hash160 over a canonical preimage encoding.
func (s BurnchainSigner) ToAddressBits() [20]byte {
	preimage := make([]byte, 0, 2+len(s.PublicKeys)*33)
	preimage = append(preimage, byte(s.HashMode), s.NumSigs)
	for _, pk := range s.PublicKeys {
		preimage = append(preimage, pk...)
	}
	return Hash160(preimage)
}
