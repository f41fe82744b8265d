package burnops

import "github.com/opchain/burnops/primitives"

// inputSignerFrom adapts the collaborator's bare Signer (a public key) into
// the BurnchainSigner descriptor the address-binding check (spec §4.G rule
// 9) operates on. The collaborator interface (spec §6) only exposes a
// single public key per signer, so this is always a single-sig descriptor.
func inputSignerFrom(s Signer) (primitives.BurnchainSigner, error) {
	return primitives.NewBurnchainSigner(primitives.HashModeSingleSigHash160, 1, [][]byte{s.PublicKey})
}
