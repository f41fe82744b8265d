package primitives

import (
	"encoding/hex"
	"fmt"

	"filippo.io/edwards25519"
)

// VRFPublicKey is a 32-byte Ed25519 curve point. Construction fails if the
// bytes do not decompress to a valid point on the curve -- this is the only
// thing this module consumes from the VRF primitive; proof verification
// belongs to the sortition component and is never performed here.
type VRFPublicKey [32]byte

// ParseVRFPublicKey validates that raw decompresses to a point on the
// twisted Edwards curve and returns it as a VRFPublicKey. It does not
// check the point is in the prime-order subgroup: that stronger property
// is a proof-verification concern, out of scope for this layer.
func ParseVRFPublicKey(raw []byte) (VRFPublicKey, error) {
	var out VRFPublicKey
	if len(raw) != 32 {
		return out, fmt.Errorf("primitives: vrf public key must be 32 bytes, got %d", len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return out, fmt.Errorf("primitives: vrf public key is not a valid curve point: %w", err)
	}
	copy(out[:], raw)
	return out, nil
}

func (k VRFPublicKey) Equal(o VRFPublicKey) bool {
	return k == o
}

func (k VRFPublicKey) String() string {
	return hex.EncodeToString(k[:])
}

func (k VRFPublicKey) MarshalJSON() ([]byte, error) {
	return marshalFixed(k[:])
}

func (k *VRFPublicKey) UnmarshalJSON(b []byte) error {
	return unmarshalFixed(b, k[:])
}
