package burnops

import "github.com/opchain/burnops/primitives"

// Opcode identifies which protocol operation a burnchain transaction's
// payload encodes. Values are part of the on-chain protocol and are
// supplied by the framing stage that already stripped them, along with the
// magic bytes, from the transaction's data payload.
type Opcode byte

const (
	// OpcodeLeaderKeyRegister tags a LeaderKeyRegister payload.
	OpcodeLeaderKeyRegister Opcode = '?'
	// OpcodeLeaderBlockCommit tags a LeaderBlockCommit payload.
	OpcodeLeaderBlockCommit Opcode = '['
)

// Signer describes one input to a burnchain transaction, as exposed by the
// collaborating burnchain transaction parser.
type Signer struct {
	PublicKey []byte
}

// Recipient describes one output of a burnchain transaction.
type Recipient struct {
	Address primitives.Address
	Amount  uint64
}

// BurnchainTransaction is the inbound collaborator interface (spec §6):
// a transaction already recognized and extracted from a raw burnchain
// block by a component out of scope here.
type BurnchainTransaction interface {
	Signers() []Signer
	Recipients() []Recipient
	Opcode() Opcode
	Data() []byte // the payload, with the 3-byte magic+opcode prefix already stripped
	Txid() primitives.Txid
	Vtxindex() uint32
}

// Framing re-checks the opcode byte a shape validator claims to be decoding
// against the one the framing stage already embedded on the transaction,
// mirroring how consensus/errors.go centralizes a protocol's stable error
// vocabulary for every recognizer in that codebase.
type Framing struct {
	Want Opcode
	Op   string
}

// Check rejects tx with ErrInvalidInput if its embedded opcode does not
// match Want.
func (f Framing) Check(tx BurnchainTransaction) error {
	if tx.Opcode() != f.Want {
		return operr(f.Op, ErrInvalidInput, "opcode mismatch")
	}
	return nil
}
