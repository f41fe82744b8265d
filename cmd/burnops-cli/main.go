// Command burnops-cli is a conformance/debugging harness: one JSON request
// on stdin, one JSON response on stdout. Grounded on
// cmd/rubin-consensus-cli/main.go's stdin-decode / dispatch-on-op /
// stdout-encode loop. It is not a network service and does not reintroduce
// the Non-goals (mempool, reorg driving, network I/O) -- it drives exactly
// the four pure entry points this core exposes.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/opchain/burnops"
	"github.com/opchain/burnops/chainstate"
	"github.com/opchain/burnops/config"
	"github.com/opchain/burnops/primitives"
)

// Request mirrors the teacher CLI's flat, op-tagged JSON shape: every field
// any op might need, most left omitempty.
type Request struct {
	Op string `json:"op"`

	// Shape/decode inputs: a pre-recognized burnchain transaction.
	OpcodeHex  string         `json:"opcode,omitempty"`
	DataHex    string         `json:"data_hex,omitempty"`
	TxidHex    string         `json:"txid,omitempty"`
	Vtxindex   uint32         `json:"vtxindex,omitempty"`
	Signers    []string       `json:"signers,omitempty"` // hex-encoded public keys
	Recipients []RecipientRaw `json:"recipients,omitempty"`
	Header     HeaderRaw      `json:"header"`
}

// RecipientRaw is one JSON-encoded transaction output.
type RecipientRaw struct {
	AddressHex string `json:"address_hex"`
	HashMode   byte   `json:"hash_mode"`
	Amount     uint64 `json:"amount"`
}

// HeaderRaw is the containing block header, hex-encoded.
type HeaderRaw struct {
	BlockHeight         uint64 `json:"block_height"`
	BlockHashHex        string `json:"block_hash"`
	ParentBlockHashHex  string `json:"parent_block_hash"`
	NumTxs              uint64 `json:"num_txs"`
	ForkSegmentID       uint64 `json:"fork_segment_id"`
	ParentForkSegmentID uint64 `json:"parent_fork_segment_id"`
	ForkSegmentLength   uint64 `json:"fork_segment_length"`
	ForkLength          uint64 `json:"fork_length"`
}

// Response mirrors the teacher CLI's Ok/Err plus op-specific payload shape.
type Response struct {
	Ok   bool   `json:"ok"`
	Err  string `json:"err,omitempty"`
	Kind string `json:"kind,omitempty"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func main() {
	datadir := flag.String("datadir", config.DefaultDataDir(), "chainstate directory")
	configPath := flag.String("config", "", "path to a JSON config file (optional)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			os.Exit(1)
		}
	}
	cfg.DataDir = *datadir
	if err := config.Validate(cfg); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
		os.Exit(1)
	}

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return
	}

	tx, header, err := buildTransaction(req)
	if err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
		return
	}

	switch req.Op {
	case "decode-register", "decode-commit":
		decoded, err := burnops.DecodeOp(tx, header)
		if err != nil {
			writeErr(err)
			return
		}
		writeResp(os.Stdout, Response{Ok: true, Kind: decoded.Kind.String()})

	case "validate-register", "validate-commit":
		store, err := chainstate.Open(cfg.DataDir, cfg.Network)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		defer store.Close()

		decoded, err := burnops.DecodeOp(tx, header)
		if err != nil {
			writeErr(err)
			return
		}
		var writes []burnops.StoreWrite
		verr := store.View(context.Background(), func(rtx burnops.ReadTx) error {
			w, err := decoded.Validate(header, rtx, cfg.Params())
			writes = w
			return err
		})
		if verr != nil {
			writeErr(verr)
			return
		}
		if err := store.Apply(writes); err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		writeResp(os.Stdout, Response{Ok: true, Kind: decoded.Kind.String()})

	default:
		writeResp(os.Stdout, Response{Ok: false, Err: "unknown op"})
	}
}

func writeErr(err error) {
	if code, ok := burnops.CodeOf(err); ok {
		writeResp(os.Stdout, Response{Ok: false, Err: string(code)})
		return
	}
	writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
}

// jsonTransaction adapts a Request's raw JSON fields into the
// burnops.BurnchainTransaction collaborator interface (spec §6). It stands
// in for the out-of-scope burnchain transaction parser.
type jsonTransaction struct {
	opcode     burnops.Opcode
	data       []byte
	txid       primitives.Txid
	vtxindex   uint32
	signers    []burnops.Signer
	recipients []burnops.Recipient
}

func (t *jsonTransaction) Signers() []burnops.Signer       { return t.signers }
func (t *jsonTransaction) Recipients() []burnops.Recipient { return t.recipients }
func (t *jsonTransaction) Opcode() burnops.Opcode          { return t.opcode }
func (t *jsonTransaction) Data() []byte                    { return t.data }
func (t *jsonTransaction) Txid() primitives.Txid           { return t.txid }
func (t *jsonTransaction) Vtxindex() uint32                { return t.vtxindex }

func buildTransaction(req Request) (*jsonTransaction, burnops.BurnchainBlockHeader, error) {
	var header burnops.BurnchainBlockHeader
	header.BlockHeight = req.Header.BlockHeight
	header.NumTxs = req.Header.NumTxs
	header.ForkSegmentID = burnops.SegmentID(req.Header.ForkSegmentID)
	header.ParentForkSegmentID = burnops.SegmentID(req.Header.ParentForkSegmentID)
	header.ForkSegmentLength = req.Header.ForkSegmentLength
	header.ForkLength = req.Header.ForkLength
	if err := decodeFixed(req.Header.BlockHashHex, header.BlockHash[:]); err != nil {
		return nil, header, fmt.Errorf("header.block_hash: %w", err)
	}
	if err := decodeFixed(req.Header.ParentBlockHashHex, header.ParentBlockHash[:]); err != nil {
		return nil, header, fmt.Errorf("header.parent_block_hash: %w", err)
	}

	opcodeBytes, err := hex.DecodeString(req.OpcodeHex)
	if err != nil || len(opcodeBytes) != 1 {
		return nil, header, fmt.Errorf("bad opcode")
	}
	data, err := hex.DecodeString(req.DataHex)
	if err != nil {
		return nil, header, fmt.Errorf("bad data_hex")
	}
	var txid primitives.Txid
	if err := decodeFixed(req.TxidHex, txid[:]); err != nil {
		return nil, header, fmt.Errorf("txid: %w", err)
	}

	signers := make([]burnops.Signer, 0, len(req.Signers))
	for _, s := range req.Signers {
		pk, err := hex.DecodeString(s)
		if err != nil {
			return nil, header, fmt.Errorf("bad signer hex")
		}
		signers = append(signers, burnops.Signer{PublicKey: pk})
	}

	recipients := make([]burnops.Recipient, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		var hash [20]byte
		if err := decodeFixed(r.AddressHex, hash[:]); err != nil {
			return nil, header, fmt.Errorf("recipient address: %w", err)
		}
		addr, err := primitives.NewAddress(primitives.HashMode(r.HashMode), hash)
		if err != nil {
			return nil, header, err
		}
		recipients = append(recipients, burnops.Recipient{Address: addr, Amount: r.Amount})
	}

	return &jsonTransaction{
		opcode:     burnops.Opcode(opcodeBytes[0]),
		data:       data,
		txid:       txid,
		vtxindex:   req.Vtxindex,
		signers:    signers,
		recipients: recipients,
	}, header, nil
}

func decodeFixed(s string, dst []byte) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return fmt.Errorf("expected %d bytes, got %d", len(dst), len(b))
	}
	copy(dst, b)
	return nil
}
