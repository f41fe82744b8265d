package burnops

import (
	"github.com/sirupsen/logrus"

	"github.com/opchain/burnops/primitives"
)

// logRejection and logAcceptance record every validator decision at the
// fields spec component K names: op, code (acceptance omits it), txid,
// vtxindex, fork_segment_id, block_height. Grounded on the structured,
// field-based logrus calls the examples use elsewhere in the pack -- this
// teacher repo itself never logs.
var log = logrus.StandardLogger()

func logRejection(op string, code ErrorCode, txid primitives.Txid, vtxindex uint32, segment SegmentID, blockHeight uint64) {
	log.WithFields(logrus.Fields{
		"op":              op,
		"code":            string(code),
		"txid":            txid.String(),
		"vtxindex":        vtxindex,
		"fork_segment_id": segment,
		"block_height":    blockHeight,
	}).Debug("burnchain operation rejected")
}

func logAcceptance(op string, txid primitives.Txid, vtxindex uint32, segment SegmentID, blockHeight uint64) {
	log.WithFields(logrus.Fields{
		"op":              op,
		"txid":            txid.String(),
		"vtxindex":        vtxindex,
		"fork_segment_id": segment,
		"block_height":    blockHeight,
	}).Debug("burnchain operation accepted")
}
