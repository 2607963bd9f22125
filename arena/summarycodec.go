package arena

import (
	"github.com/fxamacker/cbor/v2"
)

// Summaries cross process boundaries (monitoring dumps, stress-run
// artifacts), so the encoding is pinned to deterministic core CBOR rather
// than whatever the default encoder happens to emit.

func summaryEncMode() (cbor.EncMode, error) {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeUnix
	return opts.EncMode()
}

// EncodeSummary serializes s as deterministic CBOR.
func EncodeSummary(s Summary) ([]byte, error) {
	em, err := summaryEncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(&s)
}

// DecodeSummary is the inverse of EncodeSummary.
func DecodeSummary(data []byte) (Summary, error) {
	var s Summary
	if err := cbor.Unmarshal(data, &s); err != nil {
		return Summary{}, err
	}
	return s, nil
}
