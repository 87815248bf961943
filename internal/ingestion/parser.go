package ingestion

import (
	"encoding/json"
	"fmt"

	"PerpMarket/internal/fixed"
)

// PricePoint is one validated price feed message, ready to publish as the
// next oracle version.
type PricePoint struct {
	Market      string
	Price       fixed.Dec6
	Sequence    uint64
	TimestampUs int64
}

// priceJSON is the wire format received from the price producer. Field names
// use snake_case to match upstream conventions.
type priceJSON struct {
	Market      string     `json:"market"`
	Price       fixed.Dec6 `json:"price"`
	Sequence    uint64     `json:"sequence"`
	TimestampUs int64      `json:"timestamp_us"`
}

// ParsePricePoint validates and converts a raw feed payload. Rejected
// messages are acked and dropped; a malformed producer must not wedge the
// stream.
func ParsePricePoint(data []byte) (PricePoint, error) {
	var j priceJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return PricePoint{}, fmt.Errorf("parse price point: %w", err)
	}

	if j.Market == "" {
		return PricePoint{}, fmt.Errorf("parse price point: missing market")
	}
	if j.TimestampUs <= 0 {
		return PricePoint{}, fmt.Errorf("parse price point: invalid timestamp %d", j.TimestampUs)
	}

	return PricePoint{
		Market:      j.Market,
		Price:       j.Price,
		Sequence:    j.Sequence,
		TimestampUs: j.TimestampUs,
	}, nil
}
