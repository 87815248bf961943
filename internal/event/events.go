package event

import (
	"github.com/google/uuid"

	"PerpMarket/internal/fixed"
)

// Updated records an accepted position update: the pending order that will
// take effect at Version and the collateral after the change.
type Updated struct {
	Account    uuid.UUID   `json:"account"`
	Version    uint64      `json:"version"`
	Maker      fixed.UDec6 `json:"maker"`
	Long       fixed.UDec6 `json:"long"`
	Short      fixed.UDec6 `json:"short"`
	Collateral fixed.Dec6  `json:"collateral"`
}

// Liquidation records an executed liquidating update. Shortfall is negative
// when the account was left with bad debt requiring recapitalization.
type Liquidation struct {
	Account    uuid.UUID   `json:"account"`
	Liquidator uuid.UUID   `json:"liquidator"`
	Version    uint64      `json:"version"`
	Fee        fixed.UDec6 `json:"fee"`
	Shortfall  fixed.Dec6  `json:"shortfall"`
}

// FeeClaimed records a protocol or market fee payout.
type FeeClaimed struct {
	Scope     string      `json:"scope"` // "protocol" or "market"
	Recipient uuid.UUID   `json:"recipient"`
	Amount    fixed.UDec6 `json:"amount"`
}

// RewardClaimed records an account zeroing its accrued reward balance.
type RewardClaimed struct {
	Account uuid.UUID   `json:"account"`
	Amount  fixed.UDec6 `json:"amount"`
}

// ClosedUpdated records the market's closed flag changing.
type ClosedUpdated struct {
	Closed  bool   `json:"closed"`
	Version uint64 `json:"version"`
}

// VersionSettled records one global version transition and its accumulator
// outcome.
type VersionSettled struct {
	Version         uint64      `json:"version"`
	Price           fixed.Dec6  `json:"price"`
	FundingTransfer fixed.UDec6 `json:"funding_transfer"`
	Fee             fixed.UDec6 `json:"fee"`
	Maker           fixed.UDec6 `json:"maker"`
	Long            fixed.UDec6 `json:"long"`
	Short           fixed.UDec6 `json:"short"`
}
