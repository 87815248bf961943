package state

import (
	"PerpMarket/internal/fixed"
	"PerpMarket/internal/oracle"
)

// PendingOrder is a requested position as of an oracle version, not yet
// folded into value accrual. Version 0 means no request is outstanding.
type PendingOrder struct {
	Version uint64      `json:"version"`
	Maker   fixed.UDec6 `json:"maker"`
	Long    fixed.UDec6 `json:"long"`
	Short   fixed.UDec6 `json:"short"`
}

func (p PendingOrder) Position() Position {
	return Position{Maker: p.Maker, Long: p.Long, Short: p.Short}
}

// FeeTotals is the accrued protocol/market fee split.
type FeeTotals struct {
	Protocol fixed.UDec6 `json:"protocol"`
	Market   fixed.UDec6 `json:"market"`
}

// Global is the aggregate market state: the latest settled position, the
// aggregate pending order, the fee totals and the version accumulator.
type Global struct {
	Position      Position
	Pending       PendingOrder
	LatestVersion uint64
	Fee           FeeTotals

	// checkpoints holds the cumulative accumulator entry for every settled
	// version. Append-only, never pruned; cost is amortized by settling
	// frequently.
	checkpoints map[uint64]Checkpoint
}

func NewGlobal() *Global {
	return &Global{
		checkpoints: map[uint64]Checkpoint{0: {}},
	}
}

// RestoreGlobal rebuilds aggregate state from snapshot data. The checkpoint
// map is copied; the pre-genesis zero entry is ensured.
func RestoreGlobal(pos Position, pending PendingOrder, latest uint64, fee FeeTotals, checkpoints map[uint64]Checkpoint) *Global {
	cks := make(map[uint64]Checkpoint, len(checkpoints)+1)
	for v, ck := range checkpoints {
		cks[v] = ck
	}
	cks[0] = Checkpoint{}

	return &Global{
		Position:      pos,
		Pending:       pending,
		LatestVersion: latest,
		Fee:           fee,
		checkpoints:   cks,
	}
}

// Checkpoints returns a copy of every settled accumulator entry.
func (g *Global) Checkpoints() map[uint64]Checkpoint {
	out := make(map[uint64]Checkpoint, len(g.checkpoints))
	for v, ck := range g.checkpoints {
		out[v] = ck
	}
	return out
}

// CheckpointAt returns the cumulative accumulator entry at a settled
// version. Version 0 is the zero pre-genesis entry.
func (g *Global) CheckpointAt(version uint64) (Checkpoint, bool) {
	ck, ok := g.checkpoints[version]
	return ck, ok
}

// Advance runs one version transition: accrues funding, price PnL and
// rewards over the live interval using the position held before the
// transition, writes the checkpoint at to.Version, collects the fee slice
// and finally folds the aggregate pending order once its version is
// reached. Orders submitted at version V start earning and paying at V+1.
func (g *Global) Advance(from, to oracle.Version, param MarketParameter, protocolShare fixed.UDec18) Accumulation {
	acc := Accumulate(from, to, g.Position, param)

	prev := g.checkpoints[from.Version]
	g.checkpoints[to.Version] = prev.Add(acc.Delta)

	g.AddFee(acc.Fee, protocolShare)

	if g.Pending.Version != 0 && to.Version >= g.Pending.Version {
		g.Position = g.Pending.Position()
	}
	g.LatestVersion = to.Version

	return acc
}

// AddFee splits a fee amount into the protocol/market buckets.
func (g *Global) AddFee(amount fixed.UDec6, protocolShare fixed.UDec18) {
	if amount.IsZero() {
		return
	}
	protocol := amount.To18().Mul(protocolShare).To6()
	g.Fee.Protocol = g.Fee.Protocol.Add(protocol)
	g.Fee.Market = g.Fee.Market.Add(amount.Sub(protocol))
}

// RebasePending rolls an already-folded pending order forward onto the
// current settled position so a new request at pendingVersion starts from
// the authoritative base.
func (g *Global) RebasePending(pendingVersion uint64) PendingOrder {
	if g.Pending.Version >= pendingVersion {
		return g.Pending
	}
	return PendingOrder{
		Version: pendingVersion,
		Maker:   g.Position.Maker,
		Long:    g.Position.Long,
		Short:   g.Position.Short,
	}
}
