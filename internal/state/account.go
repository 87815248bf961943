package state

import (
	"github.com/google/uuid"

	"PerpMarket/internal/fixed"
)

// Account is one participant's local state. Collateral semantics belong to
// the holder but every mutation flows through the settlement engine.
type Account struct {
	ID            uuid.UUID
	Position      Position
	Pending       PendingOrder
	Collateral    fixed.Dec6
	Reward        fixed.UDec6
	LatestVersion uint64

	// Liquidation marks a maintenance breach observed at settlement. The
	// flag is advisory until a liquidating update zeroes the position; it
	// clears once the account is healthy again. A shortfall account (zero
	// position, negative collateral) stays flagged until recapitalized.
	Liquidation bool
}

func NewAccount(id uuid.UUID) *Account {
	return &Account{ID: id}
}

// Settle catches the account up to the globally settled version, consuming
// the accumulator's cached per-unit values. The position can change
// mid-range only at the account's own pending-order version, so the
// catch-up is at most two checkpoint lookups regardless of how many
// versions elapsed. Global settlement to at least the target version is the
// caller's responsibility.
func (a *Account) Settle(g *Global) {
	target := g.LatestVersion
	if target <= a.LatestVersion {
		return
	}

	from, ok := g.CheckpointAt(a.LatestVersion)
	if !ok {
		// Accounts only ever rest on globally settled versions.
		panic("state: missing checkpoint for account version")
	}

	if a.Pending.Version != 0 && a.Pending.Version > a.LatestVersion && a.Pending.Version <= target {
		// Accrue the old position up to the fold boundary, then switch.
		boundary, ok := g.CheckpointAt(a.Pending.Version)
		if !ok {
			panic("state: missing checkpoint for pending version")
		}
		a.apply(from, boundary)
		a.Position = a.Pending.Position()
		from = boundary
	}

	to, ok := g.CheckpointAt(target)
	if !ok {
		panic("state: missing checkpoint for latest version")
	}
	a.apply(from, to)
	a.LatestVersion = target
}

func (a *Account) apply(from, to Checkpoint) {
	value, reward := Accrue(from, to, a.Position)
	a.Collateral = a.Collateral.Add(value)
	a.Reward = a.Reward.Add(reward)
}

// Maintenance returns the collateral required to keep a position open at a
// price.
func Maintenance(pos Position, price fixed.Dec6, ratio fixed.UDec18) fixed.UDec6 {
	notional := pos.Magnitude().To18().Mul(price.Abs().To18())
	return notional.Mul(ratio).To6()
}

// CheckMaintenance refreshes the liquidation flag against the requirement
// for the account's settled position.
func (a *Account) CheckMaintenance(price fixed.Dec6, ratio fixed.UDec18) {
	required := Maintenance(a.Position, price, ratio)
	if a.Position.IsZero() && a.Collateral.Sign() >= 0 {
		a.Liquidation = false
		return
	}
	a.Liquidation = a.Collateral.Cmp(required.Signed()) < 0
}
