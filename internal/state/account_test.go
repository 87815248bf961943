package state

import (
	"testing"

	"github.com/google/uuid"

	"PerpMarket/internal/fixed"
	"PerpMarket/internal/oracle"
)

// advance publishes a version transition through the global state using the
// oracle history in versions.
func advance(t *testing.T, g *Global, versions []oracle.Version, to uint64, param MarketParameter) {
	t.Helper()
	for v := g.LatestVersion + 1; v <= to; v++ {
		g.Advance(versions[v-1], versions[v], param, fixed.U18("0.5"))
	}
}

func history(entries ...oracle.Version) []oracle.Version {
	return append([]oracle.Version{{}}, entries...) // index == version
}

func TestGlobalAdvanceWritesCheckpoints(t *testing.T) {
	g := NewGlobal()
	versions := history(
		version(1, 1000, "100"),
		version(2, 1000, "100"),
		version(3, 1000, "110"),
	)

	g.Pending = PendingOrder{Version: 2, Maker: fixed.U6("10"), Long: fixed.U6("5")}
	advance(t, g, versions, 3, flatParam("0"))

	if g.LatestVersion != 3 {
		t.Fatalf("latest version = %d, want 3", g.LatestVersion)
	}
	for v := uint64(0); v <= 3; v++ {
		if _, ok := g.CheckpointAt(v); !ok {
			t.Errorf("missing checkpoint %d", v)
		}
	}

	// The pending order folded at version 2, so the +10 move at version 3
	// accrued against it.
	ck, _ := g.CheckpointAt(3)
	if want := fixed.D18("10"); ck.LongValue.Cmp(want) != 0 {
		t.Errorf("long value = %s, want %s", ck.LongValue, want)
	}
	if g.Position.Maker.Cmp(fixed.U6("10")) != 0 {
		t.Errorf("position maker = %s, want 10", g.Position.Maker)
	}
}

func TestGlobalPendingFoldsAtItsVersion(t *testing.T) {
	g := NewGlobal()
	versions := history(
		version(1, 1000, "100"),
		version(2, 1000, "110"),
	)

	// The order waits for version 2: the 1 → 2 move must not touch it.
	g.Pending = PendingOrder{Version: 2, Long: fixed.U6("5")}
	advance(t, g, versions, 2, flatParam("0"))

	ck, _ := g.CheckpointAt(2)
	if !ck.LongValue.IsZero() {
		t.Errorf("order accrued before its version: long value %s", ck.LongValue)
	}
	if g.Position.Long.Cmp(fixed.U6("5")) != 0 {
		t.Errorf("position long = %s, want 5", g.Position.Long)
	}
}

func TestGlobalAddFeeSplit(t *testing.T) {
	g := NewGlobal()

	g.AddFee(fixed.U6("1"), fixed.U18("0.3"))
	if want := fixed.U6("0.3"); g.Fee.Protocol.Cmp(want) != 0 {
		t.Errorf("protocol fee = %s, want %s", g.Fee.Protocol, want)
	}
	if want := fixed.U6("0.7"); g.Fee.Market.Cmp(want) != 0 {
		t.Errorf("market fee = %s, want %s", g.Fee.Market, want)
	}

	// Truncation loss stays in the market bucket, never minted or lost.
	g = NewGlobal()
	g.AddFee(fixed.U6("0.000001"), fixed.U18("0.5"))
	total := g.Fee.Protocol.Add(g.Fee.Market)
	if total.Cmp(fixed.U6("0.000001")) != 0 {
		t.Errorf("fee split total = %s, want 0.000001", total)
	}
}

func TestGlobalRebasePending(t *testing.T) {
	g := NewGlobal()
	g.Position = Position{Maker: fixed.U6("10"), Long: fixed.U6("3")}

	// Folded (stale) pending rebases onto the settled position.
	g.Pending = PendingOrder{Version: 2, Maker: fixed.U6("10"), Long: fixed.U6("3")}
	got := g.RebasePending(5)
	if got.Version != 5 || got.Maker.Cmp(fixed.U6("10")) != 0 || got.Long.Cmp(fixed.U6("3")) != 0 {
		t.Errorf("rebased pending = %+v", got)
	}

	// A still-outstanding pending is returned as-is.
	g.Pending = PendingOrder{Version: 5, Maker: fixed.U6("7")}
	got = g.RebasePending(5)
	if got.Maker.Cmp(fixed.U6("7")) != 0 {
		t.Errorf("outstanding pending rebased: %+v", got)
	}
}

func TestAccountSettleCatchUp(t *testing.T) {
	g := NewGlobal()
	versions := history(
		version(1, 1000, "100"),
		version(2, 1000, "100"),
		version(3, 1000, "104"),
		version(4, 1000, "97"),
		version(5, 1000, "112"),
	)

	g.Pending = PendingOrder{Version: 2, Maker: fixed.U6("10"), Long: fixed.U6("5")}
	advance(t, g, versions, 5, flatParam("0"))

	a := NewAccount(uuid.New())
	a.Collateral = fixed.D6("1000")
	a.Pending = PendingOrder{Version: 2, Long: fixed.U6("5")}
	a.Settle(g)

	// Only the endpoints matter: the long earned (112 − 100) × 5.
	if want := fixed.D6("1060"); a.Collateral.Cmp(want) != 0 {
		t.Errorf("collateral = %s, want %s", a.Collateral, want)
	}
	if a.LatestVersion != 5 {
		t.Errorf("latest version = %d, want 5", a.LatestVersion)
	}
	if a.Position.Long.Cmp(fixed.U6("5")) != 0 {
		t.Errorf("position long = %s, want 5", a.Position.Long)
	}

	// Settling again is a no-op.
	a.Settle(g)
	if a.Collateral.Cmp(fixed.D6("1060")) != 0 {
		t.Errorf("repeat settle changed collateral: %s", a.Collateral)
	}
}

func TestAccountSettlePendingMidRange(t *testing.T) {
	g := NewGlobal()
	versions := history(
		version(1, 1000, "100"),
		version(2, 1000, "100"),
		version(3, 1000, "110"),
		version(4, 1000, "120"),
	)

	// Maker liquidity is someone else; this account flips from flat to
	// long mid-range.
	g.Pending = PendingOrder{Version: 2, Maker: fixed.U6("10")}
	g.Advance(versions[0], versions[1], flatParam("0"), fixed.UDec18{})
	g.Advance(versions[1], versions[2], flatParam("0"), fixed.UDec18{})
	g.Pending = PendingOrder{Version: 3, Maker: fixed.U6("10"), Long: fixed.U6("2")}
	g.Advance(versions[2], versions[3], flatParam("0"), fixed.UDec18{})
	g.Advance(versions[3], versions[4], flatParam("0"), fixed.UDec18{})

	a := NewAccount(uuid.New())
	a.Collateral = fixed.D6("500")
	a.LatestVersion = 2
	a.Pending = PendingOrder{Version: 3, Long: fixed.U6("2")}
	a.Settle(g)

	// Flat through 2 → 3, long 2 through 3 → 4: (120 − 110) × 2.
	if want := fixed.D6("520"); a.Collateral.Cmp(want) != 0 {
		t.Errorf("collateral = %s, want %s", a.Collateral, want)
	}
}

func TestCheckMaintenance(t *testing.T) {
	price := fixed.D6("100")
	ratio := fixed.U18("0.1")

	a := NewAccount(uuid.New())
	a.Position = Position{Long: fixed.U6("1")}

	a.Collateral = fixed.D6("10")
	a.CheckMaintenance(price, ratio)
	if a.Liquidation {
		t.Error("account at exact requirement flagged")
	}

	a.Collateral = fixed.D6("9.999999")
	a.CheckMaintenance(price, ratio)
	if !a.Liquidation {
		t.Error("under-collateralized account not flagged")
	}

	// Healthy zero-position account clears the flag.
	a.Position = Position{}
	a.Collateral = fixed.D6("0")
	a.CheckMaintenance(price, ratio)
	if a.Liquidation {
		t.Error("flat account stayed flagged")
	}

	// Shortfall account stays flagged until recapitalized.
	a.Collateral = fixed.D6("-5")
	a.CheckMaintenance(price, ratio)
	if !a.Liquidation {
		t.Error("shortfall account not flagged")
	}
}

func TestMaintenanceUsesMagnitude(t *testing.T) {
	// Hedged taker legs do not net off for maintenance.
	p := Position{Maker: fixed.U6("2"), Long: fixed.U6("3"), Short: fixed.U6("3")}
	got := Maintenance(p, fixed.D6("100"), fixed.U18("0.1"))
	if want := fixed.U6("80"); got.Cmp(want) != 0 {
		t.Errorf("maintenance = %s, want %s", got, want)
	}
}
