package ingestion

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"PerpMarket/internal/fixed"
	"PerpMarket/internal/oracle"
	"PerpMarket/internal/testutil"
)

func TestPriceFeedPublishesOracleVersions(t *testing.T) {
	testutil.RequireIntegration(t)

	nc, js, err := ConnectNATS(testutil.TestNATSURL(), zerolog.Nop())
	if err != nil {
		t.Skipf("test nats not available: %v (start with: docker compose -f docker-compose.test.yml up -d)", err)
	}
	defer nc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := EnsurePriceStream(ctx, js); err != nil {
		t.Fatalf("ensure stream: %v", err)
	}

	// Unique market name so runs never see each other's messages.
	market := "TEST-" + uuid.NewString()[:8]
	store := oracle.NewStore()
	settled := make(chan oracle.Version, 8)

	feed := NewPriceFeed(js, store, market, func(v oracle.Version) {
		settled <- v
	}, zerolog.Nop(), nil)
	if err := feed.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer feed.Stop()

	publish := func(price string, tsUs int64, seq uint64) {
		t.Helper()
		payload := fmt.Sprintf(`{"market":%q,"price":%q,"sequence":%d,"timestamp_us":%d}`,
			market, price, seq, tsUs)
		subject := fmt.Sprintf("perp.prices.%s", market)
		if _, err := js.Publish(ctx, subject, []byte(payload)); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	publish("123.500000", 1_000_000_000, 1)
	publish("124.000000", 1_060_000_000, 2)
	// A stale point behind the latest timestamp is acked and dropped.
	publish("90.000000", 500_000_000, 3)
	publish("125.250000", 1_120_000_000, 4)

	want := []struct {
		version uint64
		price   string
	}{
		{1, "123.500000"},
		{2, "124.000000"},
		{3, "125.250000"},
	}
	for _, w := range want {
		select {
		case v := <-settled:
			if v.Version != w.version || v.Price.String() != w.price {
				t.Errorf("got version %d price %s, want %d %s", v.Version, v.Price, w.version, w.price)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for version %d", w.version)
		}
	}

	if cur := store.Current(); cur.Version != 3 || cur.Price.Cmp(fixed.D6("125.25")) != 0 {
		t.Errorf("oracle current = %+v, want version 3 price 125.25", cur)
	}
}
