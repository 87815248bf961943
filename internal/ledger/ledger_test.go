package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"PerpMarket/internal/fixed"
)

func TestMemoryLedgerRoundTrip(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	l.Fund(alice, fixed.U6("100"))

	if err := l.TransferFrom(ctx, alice, fixed.U6("60")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := l.BalanceOf(alice); got.Cmp(fixed.U6("40")) != 0 {
		t.Errorf("alice wallet = %s, want 40", got)
	}
	if got, _ := l.Balance(ctx); got.Cmp(fixed.U6("60")) != 0 {
		t.Errorf("market custody = %s, want 60", got)
	}

	if err := l.Transfer(ctx, bob, fixed.U6("25")); err != nil {
		t.Fatalf("payout: %v", err)
	}
	if got := l.BalanceOf(bob); got.Cmp(fixed.U6("25")) != 0 {
		t.Errorf("bob wallet = %s, want 25", got)
	}
	if got, _ := l.Balance(ctx); got.Cmp(fixed.U6("35")) != 0 {
		t.Errorf("market custody = %s, want 35", got)
	}
}

func TestMemoryLedgerInsufficientBalance(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	alice := uuid.New()

	l.Fund(alice, fixed.U6("10"))

	err := l.TransferFrom(ctx, alice, fixed.U6("11"))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("deposit err = %v, want ErrInsufficientBalance", err)
	}
	if got := l.BalanceOf(alice); got.Cmp(fixed.U6("10")) != 0 {
		t.Errorf("failed deposit moved funds: %s", got)
	}

	err = l.Transfer(ctx, alice, fixed.U6("1"))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("payout err = %v, want ErrInsufficientBalance", err)
	}
}

func TestMemoryLedgerUnknownAccountsStartEmpty(t *testing.T) {
	l := NewMemoryLedger()

	if got := l.BalanceOf(uuid.New()); !got.IsZero() {
		t.Errorf("fresh wallet = %s, want 0", got)
	}
	err := l.TransferFrom(context.Background(), uuid.New(), fixed.U6("1"))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
}
