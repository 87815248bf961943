package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"PerpMarket/internal/fixed"
)

// ErrInsufficientBalance aborts a transfer whose payer cannot cover the
// amount. The triggering call must observe this before mutating any state.
var ErrInsufficientBalance = errors.New("ledger: insufficient balance")

// Ledger is the external collateral custody collaborator. The market is an
// implicit party: TransferFrom pulls a deposit into the market's custody
// account, Transfer pays out of it. Transfers are atomic with the
// triggering call; a failed transfer aborts the whole operation.
type Ledger interface {
	// TransferFrom moves amount from the payer into market custody.
	TransferFrom(ctx context.Context, payer uuid.UUID, amount fixed.UDec6) error

	// Transfer moves amount from market custody to the payee.
	Transfer(ctx context.Context, payee uuid.UUID, amount fixed.UDec6) error

	// Balance returns the market custody balance.
	Balance(ctx context.Context) (fixed.UDec6, error)
}

// MemoryLedger is the in-process Ledger used by tests and single-node
// deployments. Participant balances are created on first funding.
type MemoryLedger struct {
	mu       sync.Mutex
	market   fixed.UDec6
	balances map[uuid.UUID]fixed.UDec6
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[uuid.UUID]fixed.UDec6)}
}

// Fund credits a participant wallet outside market custody (an external
// deposit arriving from the token layer).
func (l *MemoryLedger) Fund(owner uuid.UUID, amount fixed.UDec6) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[owner] = l.balances[owner].Add(amount)
}

func (l *MemoryLedger) TransferFrom(_ context.Context, payer uuid.UUID, amount fixed.UDec6) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	have := l.balances[payer]
	if have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: payer %s has %s, needs %s", ErrInsufficientBalance, payer, have, amount)
	}
	l.balances[payer] = have.Sub(amount)
	l.market = l.market.Add(amount)
	return nil
}

func (l *MemoryLedger) Transfer(_ context.Context, payee uuid.UUID, amount fixed.UDec6) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.market.Cmp(amount) < 0 {
		return fmt.Errorf("%w: market holds %s, needs %s", ErrInsufficientBalance, l.market, amount)
	}
	l.market = l.market.Sub(amount)
	l.balances[payee] = l.balances[payee].Add(amount)
	return nil
}

func (l *MemoryLedger) Balance(_ context.Context) (fixed.UDec6, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.market, nil
}

// BalanceOf returns a participant's wallet balance outside market custody.
func (l *MemoryLedger) BalanceOf(owner uuid.UUID) fixed.UDec6 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[owner]
}
