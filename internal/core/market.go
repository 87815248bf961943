package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"PerpMarket/internal/event"
	"PerpMarket/internal/fixed"
	"PerpMarket/internal/ledger"
	"PerpMarket/internal/observability"
	"PerpMarket/internal/oracle"
	"PerpMarket/internal/state"
)

// Market is the settlement engine for one perpetual market: it advances the
// market through discrete oracle versions, lazily applies pending position
// changes, accrues funding and price PnL between participants, collects the
// protocol/market fee split and handles under-collateralization through
// liquidation.
//
// One mutex serializes every state-changing call. Accounts for the same
// market therefore settle in a strict order and global settlement always
// precedes any account settlement that depends on a later version.
type Market struct {
	mu sync.Mutex

	oracle oracle.Oracle
	ledger ledger.Ledger
	params state.ParameterSource

	global   *state.Global
	accounts map[uuid.UUID]*state.Account

	hasher     *StateHasher
	seq        int64
	sink       chan<- event.Envelope
	lastClosed bool

	log     zerolog.Logger
	metrics *observability.Metrics
}

type Config struct {
	Oracle oracle.Oracle
	Ledger ledger.Ledger
	Params state.ParameterSource

	// Events receives every emitted envelope. Sends block: the audit log
	// must not lose events, so a slow consumer backpressures the engine.
	// Nil disables emission.
	Events chan<- event.Envelope

	Logger  zerolog.Logger
	Metrics *observability.Metrics
}

func NewMarket(cfg Config) *Market {
	return &Market{
		oracle:   cfg.Oracle,
		ledger:   cfg.Ledger,
		params:   cfg.Params,
		global:   state.NewGlobal(),
		accounts: make(map[uuid.UUID]*state.Account),
		hasher:   NewStateHasher(),
		sink:     cfg.Events,
		log:      cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// guard converts arithmetic faults raised by the fixed-point layer into
// typed errors at the call boundary.
func guard(err *error) {
	r := recover()
	if r == nil {
		return
	}
	f, ok := r.(fixed.Fault)
	if !ok {
		panic(r)
	}
	if f.Kind == fixed.FaultUnderflow {
		*err = fmt.Errorf("%w: %s", ErrUnderflow, f.Op)
		return
	}
	*err = fmt.Errorf("%w: %s", ErrOverflow, f.Op)
}

// Settle advances the global state through every published oracle version.
// Calling it with no pending work is a cheap no-op; repeated calls within
// the same version never re-accrue.
func (m *Market) Settle() (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer guard(&err)

	param := m.params.MarketParameter()
	protocol := m.params.ProtocolParameter()
	return m.settleGlobal(param, protocol)
}

// SettleAccount catches an account up to the latest oracle version, running
// global settlement first if it is stale, then refreshes the maintenance
// flag. Callable by anyone for any account.
func (m *Market) SettleAccount(id uuid.UUID) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer guard(&err)

	param := m.params.MarketParameter()
	protocol := m.params.ProtocolParameter()
	if err := m.settleGlobal(param, protocol); err != nil {
		return err
	}

	a := m.getOrCreate(id)
	m.settleAccount(a, param)
	return nil
}

// Update settles the account, then replaces its pending order with the
// requested maker/long/short triple and applies the collateral delta
// (positive deposits, negative withdraws). Every precondition failure
// aborts with no state change.
func (m *Market) Update(ctx context.Context, id uuid.UUID, maker, long, short fixed.UDec6, collateralDelta fixed.Dec6) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer guard(&err)
	defer m.observeRejection("update", &err)

	param := m.params.MarketParameter()
	protocol := m.params.ProtocolParameter()
	if protocol.Paused {
		return ErrPaused
	}

	if err := m.settleGlobal(param, protocol); err != nil {
		return err
	}
	a := m.getOrCreate(id)
	m.settleAccount(a, param)

	if a.Liquidation {
		return ErrInLiquidation
	}

	latest := m.oracle.Current()
	pendingVersion := latest.Version + 1

	prev := rebasePending(a, pendingVersion)
	next := state.PendingOrder{Version: pendingVersion, Maker: maker, Long: long, Short: short}

	if param.Closed && increasesRisk(prev, next) {
		return ErrClosed
	}

	gp := m.global.RebasePending(pendingVersion)
	newGlobal := state.PendingOrder{
		Version: pendingVersion,
		Maker:   gp.Maker.Sub(prev.Maker).Add(next.Maker),
		Long:    gp.Long.Sub(prev.Long).Add(next.Long),
		Short:   gp.Short.Sub(prev.Short).Add(next.Short),
	}

	if newGlobal.Maker.Cmp(param.MakerLimit) > 0 {
		return fmt.Errorf("%w: requested %s, limit %s", ErrMakerOverLimit, newGlobal.Maker, param.MakerLimit)
	}

	takerCap := newGlobal.Maker.To18().Mul(param.TakerLiquidityRatio).To6()
	if taker := newGlobal.Position().Taker(); taker.Cmp(takerCap) > 0 {
		return fmt.Errorf("%w: taker %s exceeds capacity %s", ErrInsufficientLiquidity, taker, takerCap)
	}

	fee := tradeFee(prev, next, latest.Price, param)
	collateral := a.Collateral.Add(collateralDelta).Sub(fee.Signed())

	if !collateral.IsZero() && collateral.Cmp(protocol.MinCollateral.Signed()) < 0 {
		return fmt.Errorf("%w: resulting collateral %s below minimum %s", ErrInsufficientCollateral, collateral, protocol.MinCollateral)
	}
	// The settled position keeps accruing value until the new order folds
	// at pendingVersion, so maintenance must hold for it — and for any
	// not-yet-folded pending order — as well as for the requested position.
	// Otherwise a close request could strip the collateral backing exposure
	// that is still live.
	required := state.Maintenance(next.Position(), latest.Price, param.MaintenanceRatio)
	required = fixed.MaxU6(required, state.Maintenance(prev.Position(), latest.Price, param.MaintenanceRatio))
	required = fixed.MaxU6(required, state.Maintenance(a.Position, latest.Price, param.MaintenanceRatio))
	if collateral.Cmp(required.Signed()) < 0 {
		return fmt.Errorf("%w: resulting collateral %s below maintenance %s", ErrInsufficientCollateral, collateral, required)
	}

	// External transfer runs after every validation and before any state
	// mutation, so a ledger failure aborts the whole update.
	if err := m.transferCollateral(ctx, id, collateralDelta); err != nil {
		return err
	}

	a.Pending = next
	a.Collateral = collateral
	m.global.Pending = newGlobal
	m.global.AddFee(fee, protocol.ProtocolFee)

	m.emit(event.TypeUpdated, latest, event.Updated{
		Account:    id,
		Version:    pendingVersion,
		Maker:      maker,
		Long:       long,
		Short:      short,
		Collateral: collateral,
	})

	if m.metrics != nil {
		m.metrics.UpdatesApplied.Inc()
		m.metrics.FeesAccrued.Add(fee.Float64())
	}
	m.log.Info().
		Stringer("account", id).
		Uint64("pending_version", pendingVersion).
		Str("maker", maker.String()).
		Str("long", long.String()).
		Str("short", short.String()).
		Str("collateral", collateral.String()).
		Msg("position updated")
	return nil
}

// Liquidate executes the liquidating update for an account below its
// maintenance requirement: the position is forced to zero and the caller is
// paid the liquidation fee out of the account's collateral. A negative
// remaining collateral is recorded as-is — an explicit shortfall, never a
// clamped zero.
func (m *Market) Liquidate(ctx context.Context, id, liquidator uuid.UUID) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer guard(&err)
	defer m.observeRejection("liquidate", &err)

	param := m.params.MarketParameter()
	protocol := m.params.ProtocolParameter()
	if protocol.Paused {
		return ErrPaused
	}

	if err := m.settleGlobal(param, protocol); err != nil {
		return err
	}
	a, ok := m.accounts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}
	m.settleAccount(a, param)

	if !a.Liquidation {
		return ErrNotLiquidatable
	}

	latest := m.oracle.Current()
	pendingVersion := latest.Version + 1
	prev := rebasePending(a, pendingVersion)

	if a.Position.IsZero() && prev.Position().IsZero() {
		return fmt.Errorf("%w: position already closed", ErrNotLiquidatable)
	}

	notional := a.Position.Magnitude().To18().Mul(latest.Price.Abs().To18())
	fee := notional.Mul(param.LiquidationFee).To6()
	if a.Collateral.Sign() > 0 {
		fee = fixed.MinU6(fee, a.Collateral.Abs())
	} else {
		fee = fixed.UDec6{}
	}

	if !fee.IsZero() {
		if err := m.ledger.Transfer(ctx, liquidator, fee); err != nil {
			return fmt.Errorf("liquidation fee transfer: %w", err)
		}
	}

	gp := m.global.RebasePending(pendingVersion)
	m.global.Pending = state.PendingOrder{
		Version: pendingVersion,
		Maker:   gp.Maker.Sub(prev.Maker),
		Long:    gp.Long.Sub(prev.Long),
		Short:   gp.Short.Sub(prev.Short),
	}
	a.Pending = state.PendingOrder{Version: pendingVersion}
	a.Collateral = a.Collateral.Sub(fee.Signed())

	var shortfall fixed.Dec6
	if a.Collateral.Sign() < 0 {
		shortfall = a.Collateral
	}

	m.emit(event.TypeLiquidation, latest, event.Liquidation{
		Account:    id,
		Liquidator: liquidator,
		Version:    pendingVersion,
		Fee:        fee,
		Shortfall:  shortfall,
	})

	if m.metrics != nil {
		m.metrics.Liquidations.Inc()
		if shortfall.Sign() < 0 {
			m.metrics.ShortfallTotal.Add(shortfall.Abs().Float64())
		}
	}
	m.log.Warn().
		Stringer("account", id).
		Stringer("liquidator", liquidator).
		Str("fee", fee.String()).
		Str("shortfall", shortfall.String()).
		Msg("account liquidated")
	return nil
}

// ClaimProtocolFee pays the accrued protocol fee bucket to a recipient.
func (m *Market) ClaimProtocolFee(ctx context.Context, recipient uuid.UUID) (fixed.UDec6, error) {
	return m.claimFee(ctx, "protocol", recipient)
}

// ClaimMarketFee pays the accrued market fee bucket to a recipient.
func (m *Market) ClaimMarketFee(ctx context.Context, recipient uuid.UUID) (fixed.UDec6, error) {
	return m.claimFee(ctx, "market", recipient)
}

func (m *Market) claimFee(ctx context.Context, scope string, recipient uuid.UUID) (amount fixed.UDec6, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer guard(&err)

	if m.params.ProtocolParameter().Paused {
		return fixed.UDec6{}, ErrPaused
	}

	if scope == "protocol" {
		amount = m.global.Fee.Protocol
	} else {
		amount = m.global.Fee.Market
	}
	if amount.IsZero() {
		return fixed.UDec6{}, nil
	}

	if err := m.ledger.Transfer(ctx, recipient, amount); err != nil {
		return fixed.UDec6{}, fmt.Errorf("fee transfer: %w", err)
	}

	if scope == "protocol" {
		m.global.Fee.Protocol = fixed.UDec6{}
	} else {
		m.global.Fee.Market = fixed.UDec6{}
	}

	m.emit(event.TypeFeeClaimed, m.oracle.Current(), event.FeeClaimed{
		Scope:     scope,
		Recipient: recipient,
		Amount:    amount,
	})
	return amount, nil
}

// ClaimReward zeroes and returns an account's accrued reward balance. The
// incentive-token transfer itself belongs to the reward distributor, not
// the market.
func (m *Market) ClaimReward(id uuid.UUID) (amount fixed.UDec6, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer guard(&err)

	if m.params.ProtocolParameter().Paused {
		return fixed.UDec6{}, ErrPaused
	}
	a, ok := m.accounts[id]
	if !ok {
		return fixed.UDec6{}, fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}
	amount = a.Reward
	if amount.IsZero() {
		return fixed.UDec6{}, nil
	}
	a.Reward = fixed.UDec6{}

	m.emit(event.TypeRewardClaimed, m.oracle.Current(), event.RewardClaimed{
		Account: id,
		Amount:  amount,
	})
	return amount, nil
}

// ----------------------------------------------------------------------------
// internals
// ----------------------------------------------------------------------------

func (m *Market) settleGlobal(param state.MarketParameter, protocol state.ProtocolParameter) error {
	start := time.Now()
	latest := m.oracle.Current()

	if param.Closed != m.lastClosed {
		m.lastClosed = param.Closed
		m.emit(event.TypeClosedUpdated, latest, event.ClosedUpdated{
			Closed:  param.Closed,
			Version: m.global.LatestVersion,
		})
	}

	for v := m.global.LatestVersion + 1; v <= latest.Version; v++ {
		from, err := m.oracle.At(m.global.LatestVersion)
		if err != nil {
			return fmt.Errorf("oracle version %d: %w", m.global.LatestVersion, err)
		}
		to, err := m.oracle.At(v)
		if err != nil {
			return fmt.Errorf("oracle version %d: %w", v, err)
		}

		live := m.global.Position
		acc := m.global.Advance(from, to, param, protocol.ProtocolFee)

		m.emit(event.TypeVersionSettled, to, event.VersionSettled{
			Version:         to.Version,
			Price:           to.Price,
			FundingTransfer: acc.FundingTransfer,
			Fee:             acc.Fee,
			Maker:           live.Maker,
			Long:            live.Long,
			Short:           live.Short,
		})

		if m.metrics != nil {
			m.metrics.VersionsSettled.Inc()
			m.metrics.FundingTransferred.Add(acc.FundingTransfer.Float64())
			m.metrics.FeesAccrued.Add(acc.Fee.Float64())
		}
		m.log.Debug().
			Uint64("version", to.Version).
			Str("price", to.Price.String()).
			Str("funding", acc.FundingTransfer.String()).
			Msg("version settled")
	}

	if m.metrics != nil {
		m.metrics.GlobalVersion.Set(float64(m.global.LatestVersion))
		m.metrics.SettleDuration.Observe(time.Since(start).Seconds())
	}
	return nil
}

func (m *Market) settleAccount(a *state.Account, param state.MarketParameter) {
	a.Settle(m.global)
	latest := m.oracle.Current()
	a.CheckMaintenance(latest.Price, param.MaintenanceRatio)
	if m.metrics != nil {
		m.metrics.AccountsSettled.Inc()
	}
}

func (m *Market) getOrCreate(id uuid.UUID) *state.Account {
	a, ok := m.accounts[id]
	if !ok {
		a = state.NewAccount(id)
		a.LatestVersion = m.global.LatestVersion
		m.accounts[id] = a
	}
	return a
}

func (m *Market) transferCollateral(ctx context.Context, id uuid.UUID, delta fixed.Dec6) error {
	switch {
	case delta.Sign() > 0:
		if err := m.ledger.TransferFrom(ctx, id, delta.Abs()); err != nil {
			return fmt.Errorf("deposit: %w", err)
		}
	case delta.Sign() < 0:
		if err := m.ledger.Transfer(ctx, id, delta.Abs()); err != nil {
			return fmt.Errorf("withdrawal: %w", err)
		}
	}
	return nil
}

func (m *Market) emit(t event.Type, at oracle.Version, payload any) {
	m.seq++
	env := event.Envelope{
		Sequence:  m.seq,
		Type:      t,
		Timestamp: at.Timestamp,
		Version:   at.Version,
		Payload:   payload,
		PrevHash:  m.hasher.PrevHash(),
	}
	env.StateHash = m.hasher.ComputeHash(m.seq, m.stateDigest())

	if m.metrics != nil {
		m.metrics.EventsEmitted.WithLabelValues(t.String()).Inc()
	}
	if m.sink != nil {
		m.sink <- env
	}
}

// stateDigest serializes the fields that define the market's economic state.
// JSON of a fixed struct is deterministic: field order follows declaration.
func (m *Market) stateDigest() []byte {
	digest := struct {
		Position state.Position     `json:"position"`
		Pending  state.PendingOrder `json:"pending"`
		Version  uint64             `json:"version"`
		Fee      state.FeeTotals    `json:"fee"`
	}{m.global.Position, m.global.Pending, m.global.LatestVersion, m.global.Fee}

	b, err := json.Marshal(digest)
	if err != nil {
		panic(fmt.Sprintf("state digest marshal: %v", err))
	}
	return b
}

func (m *Market) observeRejection(op string, err *error) {
	if *err == nil || m.metrics == nil {
		return
	}
	m.metrics.CallsRejected.WithLabelValues(op, rejectionReason(*err)).Inc()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrPaused):
		return "paused"
	case errors.Is(err, ErrClosed):
		return "closed"
	case errors.Is(err, ErrMakerOverLimit):
		return "maker_over_limit"
	case errors.Is(err, ErrInsufficientLiquidity):
		return "insufficient_liquidity"
	case errors.Is(err, ErrInsufficientCollateral):
		return "insufficient_collateral"
	case errors.Is(err, ErrInLiquidation):
		return "in_liquidation"
	case errors.Is(err, ErrNotLiquidatable):
		return "not_liquidatable"
	case errors.Is(err, ErrOverflow), errors.Is(err, ErrUnderflow):
		return "arithmetic"
	default:
		return "other"
	}
}

// rebasePending rolls an account's already-folded pending order forward onto
// its settled position.
func rebasePending(a *state.Account, pendingVersion uint64) state.PendingOrder {
	if a.Pending.Version >= pendingVersion {
		return a.Pending
	}
	return state.PendingOrder{
		Version: pendingVersion,
		Maker:   a.Position.Maker,
		Long:    a.Position.Long,
		Short:   a.Position.Short,
	}
}

func increasesRisk(prev, next state.PendingOrder) bool {
	return next.Maker.Cmp(prev.Maker) > 0 ||
		next.Long.Cmp(prev.Long) > 0 ||
		next.Short.Cmp(prev.Short) > 0
}

func tradeFee(prev, next state.PendingOrder, price fixed.Dec6, param state.MarketParameter) fixed.UDec6 {
	p := price.Abs()
	makerDelta := absDiff(next.Maker, prev.Maker)
	takerDelta := absDiff(next.Long, prev.Long).Add(absDiff(next.Short, prev.Short))
	return makerDelta.Mul(p).Mul(param.MakerFee).
		Add(takerDelta.Mul(p).Mul(param.TakerFee))
}

func absDiff(a, b fixed.UDec6) fixed.UDec6 {
	if a.Cmp(b) >= 0 {
		return a.Sub(b)
	}
	return b.Sub(a)
}

// ----------------------------------------------------------------------------
// read side
// ----------------------------------------------------------------------------

// GlobalSnapshot is a read-only copy of the aggregate market state.
type GlobalSnapshot struct {
	Position      state.Position     `json:"position"`
	Pending       state.PendingOrder `json:"pending"`
	LatestVersion uint64             `json:"latest_version"`
	Fee           state.FeeTotals    `json:"fee"`
	Closed        bool               `json:"closed"`
	Paused        bool               `json:"paused"`
}

// AccountSnapshot is a read-only copy of one account's state.
type AccountSnapshot struct {
	ID            uuid.UUID          `json:"id"`
	Position      state.Position     `json:"position"`
	Pending       state.PendingOrder `json:"pending"`
	Collateral    fixed.Dec6         `json:"collateral"`
	Reward        fixed.UDec6        `json:"reward"`
	LatestVersion uint64             `json:"latest_version"`
	Liquidation   bool               `json:"liquidation"`
}

func (m *Market) GlobalSnapshot() GlobalSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return GlobalSnapshot{
		Position:      m.global.Position,
		Pending:       m.global.Pending,
		LatestVersion: m.global.LatestVersion,
		Fee:           m.global.Fee,
		Closed:        m.params.MarketParameter().Closed,
		Paused:        m.params.ProtocolParameter().Paused,
	}
}

func (m *Market) AccountSnapshot(id uuid.UUID) (AccountSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return AccountSnapshot{}, fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}
	return snapshotAccount(a), nil
}

// Accounts returns snapshots of every known account in deterministic order.
func (m *Market) Accounts() []AccountSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]AccountSnapshot, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, snapshotAccount(a))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func snapshotAccount(a *state.Account) AccountSnapshot {
	return AccountSnapshot{
		ID:            a.ID,
		Position:      a.Position,
		Pending:       a.Pending,
		Collateral:    a.Collateral,
		Reward:        a.Reward,
		LatestVersion: a.LatestVersion,
		Liquidation:   a.Liquidation,
	}
}

// CheckpointAt exposes the cumulative accumulator entry at a settled
// version.
func (m *Market) CheckpointAt(version uint64) (state.Checkpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.global.CheckpointAt(version)
}

// TotalCollateral sums every account's collateral plus both fee buckets.
// For a closed system with no deposits or withdrawals this total is
// invariant across settlement up to bounded rounding loss.
func (m *Market) TotalCollateral() fixed.Dec6 {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.global.Fee.Protocol.Signed().Add(m.global.Fee.Market.Signed())
	for _, a := range m.accounts {
		total = total.Add(a.Collateral)
	}
	return total
}

// ChainTip returns the sequence and state hash of the last emitted event.
// Snapshots record both so a restored state can be checked against the log.
func (m *Market) ChainTip() (int64, [32]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq, m.hasher.PrevHash()
}

// RestoreState is the full engine state at one event sequence, captured and
// restored atomically.
type RestoreState struct {
	Sequence    int64
	StateHash   [32]byte
	Global      GlobalSnapshot
	Checkpoints map[uint64]state.Checkpoint
	Accounts    []AccountSnapshot
}

// Snapshot captures the full engine state under a single lock acquisition so
// the sequence, hash chain tip, aggregate state and every account are
// mutually consistent.
func (m *Market) Snapshot() RestoreState {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make([]AccountSnapshot, 0, len(m.accounts))
	for _, a := range m.accounts {
		accounts = append(accounts, snapshotAccount(a))
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID.String() < accounts[j].ID.String()
	})

	return RestoreState{
		Sequence:  m.seq,
		StateHash: m.hasher.PrevHash(),
		Global: GlobalSnapshot{
			Position:      m.global.Position,
			Pending:       m.global.Pending,
			LatestVersion: m.global.LatestVersion,
			Fee:           m.global.Fee,
		},
		Checkpoints: m.global.Checkpoints(),
		Accounts:    accounts,
	}
}

// Restore replaces the engine state wholesale from a snapshot. Callers run
// this before serving traffic; the hash chain resumes from the snapshot tip.
func (m *Market) Restore(rs RestoreState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq = rs.Sequence
	m.hasher = NewStateHasherAt(rs.StateHash)
	m.global = state.RestoreGlobal(
		rs.Global.Position,
		rs.Global.Pending,
		rs.Global.LatestVersion,
		rs.Global.Fee,
		rs.Checkpoints,
	)

	m.accounts = make(map[uuid.UUID]*state.Account, len(rs.Accounts))
	for _, snap := range rs.Accounts {
		m.accounts[snap.ID] = &state.Account{
			ID:            snap.ID,
			Position:      snap.Position,
			Pending:       snap.Pending,
			Collateral:    snap.Collateral,
			Reward:        snap.Reward,
			LatestVersion: snap.LatestVersion,
			Liquidation:   snap.Liquidation,
		}
	}
}
