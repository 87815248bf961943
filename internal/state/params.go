package state

import (
	"fmt"
	"sync"

	"PerpMarket/internal/fixed"
)

// MarketParameter is the per-market risk and fee configuration. It is read
// as an immutable snapshot at the start of every settlement or update call;
// changes only influence versions settled after the change.
type MarketParameter struct {
	// MaintenanceRatio is the required collateral fraction of position
	// notional.
	MaintenanceRatio fixed.UDec18 `json:"maintenance_ratio"`

	// FundingFee is the share of each funding transfer withheld as fee
	// before the remainder reaches the receiving side.
	FundingFee fixed.UDec18 `json:"funding_fee"`

	// MakerFee / TakerFee are charged on the notional of position changes.
	MakerFee fixed.UDec6 `json:"maker_fee"`
	TakerFee fixed.UDec6 `json:"taker_fee"`

	// MakerLimit caps the aggregate requested maker position.
	MakerLimit fixed.UDec6 `json:"maker_limit"`

	// TakerLiquidityRatio caps |long − short| relative to maker at update
	// time. Socialization during accrual handles breaches that develop
	// after the fact.
	TakerLiquidityRatio fixed.UDec18 `json:"taker_liquidity_ratio"`

	// LiquidationFee is the fraction of position notional paid to the
	// caller executing a liquidation.
	LiquidationFee fixed.UDec18 `json:"liquidation_fee"`

	// Reward tokens emitted per second to each side, shared per unit of
	// position.
	MakerRewardRate fixed.UDec18 `json:"maker_reward_rate"`
	LongRewardRate  fixed.UDec18 `json:"long_reward_rate"`
	ShortRewardRate fixed.UDec18 `json:"short_reward_rate"`

	Curve UtilizationCurve `json:"curve"`

	// Closed freezes funding and price PnL and rejects risk-increasing
	// updates. Settlement keeps running.
	Closed bool `json:"closed"`
}

// ProtocolParameter is the protocol-wide configuration shared by all
// markets.
type ProtocolParameter struct {
	// ProtocolFee is the share of collected fees routed to the protocol;
	// the remainder accrues to the market.
	ProtocolFee fixed.UDec18 `json:"protocol_fee"`

	// MinCollateral is the minimum non-zero account collateral.
	MinCollateral fixed.UDec6 `json:"min_collateral"`

	// Paused rejects every state-changing call.
	Paused bool `json:"paused"`
}

// ParameterSource provides read-only parameter snapshots, re-read at the
// start of each call.
type ParameterSource interface {
	MarketParameter() MarketParameter
	ProtocolParameter() ProtocolParameter
}

func (p MarketParameter) Validate() error {
	if p.MaintenanceRatio.IsZero() {
		return fmt.Errorf("maintenance_ratio must be > 0")
	}
	if p.FundingFee.Cmp(fixed.OneU18()) > 0 {
		return fmt.Errorf("funding_fee must be <= 1, got %s", p.FundingFee)
	}
	if p.LiquidationFee.Cmp(fixed.OneU18()) > 0 {
		return fmt.Errorf("liquidation_fee must be <= 1, got %s", p.LiquidationFee)
	}
	return p.Curve.Validate()
}

func (p ProtocolParameter) Validate() error {
	if p.ProtocolFee.Cmp(fixed.OneU18()) > 0 {
		return fmt.Errorf("protocol_fee must be <= 1, got %s", p.ProtocolFee)
	}
	return nil
}

// StaticParams is a mutex-guarded ParameterSource for in-process
// configuration. Updates take effect at the next call boundary.
type StaticParams struct {
	mu       sync.RWMutex
	market   MarketParameter
	protocol ProtocolParameter
}

func NewStaticParams(market MarketParameter, protocol ProtocolParameter) (*StaticParams, error) {
	if err := market.Validate(); err != nil {
		return nil, fmt.Errorf("invalid market parameter: %w", err)
	}
	if err := protocol.Validate(); err != nil {
		return nil, fmt.Errorf("invalid protocol parameter: %w", err)
	}
	return &StaticParams{market: market, protocol: protocol}, nil
}

func (s *StaticParams) MarketParameter() MarketParameter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.market
}

func (s *StaticParams) ProtocolParameter() ProtocolParameter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.protocol
}

func (s *StaticParams) SetMarketParameter(p MarketParameter) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.market = p
	s.mu.Unlock()
	return nil
}

func (s *StaticParams) SetProtocolParameter(p ProtocolParameter) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.protocol = p
	s.mu.Unlock()
	return nil
}
