package core

import "errors"

// Precondition failures abort the entire call with no partial state change.
var (
	// ErrPaused is returned for any state-changing call while the protocol
	// is paused.
	ErrPaused = errors.New("market is paused")

	// ErrClosed is returned when a risk-increasing update reaches a closed
	// market.
	ErrClosed = errors.New("market is closed")

	// ErrMakerOverLimit is returned when the aggregate requested maker
	// position would exceed the configured cap.
	ErrMakerOverLimit = errors.New("maker position over limit")

	// ErrInsufficientLiquidity is returned when the requested taker
	// exposure exceeds what makers can back.
	ErrInsufficientLiquidity = errors.New("insufficient maker liquidity")

	// ErrInsufficientCollateral is returned when the resulting collateral
	// would not meet the minimum or the maintenance requirement.
	ErrInsufficientCollateral = errors.New("insufficient collateral")

	// ErrInLiquidation is returned when an account flagged for liquidation
	// attempts a regular update.
	ErrInLiquidation = errors.New("account in liquidation")

	// ErrNotLiquidatable is returned when a liquidation is attempted
	// against an account above its maintenance requirement.
	ErrNotLiquidatable = errors.New("account above maintenance requirement")

	// ErrUnknownAccount is returned for reads of accounts that never
	// interacted with the market.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrOverflow / ErrUnderflow surface arithmetic faults. They indicate
	// implementation bugs or hostile input, never recoverable conditions.
	ErrOverflow  = errors.New("arithmetic overflow")
	ErrUnderflow = errors.New("arithmetic underflow")
)
