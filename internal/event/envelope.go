package event

// Type discriminates event payloads.
type Type int32

const (
	TypeUnknown Type = iota
	TypeUpdated
	TypeLiquidation
	TypeFeeClaimed
	TypeRewardClaimed
	TypeClosedUpdated
	TypeVersionSettled
)

func (t Type) String() string {
	switch t {
	case TypeUpdated:
		return "Updated"
	case TypeLiquidation:
		return "Liquidation"
	case TypeFeeClaimed:
		return "FeeClaimed"
	case TypeRewardClaimed:
		return "RewardClaimed"
	case TypeClosedUpdated:
		return "ClosedUpdated"
	case TypeVersionSettled:
		return "VersionSettled"
	default:
		return "Unknown"
	}
}

// Envelope wraps every emitted event for the audit log. Events are for
// observability, never internal control flow.
type Envelope struct {
	// Sequence is the global monotonic sequence assigned by the engine.
	Sequence int64

	Type Type

	// Timestamp is the oracle timestamp of the settled version the event
	// belongs to (not wall-clock).
	Timestamp int64

	// Version is the oracle version context of the event.
	Version uint64

	Payload any

	// StateHash chains SHA-256 digests of the engine state after each
	// event; PrevHash is the previous chain tip.
	StateHash [32]byte
	PrevHash  [32]byte
}
