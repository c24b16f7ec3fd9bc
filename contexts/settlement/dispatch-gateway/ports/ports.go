package ports

import (
	"context"
	"time"

	"remit/internal/shared/events"
	"remit/internal/shared/outbox"
)

// Descriptor captures everything the router needs to deliver a payout on a
// remote domain.
type Descriptor struct {
	DestinationSelector uint64
	Receiver            string
	Asset               string
	Amount              uint64
	GasLimit            uint64
	AllowOutOfOrder     bool
}

// Router is the outbound port to the cross-domain token router.
type Router interface {
	QuoteFee(ctx context.Context, descriptor Descriptor) (uint64, error)
	Send(ctx context.Context, sender string, descriptor Descriptor) (string, error)
}

// Ledger is the slice of the token ledger the gateway needs: reading the
// engine's fee balance and granting the router its spending approvals.
type Ledger interface {
	BalanceOf(ctx context.Context, account string, asset string) (uint64, error)
	Approve(ctx context.Context, owner string, spender string, asset string, amount uint64) error
}

// EligibilitySet answers whether a destination domain has been allow-listed.
type EligibilitySet interface {
	IsDestinationAllowed(ctx context.Context, selector uint64) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}
