package ports

import (
	"context"
	"time"

	"remit/internal/shared/events"
	"remit/internal/shared/outbox"
)

// OrganizationSnapshot is the engine's read view of a registry organization.
// MemberIDs preserves insertion order, which is the scan order.
type OrganizationSnapshot struct {
	OrgID      uint64
	Controller string
	Active     bool
	MemberIDs  []uint64
}

// MemberSnapshot is the engine's read view of a registry member. A zero
// selector means the local settlement domain.
type MemberSnapshot struct {
	MemberID  uint64
	OrgID     uint64
	Payout    string
	Selector  uint64
	Amount    uint64
	NextDueAt time.Time
	Active    bool
}

func (m MemberSnapshot) Remote() bool {
	return m.Selector != 0
}

// Cursors is the persisted scan cursor pair. Any value is a valid starting
// point; it exists for fairness only.
type Cursors struct {
	Org    int
	Member int
}

// Directory is the registry surface the engine reads, plus the single
// mutation entry point for advancing a member's next-due timestamp.
type Directory interface {
	ListOrganizations(ctx context.Context) ([]OrganizationSnapshot, error)
	GetOrganization(ctx context.Context, orgID uint64) (OrganizationSnapshot, error)
	GetMember(ctx context.Context, memberID uint64) (MemberSnapshot, error)
	ListMembers(ctx context.Context, orgID uint64) ([]MemberSnapshot, error)
	AdvanceNextDue(ctx context.Context, memberID uint64, interval time.Duration) (time.Time, error)
	GetCursors(ctx context.Context) (Cursors, error)
	PutCursors(ctx context.Context, cursors Cursors) error
	Interval(ctx context.Context) (time.Duration, error)
}

// Ledger is the slice of the external ledger the executor uses: allowance
// checks and pre-authorized transfers. The engine is only ever a client.
type Ledger interface {
	Allowance(ctx context.Context, owner string, spender string, asset string) (uint64, error)
	TransferFrom(ctx context.Context, spender string, owner string, to string, asset string, amount uint64) error
}

// Dispatcher hands escrowed funds to the cross-domain gateway and returns the
// router's message identifier.
type Dispatcher interface {
	Dispatch(ctx context.Context, selector uint64, receiver string, asset string, amount uint64, correlationID string) (string, error)
}

type Obligation struct {
	OrgID    uint64
	MemberID uint64
}

type SettlementOutcome string

const (
	// OutcomeExecuted: funds moved on the local ledger, due date advanced.
	OutcomeExecuted SettlementOutcome = "executed"
	// OutcomeDispatched: funds escrowed and handed to the router, due date
	// advanced.
	OutcomeDispatched SettlementOutcome = "dispatched"
	// OutcomeDeferred: a recoverable condition postponed settlement; nothing
	// changed, the obligation stays immediately due.
	OutcomeDeferred SettlementOutcome = "deferred"
)

type SettlementResult struct {
	Outcome     SettlementOutcome
	OrgID       uint64
	MemberID    uint64
	Amount      uint64
	MessageID   string
	DeferReason string
	NextDueAt   time.Time
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

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
