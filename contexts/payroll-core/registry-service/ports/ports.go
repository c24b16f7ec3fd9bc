package ports

import (
	"context"
	"time"

	"remit/contexts/payroll-core/registry-service/domain/entities"
	"remit/internal/shared/events"
	"remit/internal/shared/outbox"
)

type RegisterOrganizationInput struct {
	Controller string
	Name       string
}

type AddMemberInput struct {
	OrgID    uint64
	Name     string
	Payout   string
	Selector uint64
	Amount   uint64
}

// UpdateMemberInput carries partial updates; nil fields are left untouched.
type UpdateMemberInput struct {
	Name     *string
	Payout   *string
	Selector *uint64
	Amount   *uint64
}

type Repository interface {
	CreateOrganization(ctx context.Context, org entities.Organization) (entities.Organization, error)
	GetOrganization(ctx context.Context, orgID uint64) (entities.Organization, error)
	GetOrganizationByController(ctx context.Context, controller string) (entities.Organization, bool, error)
	ListOrganizations(ctx context.Context) ([]entities.Organization, error)
	UpdateOrganization(ctx context.Context, org entities.Organization) error

	CreateMember(ctx context.Context, member entities.Member) (entities.Member, error)
	GetMember(ctx context.Context, memberID uint64) (entities.Member, error)
	ListMembers(ctx context.Context, orgID uint64) ([]entities.Member, error)
	UpdateMember(ctx context.Context, member entities.Member) error
	// AdvanceNextDue is the single mutation entry point used by the
	// disbursement executor: it adds exactly one interval to the member's
	// next-due timestamp and returns the new value.
	AdvanceNextDue(ctx context.Context, memberID uint64, interval time.Duration) (time.Time, error)

	GetCursors(ctx context.Context) (entities.ScanCursors, error)
	PutCursors(ctx context.Context, cursors entities.ScanCursors) error

	GetSettings(ctx context.Context) (entities.EngineSettings, error)
	PutSettings(ctx context.Context, settings entities.EngineSettings) error

	AllowDestination(ctx context.Context, selector uint64) error
	RevokeDestination(ctx context.Context, selector uint64) error
	IsDestinationAllowed(ctx context.Context, selector uint64) (bool, error)
}

// Ledger is the slice of the external ledger the registry needs: pulling the
// one-time registration fee and moving treasury balances out.
type Ledger interface {
	BalanceOf(ctx context.Context, account string, asset string) (uint64, error)
	TransferFrom(ctx context.Context, spender string, owner string, to string, asset string, amount uint64) error
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
