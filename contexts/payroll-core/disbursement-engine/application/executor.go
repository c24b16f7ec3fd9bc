package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	domainerrors "remit/contexts/payroll-core/disbursement-engine/domain/errors"
	"remit/contexts/payroll-core/disbursement-engine/ports"
)

const sourceService = "disbursement-engine"

const (
	eventSettlementExecuted  = "settlement.executed"
	eventSettlementScheduled = "settlement.scheduled"
	eventSettlementDeferred  = "settlement.deferred"
)

const (
	deferReasonInsufficientAllowance = "insufficient_allowance"
	deferReasonTransferFailed        = "transfer_failed"
)

// Executor settles a single obligation against the external ledger. The only
// registry state it mutates is the member's next-due timestamp, through the
// registry's mutation entry point, and only on paths that actually executed
// or dispatched the payment.
type Executor struct {
	Directory     ports.Directory
	Ledger        ports.Ledger
	Dispatcher    ports.Dispatcher
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	EngineAccount string
	PayAsset      string
	Logger        *slog.Logger
}

// Settle checks the obligation's preconditions, then pays it out. Deferrals
// (insufficient allowance, transient ledger failure) are expected outcomes,
// not errors: the due timestamp stays put so the obligation is re-attempted
// on the next scan with no operator intervention.
func (e Executor) Settle(ctx context.Context, orgID uint64, memberID uint64) (ports.SettlementResult, error) {
	logger := ResolveLogger(e.Logger)
	now := e.now()

	org, err := e.Directory.GetOrganization(ctx, orgID)
	if err != nil {
		return ports.SettlementResult{}, domainerrors.ErrOrganizationNotFound
	}
	if !org.Active {
		return ports.SettlementResult{}, domainerrors.ErrOrganizationInactive
	}
	member, err := e.Directory.GetMember(ctx, memberID)
	if err != nil {
		return ports.SettlementResult{}, domainerrors.ErrMemberNotFound
	}
	if member.OrgID != orgID {
		return ports.SettlementResult{}, domainerrors.ErrMemberNotInOrganization
	}
	if !member.Active {
		return ports.SettlementResult{}, domainerrors.ErrMemberInactive
	}
	if member.NextDueAt.After(now) {
		return ports.SettlementResult{}, domainerrors.ErrNotYetDue
	}

	allowance, err := e.Ledger.Allowance(ctx, org.Controller, e.EngineAccount, e.PayAsset)
	if err != nil {
		return ports.SettlementResult{}, err
	}
	if allowance < member.Amount {
		return e.deferSettlement(ctx, org, member, deferReasonInsufficientAllowance), nil
	}

	correlationID, err := e.IDGen.NewID(ctx)
	if err != nil {
		return ports.SettlementResult{}, err
	}

	if !member.Remote() {
		if err := e.Ledger.TransferFrom(ctx, e.EngineAccount, org.Controller, member.Payout, e.PayAsset, member.Amount); err != nil {
			logger.Warn("local transfer failed, deferring",
				"event", "settlement_transfer_failed",
				"module", "payroll-core/disbursement-engine",
				"layer", "application",
				"org_id", org.OrgID,
				"member_id", member.MemberID,
				"error", err.Error(),
			)
			return e.deferSettlement(ctx, org, member, deferReasonTransferFailed), nil
		}

		nextDue, err := e.advance(ctx, member.MemberID)
		if err != nil {
			return ports.SettlementResult{}, err
		}
		e.appendEvent(ctx, eventSettlementExecuted, correlationID, org, member, map[string]any{
			"org_id":      org.OrgID,
			"member_id":   member.MemberID,
			"payout":      member.Payout,
			"amount":      member.Amount,
			"next_due_at": nextDue.UTC(),
		})

		logger.Info("settlement executed",
			"event", "settlement_executed",
			"module", "payroll-core/disbursement-engine",
			"layer", "application",
			"org_id", org.OrgID,
			"member_id", member.MemberID,
			"amount", member.Amount,
		)
		return ports.SettlementResult{
			Outcome:   ports.OutcomeExecuted,
			OrgID:     org.OrgID,
			MemberID:  member.MemberID,
			Amount:    member.Amount,
			NextDueAt: nextDue,
		}, nil
	}

	// Dispatch intent is announced before any funds move so observers can
	// correlate the escrow pull and the router hand-off that follow.
	e.appendEvent(ctx, eventSettlementScheduled, correlationID, org, member, map[string]any{
		"org_id":    org.OrgID,
		"member_id": member.MemberID,
		"selector":  member.Selector,
		"receiver":  member.Payout,
		"amount":    member.Amount,
	})

	if err := e.Ledger.TransferFrom(ctx, e.EngineAccount, org.Controller, e.EngineAccount, e.PayAsset, member.Amount); err != nil {
		return ports.SettlementResult{}, fmt.Errorf("%w: %v", domainerrors.ErrEscrowPullFailed, err)
	}

	messageID, err := e.Dispatcher.Dispatch(ctx, member.Selector, member.Payout, e.PayAsset, member.Amount, correlationID)
	if err != nil {
		// Escrowed funds stay parked in the engine account; there is no
		// in-core re-dispatch path. Recovery is an operational procedure.
		logger.Error("cross-domain dispatch failed after escrow pull",
			"event", "settlement_dispatch_failed",
			"module", "payroll-core/disbursement-engine",
			"layer", "application",
			"org_id", org.OrgID,
			"member_id", member.MemberID,
			"selector", member.Selector,
			"error", err.Error(),
		)
		return ports.SettlementResult{}, err
	}

	nextDue, err := e.advance(ctx, member.MemberID)
	if err != nil {
		return ports.SettlementResult{}, err
	}

	logger.Info("settlement dispatched",
		"event", "settlement_dispatched",
		"module", "payroll-core/disbursement-engine",
		"layer", "application",
		"org_id", org.OrgID,
		"member_id", member.MemberID,
		"selector", member.Selector,
		"message_id", messageID,
	)
	return ports.SettlementResult{
		Outcome:   ports.OutcomeDispatched,
		OrgID:     org.OrgID,
		MemberID:  member.MemberID,
		Amount:    member.Amount,
		MessageID: messageID,
		NextDueAt: nextDue,
	}, nil
}

func (e Executor) deferSettlement(ctx context.Context, org ports.OrganizationSnapshot, member ports.MemberSnapshot, reason string) ports.SettlementResult {
	eventID, err := e.IDGen.NewID(ctx)
	if err == nil {
		e.appendEvent(ctx, eventSettlementDeferred, eventID, org, member, map[string]any{
			"org_id":    org.OrgID,
			"member_id": member.MemberID,
			"amount":    member.Amount,
			"reason":    reason,
		})
	}

	ResolveLogger(e.Logger).Debug("settlement deferred",
		"event", "settlement_deferred",
		"module", "payroll-core/disbursement-engine",
		"layer", "application",
		"org_id", org.OrgID,
		"member_id", member.MemberID,
		"reason", reason,
	)
	return ports.SettlementResult{
		Outcome:     ports.OutcomeDeferred,
		OrgID:       org.OrgID,
		MemberID:    member.MemberID,
		Amount:      member.Amount,
		DeferReason: reason,
	}
}

func (e Executor) advance(ctx context.Context, memberID uint64) (time.Time, error) {
	interval, err := e.Directory.Interval(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return e.Directory.AdvanceNextDue(ctx, memberID, interval)
}

func (e Executor) appendEvent(ctx context.Context, eventType string, correlationID string, org ports.OrganizationSnapshot, member ports.MemberSnapshot, payload map[string]any) {
	if e.Outbox == nil {
		return
	}
	eventID, err := e.IDGen.NewID(ctx)
	if err != nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := e.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: sourceService,
		OccurredAt:    e.now(),
		CorrelationID: correlationID,
		SchemaVersion: 1,
		PartitionKey:  strconv.FormatUint(org.OrgID, 10),
		Data:          data,
	}); err != nil {
		ResolveLogger(e.Logger).Error("settlement outbox append failed",
			"event", "settlement_outbox_append_failed",
			"module", "payroll-core/disbursement-engine",
			"layer", "application",
			"event_type", eventType,
			"member_id", member.MemberID,
			"error", err.Error(),
		)
	}
}

func (e Executor) now() time.Time {
	if e.Clock == nil {
		return time.Now().UTC()
	}
	return e.Clock.Now().UTC()
}
