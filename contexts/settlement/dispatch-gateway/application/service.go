package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	domainerrors "remit/contexts/settlement/dispatch-gateway/domain/errors"
	"remit/contexts/settlement/dispatch-gateway/ports"
)

// Service dispatches escrowed payouts to remote domains through the token
// router. Before handing anything to the router it checks that the
// destination is eligible and that the engine account can cover the quoted
// delivery fee, then grants the router exactly the approvals it will draw.
type Service struct {
	Router          ports.Router
	Ledger          ports.Ledger
	Eligibility     ports.EligibilitySet
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	EngineAccount   string
	FeeAsset        string
	GasLimit        uint64
	AllowOutOfOrder bool
	Logger          *slog.Logger
}

// Dispatch sends amount of asset to receiver on the domain identified by
// selector and returns the router's message ID. The correlation ID ties the
// emitted event back to the settlement that requested the dispatch.
func (s Service) Dispatch(ctx context.Context, selector uint64, receiver string, asset string, amount uint64, correlationID string) (string, error) {
	logger := ResolveLogger(s.Logger)

	allowed, err := s.Eligibility.IsDestinationAllowed(ctx, selector)
	if err != nil {
		return "", fmt.Errorf("check destination eligibility: %w", err)
	}
	if !allowed {
		return "", domainerrors.ErrDestinationNotEligible
	}
	if receiver == "" {
		return "", domainerrors.ErrInvalidReceiver
	}

	descriptor := ports.Descriptor{
		DestinationSelector: selector,
		Receiver:            receiver,
		Asset:               asset,
		Amount:              amount,
		GasLimit:            s.GasLimit,
		AllowOutOfOrder:     s.AllowOutOfOrder,
	}

	fee, err := s.Router.QuoteFee(ctx, descriptor)
	if err != nil {
		return "", fmt.Errorf("quote delivery fee: %w", err)
	}

	// The router draws the fee from the engine's fee-asset balance. When the
	// payout asset is the fee asset the same balance also covers the payout,
	// so both must fit together.
	need := fee
	if asset == s.FeeAsset {
		need += amount
	}
	have, err := s.Ledger.BalanceOf(ctx, s.EngineAccount, s.FeeAsset)
	if err != nil {
		return "", fmt.Errorf("read fee balance: %w", err)
	}
	if have < need {
		return "", domainerrors.InsufficientFeeBalanceError{Have: have, Need: need}
	}

	if asset == s.FeeAsset {
		if err := s.Ledger.Approve(ctx, s.EngineAccount, routerSpender, s.FeeAsset, fee+amount); err != nil {
			return "", fmt.Errorf("approve router spend: %w", err)
		}
	} else {
		if err := s.Ledger.Approve(ctx, s.EngineAccount, routerSpender, s.FeeAsset, fee); err != nil {
			return "", fmt.Errorf("approve router fee spend: %w", err)
		}
		if err := s.Ledger.Approve(ctx, s.EngineAccount, routerSpender, asset, amount); err != nil {
			return "", fmt.Errorf("approve router payout spend: %w", err)
		}
	}

	messageID, err := s.Router.Send(ctx, s.EngineAccount, descriptor)
	if err != nil {
		logger.Error("router send failed",
			"event", "dispatch_send_failed",
			"module", "settlement/dispatch-gateway",
			"layer", "application",
			"destination_selector", selector,
			"error", err.Error(),
		)
		return "", fmt.Errorf("%w: %v", domainerrors.ErrRouterSendFailed, err)
	}

	s.appendEvent(ctx, "tokens.dispatched", correlationID, selector, map[string]any{
		"message_id":           messageID,
		"destination_selector": selector,
		"receiver":             receiver,
		"asset":                asset,
		"amount":               amount,
		"fee":                  fee,
		"fee_asset":            s.FeeAsset,
	})

	logger.Info("payout dispatched to remote domain",
		"event", "tokens_dispatched",
		"module", "settlement/dispatch-gateway",
		"layer", "application",
		"destination_selector", selector,
		"message_id", messageID,
		"amount", amount,
	)
	return messageID, nil
}

// routerSpender names the ledger account the router spends from approvals as.
const routerSpender = "token-router"

func (s Service) appendEvent(ctx context.Context, eventType string, correlationID string, selector uint64, payload map[string]any) {
	if s.Outbox == nil {
		return
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return
	}
	if correlationID == "" {
		correlationID = eventID
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "dispatch-gateway",
		OccurredAt:    s.now(),
		CorrelationID: correlationID,
		SchemaVersion: 1,
		PartitionKey:  fmt.Sprintf("domain-%d", selector),
		Data:          data,
	}); err != nil {
		ResolveLogger(s.Logger).Error("gateway outbox append failed",
			"event", "gateway_outbox_append_failed",
			"module", "settlement/dispatch-gateway",
			"layer", "application",
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
