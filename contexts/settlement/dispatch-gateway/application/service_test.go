package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domainerrors "remit/contexts/settlement/dispatch-gateway/domain/errors"
	"remit/contexts/settlement/dispatch-gateway/ports"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubRouter struct {
	fee      uint64
	quoteErr error
	sendID   string
	sendErr  error
	sent     []ports.Descriptor
}

func (r *stubRouter) QuoteFee(_ context.Context, _ ports.Descriptor) (uint64, error) {
	if r.quoteErr != nil {
		return 0, r.quoteErr
	}
	return r.fee, nil
}

func (r *stubRouter) Send(_ context.Context, _ string, descriptor ports.Descriptor) (string, error) {
	if r.sendErr != nil {
		return "", r.sendErr
	}
	r.sent = append(r.sent, descriptor)
	return r.sendID, nil
}

type approveCall struct {
	Owner   string
	Spender string
	Asset   string
	Amount  uint64
}

type stubLedger struct {
	balances  map[string]uint64
	approvals []approveCall
}

func balanceKey(account string, asset string) string {
	return account + "|" + asset
}

func (l *stubLedger) BalanceOf(_ context.Context, account string, asset string) (uint64, error) {
	return l.balances[balanceKey(account, asset)], nil
}

func (l *stubLedger) Approve(_ context.Context, owner string, spender string, asset string, amount uint64) error {
	l.approvals = append(l.approvals, approveCall{Owner: owner, Spender: spender, Asset: asset, Amount: amount})
	return nil
}

type stubEligibility struct {
	allowed bool
}

func (e stubEligibility) IsDestinationAllowed(_ context.Context, _ uint64) (bool, error) {
	return e.allowed, nil
}

type recordingOutbox struct {
	envelopes []ports.EventEnvelope
}

func (o *recordingOutbox) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	o.envelopes = append(o.envelopes, envelope)
	return nil
}

type stubClock struct{}

func (stubClock) Now() time.Time { return testNow }

type stubIDGen struct{ n int }

func (g *stubIDGen) NewID(_ context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

func newGatewayWorld() (*stubRouter, *stubLedger, *recordingOutbox, Service) {
	router := &stubRouter{fee: 5, sendID: "msg-1"}
	ledger := &stubLedger{balances: map[string]uint64{}}
	outbox := &recordingOutbox{}
	service := Service{
		Router:        router,
		Ledger:        ledger,
		Eligibility:   stubEligibility{allowed: true},
		Outbox:        outbox,
		Clock:         stubClock{},
		IDGen:         &stubIDGen{},
		EngineAccount: "disbursement-engine",
		FeeAsset:      "LINKX",
		GasLimit:      200_000,
	}
	return router, ledger, outbox, service
}

func TestDispatchRejectsIneligibleDestination(t *testing.T) {
	router, ledger, _, service := newGatewayWorld()
	service.Eligibility = stubEligibility{allowed: false}

	_, err := service.Dispatch(context.Background(), 7, "receiver", "USDX", 100, "corr-1")
	if !errors.Is(err, domainerrors.ErrDestinationNotEligible) {
		t.Fatalf("expected destination not eligible, got %v", err)
	}
	if len(ledger.approvals) != 0 || len(router.sent) != 0 {
		t.Fatalf("nothing may move for an ineligible destination")
	}
}

func TestDispatchRejectsEmptyReceiver(t *testing.T) {
	_, _, _, service := newGatewayWorld()

	if _, err := service.Dispatch(context.Background(), 7, "", "USDX", 100, "corr-1"); !errors.Is(err, domainerrors.ErrInvalidReceiver) {
		t.Fatalf("expected invalid receiver, got %v", err)
	}
}

func TestDispatchInsufficientFeeBalance(t *testing.T) {
	router, ledger, _, service := newGatewayWorld()
	ledger.balances[balanceKey("disbursement-engine", "LINKX")] = 4

	_, err := service.Dispatch(context.Background(), 7, "receiver", "USDX", 100, "corr-1")
	var feeErr domainerrors.InsufficientFeeBalanceError
	if !errors.As(err, &feeErr) {
		t.Fatalf("expected insufficient fee balance, got %v", err)
	}
	if feeErr.Have != 4 || feeErr.Need != 5 {
		t.Fatalf("unexpected fee shortfall: %+v", feeErr)
	}
	if len(ledger.approvals) != 0 || len(router.sent) != 0 {
		t.Fatalf("no approvals or sends may happen on a fee shortfall")
	}
}

func TestDispatchFeeAssetPayoutNeedsCombinedBalance(t *testing.T) {
	_, ledger, _, service := newGatewayWorld()
	// Payout in the fee asset: the engine balance must cover fee plus amount.
	ledger.balances[balanceKey("disbursement-engine", "LINKX")] = 104

	_, err := service.Dispatch(context.Background(), 7, "receiver", "LINKX", 100, "corr-1")
	var feeErr domainerrors.InsufficientFeeBalanceError
	if !errors.As(err, &feeErr) {
		t.Fatalf("expected insufficient fee balance, got %v", err)
	}
	if feeErr.Have != 104 || feeErr.Need != 105 {
		t.Fatalf("unexpected fee shortfall: %+v", feeErr)
	}
}

func TestDispatchDistinctAssetsApprovesBoth(t *testing.T) {
	router, ledger, outbox, service := newGatewayWorld()
	ledger.balances[balanceKey("disbursement-engine", "LINKX")] = 5

	messageID, err := service.Dispatch(context.Background(), 7, "receiver", "USDX", 100, "corr-1")
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if messageID != "msg-1" {
		t.Fatalf("unexpected message id %q", messageID)
	}

	if len(ledger.approvals) != 2 {
		t.Fatalf("expected two approvals, got %d", len(ledger.approvals))
	}
	if ledger.approvals[0].Asset != "LINKX" || ledger.approvals[0].Amount != 5 {
		t.Fatalf("unexpected fee approval %+v", ledger.approvals[0])
	}
	if ledger.approvals[1].Asset != "USDX" || ledger.approvals[1].Amount != 100 {
		t.Fatalf("unexpected payout approval %+v", ledger.approvals[1])
	}

	if len(router.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(router.sent))
	}
	sent := router.sent[0]
	if sent.DestinationSelector != 7 || sent.Receiver != "receiver" || sent.Amount != 100 {
		t.Fatalf("unexpected descriptor %+v", sent)
	}
	if sent.GasLimit != 200_000 {
		t.Fatalf("expected configured gas limit, got %d", sent.GasLimit)
	}

	if len(outbox.envelopes) != 1 {
		t.Fatalf("expected one event, got %d", len(outbox.envelopes))
	}
	envelope := outbox.envelopes[0]
	if envelope.EventType != "tokens.dispatched" {
		t.Fatalf("unexpected event type %q", envelope.EventType)
	}
	if envelope.CorrelationID != "corr-1" {
		t.Fatalf("expected the settlement correlation id, got %q", envelope.CorrelationID)
	}
}

func TestDispatchSameAssetMakesSingleCombinedApproval(t *testing.T) {
	_, ledger, _, service := newGatewayWorld()
	ledger.balances[balanceKey("disbursement-engine", "LINKX")] = 105

	if _, err := service.Dispatch(context.Background(), 7, "receiver", "LINKX", 100, "corr-1"); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(ledger.approvals) != 1 {
		t.Fatalf("expected a single combined approval, got %d", len(ledger.approvals))
	}
	if ledger.approvals[0].Asset != "LINKX" || ledger.approvals[0].Amount != 105 {
		t.Fatalf("unexpected approval %+v", ledger.approvals[0])
	}
}

func TestDispatchRouterSendFailure(t *testing.T) {
	router, ledger, outbox, service := newGatewayWorld()
	ledger.balances[balanceKey("disbursement-engine", "LINKX")] = 5
	router.sendErr = errors.New("sequence gap")

	_, err := service.Dispatch(context.Background(), 7, "receiver", "USDX", 100, "corr-1")
	if !errors.Is(err, domainerrors.ErrRouterSendFailed) {
		t.Fatalf("expected router send failure, got %v", err)
	}
	if len(outbox.envelopes) != 0 {
		t.Fatalf("no event may be emitted for a failed send")
	}
}
