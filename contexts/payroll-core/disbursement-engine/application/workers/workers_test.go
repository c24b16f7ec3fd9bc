package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	application "remit/contexts/payroll-core/disbursement-engine/application"
	"remit/contexts/payroll-core/disbursement-engine/ports"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubDirectory struct {
	org     ports.OrganizationSnapshot
	member  ports.MemberSnapshot
	cursors ports.Cursors
}

func (d *stubDirectory) ListOrganizations(_ context.Context) ([]ports.OrganizationSnapshot, error) {
	return []ports.OrganizationSnapshot{d.org}, nil
}

func (d *stubDirectory) GetOrganization(_ context.Context, orgID uint64) (ports.OrganizationSnapshot, error) {
	if orgID != d.org.OrgID {
		return ports.OrganizationSnapshot{}, errors.New("not found")
	}
	return d.org, nil
}

func (d *stubDirectory) GetMember(_ context.Context, memberID uint64) (ports.MemberSnapshot, error) {
	if memberID != d.member.MemberID {
		return ports.MemberSnapshot{}, errors.New("not found")
	}
	return d.member, nil
}

func (d *stubDirectory) ListMembers(_ context.Context, _ uint64) ([]ports.MemberSnapshot, error) {
	return []ports.MemberSnapshot{d.member}, nil
}

func (d *stubDirectory) AdvanceNextDue(_ context.Context, _ uint64, interval time.Duration) (time.Time, error) {
	d.member.NextDueAt = d.member.NextDueAt.Add(interval)
	return d.member.NextDueAt, nil
}

func (d *stubDirectory) GetCursors(_ context.Context) (ports.Cursors, error) {
	return d.cursors, nil
}

func (d *stubDirectory) PutCursors(_ context.Context, cursors ports.Cursors) error {
	d.cursors = cursors
	return nil
}

func (d *stubDirectory) Interval(_ context.Context) (time.Duration, error) {
	return 30 * 24 * time.Hour, nil
}

type stubLedger struct {
	allowance uint64
	transfers int
}

func (l *stubLedger) Allowance(_ context.Context, _ string, _ string, _ string) (uint64, error) {
	return l.allowance, nil
}

func (l *stubLedger) TransferFrom(_ context.Context, _ string, _ string, _ string, _ string, _ uint64) error {
	l.transfers++
	return nil
}

type stubClock struct{}

func (stubClock) Now() time.Time { return testNow }

type stubIDGen struct{ n int }

func (g *stubIDGen) NewID(_ context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

type recordingOutbox struct {
	envelopes []ports.EventEnvelope
}

func (o *recordingOutbox) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	o.envelopes = append(o.envelopes, envelope)
	return nil
}

func newTrigger(dir *stubDirectory, ledger *stubLedger) application.TriggerAdapter {
	executor := application.Executor{
		Directory:     dir,
		Ledger:        ledger,
		Outbox:        &recordingOutbox{},
		Clock:         stubClock{},
		IDGen:         &stubIDGen{},
		EngineAccount: "disbursement-engine",
		PayAsset:      "USDX",
	}
	return application.TriggerAdapter{
		Scanner:  application.Scanner{Directory: dir, Clock: stubClock{}},
		Executor: executor,
	}
}

func TestAutomationJobSettlesReadyObligation(t *testing.T) {
	dir := &stubDirectory{
		org: ports.OrganizationSnapshot{OrgID: 1, Controller: "ctrl-1", Active: true, MemberIDs: []uint64{10}},
		member: ports.MemberSnapshot{
			MemberID:  10,
			OrgID:     1,
			Payout:    "payout-10",
			Amount:    50,
			NextDueAt: testNow.Add(-time.Minute),
			Active:    true,
		},
	}
	ledger := &stubLedger{allowance: 1_000}
	job := AutomationJob{Trigger: newTrigger(dir, ledger)}

	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if ledger.transfers != 1 {
		t.Fatalf("expected one transfer, got %d", ledger.transfers)
	}
	if !dir.member.NextDueAt.After(testNow) {
		t.Fatalf("expected due timestamp advanced")
	}
}

func TestAutomationJobIdleWhenNothingDue(t *testing.T) {
	dir := &stubDirectory{
		org: ports.OrganizationSnapshot{OrgID: 1, Controller: "ctrl-1", Active: true, MemberIDs: []uint64{10}},
		member: ports.MemberSnapshot{
			MemberID:  10,
			OrgID:     1,
			Payout:    "payout-10",
			Amount:    50,
			NextDueAt: testNow.Add(time.Hour),
			Active:    true,
		},
	}
	ledger := &stubLedger{allowance: 1_000}
	job := AutomationJob{Trigger: newTrigger(dir, ledger)}

	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if ledger.transfers != 0 {
		t.Fatalf("expected no transfers when nothing is due")
	}
}

func TestAutomationJobSwallowsDeferredSettlement(t *testing.T) {
	dir := &stubDirectory{
		org: ports.OrganizationSnapshot{OrgID: 1, Controller: "ctrl-1", Active: true, MemberIDs: []uint64{10}},
		member: ports.MemberSnapshot{
			MemberID:  10,
			OrgID:     1,
			Payout:    "payout-10",
			Amount:    50,
			NextDueAt: testNow.Add(-time.Minute),
			Active:    true,
		},
	}
	ledger := &stubLedger{allowance: 0}
	job := AutomationJob{Trigger: newTrigger(dir, ledger)}

	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("deferral must not stop the loop: %v", err)
	}
	if ledger.transfers != 0 {
		t.Fatalf("expected no transfers on deferral")
	}
}

type stubOutboxRepo struct {
	pending []ports.OutboxMessage
	sent    []string
}

func (r *stubOutboxRepo) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit > len(r.pending) {
		limit = len(r.pending)
	}
	return append([]ports.OutboxMessage(nil), r.pending[:limit]...), nil
}

func (r *stubOutboxRepo) MarkOutboxSent(_ context.Context, outboxID string, _ time.Time) error {
	r.sent = append(r.sent, outboxID)
	return nil
}

type stubPublisher struct {
	published []ports.EventEnvelope
	topics    []string
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	p.topics = append(p.topics, topic)
	return nil
}

func TestOutboxRelayPublishesAndMarksSent(t *testing.T) {
	envelope := ports.EventEnvelope{
		EventID:       "evt-1",
		EventType:     "settlement.executed",
		SourceService: "disbursement-engine",
		OccurredAt:    testNow,
		SchemaVersion: 1,
		PartitionKey:  "1",
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	repo := &stubOutboxRepo{pending: []ports.OutboxMessage{{
		OutboxID:  "out-1",
		EventType: envelope.EventType,
		Payload:   payload,
		CreatedAt: testNow,
	}}}
	publisher := &stubPublisher{}
	relay := OutboxRelay{Outbox: repo, Publisher: publisher, Clock: stubClock{}}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if len(publisher.published) != 1 || publisher.published[0].EventID != "evt-1" {
		t.Fatalf("expected the envelope to be published")
	}
	if publisher.topics[0] != "payroll.settlements" {
		t.Fatalf("expected default topic, got %q", publisher.topics[0])
	}
	if len(repo.sent) != 1 || repo.sent[0] != "out-1" {
		t.Fatalf("expected message marked sent, got %v", repo.sent)
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	repo := &stubOutboxRepo{pending: []ports.OutboxMessage{{
		OutboxID: "out-1",
		Payload:  []byte(`{"event_id":"evt-1"}`),
	}}}
	publisher := &stubPublisher{err: errors.New("broker down")}
	relay := OutboxRelay{Outbox: repo, Publisher: publisher, Clock: stubClock{}}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure to surface")
	}
	if len(repo.sent) != 0 {
		t.Fatalf("failed publish must not be marked sent")
	}
}
