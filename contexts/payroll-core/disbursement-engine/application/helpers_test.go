package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remit/contexts/payroll-core/disbursement-engine/ports"
)

var errNotFound = errors.New("not found")

type fakeDirectory struct {
	orgs     []ports.OrganizationSnapshot
	members  map[uint64][]ports.MemberSnapshot
	cursors  ports.Cursors
	interval time.Duration
	putCalls int
}

func (d *fakeDirectory) ListOrganizations(_ context.Context) ([]ports.OrganizationSnapshot, error) {
	return append([]ports.OrganizationSnapshot(nil), d.orgs...), nil
}

func (d *fakeDirectory) GetOrganization(_ context.Context, orgID uint64) (ports.OrganizationSnapshot, error) {
	for _, org := range d.orgs {
		if org.OrgID == orgID {
			return org, nil
		}
	}
	return ports.OrganizationSnapshot{}, errNotFound
}

func (d *fakeDirectory) GetMember(_ context.Context, memberID uint64) (ports.MemberSnapshot, error) {
	for _, members := range d.members {
		for _, member := range members {
			if member.MemberID == memberID {
				return member, nil
			}
		}
	}
	return ports.MemberSnapshot{}, errNotFound
}

func (d *fakeDirectory) ListMembers(_ context.Context, orgID uint64) ([]ports.MemberSnapshot, error) {
	return append([]ports.MemberSnapshot(nil), d.members[orgID]...), nil
}

func (d *fakeDirectory) AdvanceNextDue(_ context.Context, memberID uint64, interval time.Duration) (time.Time, error) {
	for orgID, members := range d.members {
		for i, member := range members {
			if member.MemberID == memberID {
				next := member.NextDueAt.Add(interval)
				d.members[orgID][i].NextDueAt = next
				return next, nil
			}
		}
	}
	return time.Time{}, errNotFound
}

func (d *fakeDirectory) GetCursors(_ context.Context) (ports.Cursors, error) {
	return d.cursors, nil
}

func (d *fakeDirectory) PutCursors(_ context.Context, cursors ports.Cursors) error {
	d.cursors = cursors
	d.putCalls++
	return nil
}

func (d *fakeDirectory) Interval(_ context.Context) (time.Duration, error) {
	return d.interval, nil
}

type transferCall struct {
	Spender string
	Owner   string
	To      string
	Asset   string
	Amount  uint64
}

type fakeLedger struct {
	allowances  map[string]uint64
	transferErr error
	transfers   []transferCall
}

func allowanceKey(owner string, spender string, asset string) string {
	return fmt.Sprintf("%s|%s|%s", owner, spender, asset)
}

func (l *fakeLedger) Allowance(_ context.Context, owner string, spender string, asset string) (uint64, error) {
	return l.allowances[allowanceKey(owner, spender, asset)], nil
}

func (l *fakeLedger) TransferFrom(_ context.Context, spender string, owner string, to string, asset string, amount uint64) error {
	if l.transferErr != nil {
		return l.transferErr
	}
	l.transfers = append(l.transfers, transferCall{
		Spender: spender,
		Owner:   owner,
		To:      to,
		Asset:   asset,
		Amount:  amount,
	})
	return nil
}

type dispatchCall struct {
	Selector      uint64
	Receiver      string
	Asset         string
	Amount        uint64
	CorrelationID string
}

type fakeDispatcher struct {
	messageID string
	err       error
	calls     []dispatchCall
}

func (d *fakeDispatcher) Dispatch(_ context.Context, selector uint64, receiver string, asset string, amount uint64, correlationID string) (string, error) {
	d.calls = append(d.calls, dispatchCall{
		Selector:      selector,
		Receiver:      receiver,
		Asset:         asset,
		Amount:        amount,
		CorrelationID: correlationID,
	})
	if d.err != nil {
		return "", d.err
	}
	return d.messageID, nil
}

type fakeOutbox struct {
	envelopes []ports.EventEnvelope
}

func (o *fakeOutbox) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	o.envelopes = append(o.envelopes, envelope)
	return nil
}

func (o *fakeOutbox) eventTypes() []string {
	types := make([]string, 0, len(o.envelopes))
	for _, envelope := range o.envelopes {
		types = append(types, envelope.EventType)
	}
	return types
}

type seqIDGen struct {
	n int
}

func (g *seqIDGen) NewID(_ context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}
