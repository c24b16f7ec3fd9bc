package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	domainerrors "remit/contexts/payroll-core/registry-service/domain/errors"
	"remit/contexts/payroll-core/registry-service/domain/entities"
	"remit/contexts/payroll-core/registry-service/ports"

	"github.com/google/uuid"
)

// Store is the deterministic in-memory registry used by tests and local
// wiring. Identifier assignment mirrors the postgres adapter: monotonic,
// starting at 1, never reused.
type Store struct {
	mu sync.RWMutex

	nextOrgID    uint64
	nextMemberID uint64
	orgs         map[uint64]entities.Organization
	orgOrder     []uint64
	members      map[uint64]entities.Member
	cursors      entities.ScanCursors
	settings     entities.EngineSettings
	eligible     map[uint64]struct{}
	outbox       map[string]outboxRecord
	outboxOrder  []string
}

type outboxRecord struct {
	Message ports.OutboxMessage
	Status  string
	SentAt  *time.Time
}

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

func NewStore(defaultInterval time.Duration) *Store {
	return &Store{
		nextOrgID:    1,
		nextMemberID: 1,
		orgs:         make(map[uint64]entities.Organization),
		members:      make(map[uint64]entities.Member),
		settings:     entities.EngineSettings{Interval: defaultInterval},
		eligible:     make(map[uint64]struct{}),
		outbox:       make(map[string]outboxRecord),
	}
}

func (s *Store) CreateOrganization(_ context.Context, org entities.Organization) (entities.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orgs {
		if existing.Controller == org.Controller {
			return entities.Organization{}, domainerrors.ErrControllerAlreadyRegistered
		}
	}

	org.OrgID = s.nextOrgID
	s.nextOrgID++
	org.MemberIDs = nil
	s.orgs[org.OrgID] = org
	s.orgOrder = append(s.orgOrder, org.OrgID)
	return cloneOrganization(org), nil
}

func (s *Store) GetOrganization(_ context.Context, orgID uint64) (entities.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[orgID]
	if !ok {
		return entities.Organization{}, domainerrors.ErrOrganizationNotFound
	}
	return cloneOrganization(org), nil
}

func (s *Store) GetOrganizationByController(_ context.Context, controller string) (entities.Organization, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.orgs {
		if org.Controller == controller {
			return cloneOrganization(org), true, nil
		}
	}
	return entities.Organization{}, false, nil
}

func (s *Store) ListOrganizations(_ context.Context) ([]entities.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Organization, 0, len(s.orgOrder))
	for _, orgID := range s.orgOrder {
		items = append(items, cloneOrganization(s.orgs[orgID]))
	}
	return items, nil
}

func (s *Store) UpdateOrganization(_ context.Context, org entities.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orgs[org.OrgID]
	if !ok {
		return domainerrors.ErrOrganizationNotFound
	}
	// Membership order is owned by the store, not the caller.
	org.MemberIDs = existing.MemberIDs
	s.orgs[org.OrgID] = org
	return nil
}

func (s *Store) CreateMember(_ context.Context, member entities.Member) (entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.orgs[member.OrgID]
	if !ok {
		return entities.Member{}, domainerrors.ErrOrganizationNotFound
	}

	member.MemberID = s.nextMemberID
	s.nextMemberID++
	s.members[member.MemberID] = member
	org.MemberIDs = append(org.MemberIDs, member.MemberID)
	s.orgs[org.OrgID] = org
	return member, nil
}

func (s *Store) GetMember(_ context.Context, memberID uint64) (entities.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, ok := s.members[memberID]
	if !ok {
		return entities.Member{}, domainerrors.ErrMemberNotFound
	}
	return member, nil
}

func (s *Store) ListMembers(_ context.Context, orgID uint64) ([]entities.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[orgID]
	if !ok {
		return nil, domainerrors.ErrOrganizationNotFound
	}
	items := make([]entities.Member, 0, len(org.MemberIDs))
	for _, memberID := range org.MemberIDs {
		items = append(items, s.members[memberID])
	}
	return items, nil
}

func (s *Store) UpdateMember(_ context.Context, member entities.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.members[member.MemberID]
	if !ok {
		return domainerrors.ErrMemberNotFound
	}
	member.OrgID = existing.OrgID
	s.members[member.MemberID] = member
	return nil
}

func (s *Store) AdvanceNextDue(_ context.Context, memberID uint64, interval time.Duration) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[memberID]
	if !ok {
		return time.Time{}, domainerrors.ErrMemberNotFound
	}
	member.NextDueAt = member.NextDueAt.Add(interval)
	s.members[memberID] = member
	return member.NextDueAt, nil
}

func (s *Store) GetCursors(_ context.Context) (entities.ScanCursors, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursors, nil
}

func (s *Store) PutCursors(_ context.Context, cursors entities.ScanCursors) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = cursors
	return nil
}

func (s *Store) GetSettings(_ context.Context) (entities.EngineSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) PutSettings(_ context.Context, settings entities.EngineSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

func (s *Store) AllowDestination(_ context.Context, selector uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eligible[selector] = struct{}{}
	return nil
}

func (s *Store) RevokeDestination(_ context.Context, selector uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.eligible, selector)
	return nil
}

func (s *Store) IsDestinationAllowed(_ context.Context, selector uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.eligible[selector]
	return ok, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if envelope.EventID == "" {
		return domainerrors.ErrInvalidInput
	}

	if existing, ok := s.outbox[envelope.EventID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrInvalidInput
		}
		return nil
	}

	s.outbox[envelope.EventID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	s.outboxOrder = append(s.outboxOrder, envelope.EventID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, outboxID := range s.outboxOrder {
		row := s.outbox[outboxID]
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrInvalidInput
	}
	ts := sentAt.UTC()
	row.Status = outboxStatusSent
	row.SentAt = &ts
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneOrganization(org entities.Organization) entities.Organization {
	org.MemberIDs = append([]uint64(nil), org.MemberIDs...)
	return org
}
