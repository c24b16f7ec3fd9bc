package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "remit/contexts/payroll-core/registry-service/domain/errors"
	"remit/contexts/payroll-core/registry-service/domain/entities"
	"remit/contexts/payroll-core/registry-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"

	// Single-row tables keyed by a fixed id.
	singletonRowID = 1
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the registry tables. Called once from the composition root.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&organizationModel{},
		&memberModel{},
		&cursorModel{},
		&settingsModel{},
		&eligibleDestinationModel{},
		&outboxModel{},
	)
}

func (r *Repository) CreateOrganization(ctx context.Context, org entities.Organization) (entities.Organization, error) {
	row := organizationModel{
		Controller: org.Controller,
		Name:       org.Name,
		Active:     org.Active,
		CreatedAt:  org.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Organization{}, domainerrors.ErrControllerAlreadyRegistered
		}
		return entities.Organization{}, err
	}
	return row.toEntity(nil), nil
}

func (r *Repository) GetOrganization(ctx context.Context, orgID uint64) (entities.Organization, error) {
	var row organizationModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Organization{}, domainerrors.ErrOrganizationNotFound
		}
		return entities.Organization{}, err
	}
	memberIDs, err := r.memberIDs(ctx, orgID)
	if err != nil {
		return entities.Organization{}, err
	}
	return row.toEntity(memberIDs), nil
}

func (r *Repository) GetOrganizationByController(ctx context.Context, controller string) (entities.Organization, bool, error) {
	var row organizationModel
	err := r.db.WithContext(ctx).
		Where("controller = ?", controller).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Organization{}, false, nil
		}
		return entities.Organization{}, false, err
	}
	memberIDs, err := r.memberIDs(ctx, row.OrgID)
	if err != nil {
		return entities.Organization{}, false, err
	}
	return row.toEntity(memberIDs), true, nil
}

func (r *Repository) ListOrganizations(ctx context.Context) ([]entities.Organization, error) {
	var rows []organizationModel
	if err := r.db.WithContext(ctx).
		Order("org_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	var memberRows []memberModel
	if err := r.db.WithContext(ctx).
		Order("org_id ASC, position ASC").
		Find(&memberRows).
		Error; err != nil {
		return nil, err
	}
	idsByOrg := make(map[uint64][]uint64, len(rows))
	for _, member := range memberRows {
		idsByOrg[member.OrgID] = append(idsByOrg[member.OrgID], member.MemberID)
	}

	items := make([]entities.Organization, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity(idsByOrg[row.OrgID]))
	}
	return items, nil
}

func (r *Repository) UpdateOrganization(ctx context.Context, org entities.Organization) error {
	result := r.db.WithContext(ctx).
		Model(&organizationModel{}).
		Where("org_id = ?", org.OrgID).
		Updates(map[string]any{
			"controller": org.Controller,
			"name":       org.Name,
			"active":     org.Active,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrControllerAlreadyRegistered
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrganizationNotFound
	}
	return nil
}

func (r *Repository) CreateMember(ctx context.Context, member entities.Member) (entities.Member, error) {
	row := memberModelFromEntity(member)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org organizationModel
		if err := tx.Where("org_id = ?", member.OrgID).First(&org).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrOrganizationNotFound
			}
			return err
		}

		var maxPosition int64
		if err := tx.Model(&memberModel{}).
			Where("org_id = ?", member.OrgID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&maxPosition).
			Error; err != nil {
			return err
		}
		row.Position = int(maxPosition) + 1
		return tx.Create(&row).Error
	})
	if err != nil {
		return entities.Member{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetMember(ctx context.Context, memberID uint64) (entities.Member, error) {
	var row memberModel
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Member{}, domainerrors.ErrMemberNotFound
		}
		return entities.Member{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMembers(ctx context.Context, orgID uint64) ([]entities.Member, error) {
	var rows []memberModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("position ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Member, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateMember(ctx context.Context, member entities.Member) error {
	result := r.db.WithContext(ctx).
		Model(&memberModel{}).
		Where("member_id = ?", member.MemberID).
		Updates(map[string]any{
			"name":        member.Name,
			"payout":      member.Payout,
			"selector":    member.Destination.Selector,
			"amount":      member.Amount,
			"next_due_at": member.NextDueAt.UTC(),
			"active":      member.Active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMemberNotFound
	}
	return nil
}

func (r *Repository) AdvanceNextDue(ctx context.Context, memberID uint64, interval time.Duration) (time.Time, error) {
	var next time.Time
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row memberModel
		if err := tx.Where("member_id = ?", memberID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrMemberNotFound
			}
			return err
		}
		next = row.NextDueAt.UTC().Add(interval)
		return tx.Model(&memberModel{}).
			Where("member_id = ?", memberID).
			Update("next_due_at", next).
			Error
	})
	if err != nil {
		return time.Time{}, err
	}
	return next, nil
}

func (r *Repository) GetCursors(ctx context.Context) (entities.ScanCursors, error) {
	var row cursorModel
	err := r.db.WithContext(ctx).
		Where("id = ?", singletonRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ScanCursors{}, nil
		}
		return entities.ScanCursors{}, err
	}
	return entities.ScanCursors{Org: row.OrgCursor, Member: row.MemberCursor}, nil
}

func (r *Repository) PutCursors(ctx context.Context, cursors entities.ScanCursors) error {
	row := cursorModel{
		ID:           singletonRowID,
		OrgCursor:    cursors.Org,
		MemberCursor: cursors.Member,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"org_cursor", "member_cursor"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) GetSettings(ctx context.Context) (entities.EngineSettings, error) {
	var row settingsModel
	err := r.db.WithContext(ctx).
		Where("id = ?", singletonRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.EngineSettings{}, nil
		}
		return entities.EngineSettings{}, err
	}
	return entities.EngineSettings{Interval: time.Duration(row.IntervalSeconds) * time.Second}, nil
}

func (r *Repository) PutSettings(ctx context.Context, settings entities.EngineSettings) error {
	row := settingsModel{
		ID:              singletonRowID,
		IntervalSeconds: int64(settings.Interval / time.Second),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"interval_seconds"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) AllowDestination(ctx context.Context, selector uint64) error {
	row := eligibleDestinationModel{Selector: selector}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).
		Error
}

func (r *Repository) RevokeDestination(ctx context.Context, selector uint64) error {
	return r.db.WithContext(ctx).
		Where("selector = ?", selector).
		Delete(&eligibleDestinationModel{}).
		Error
}

func (r *Repository) IsDestinationAllowed(ctx context.Context, selector uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&eligibleDestinationModel{}).
		Where("selector = ?", selector).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	ts := sentAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": &ts,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
