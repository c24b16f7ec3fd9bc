package postgresadapter

import (
	"encoding/json"
	"time"

	"remit/contexts/payroll-core/registry-service/domain/entities"
	"remit/contexts/payroll-core/registry-service/ports"
)

type organizationModel struct {
	OrgID      uint64    `gorm:"column:org_id;primaryKey;autoIncrement"`
	Controller string    `gorm:"column:controller;uniqueIndex"`
	Name       string    `gorm:"column:name"`
	Active     bool      `gorm:"column:active"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (organizationModel) TableName() string {
	return "organizations"
}

func (m organizationModel) toEntity(memberIDs []uint64) entities.Organization {
	return entities.Organization{
		OrgID:      m.OrgID,
		Controller: m.Controller,
		Name:       m.Name,
		Active:     m.Active,
		CreatedAt:  m.CreatedAt.UTC(),
		MemberIDs:  memberIDs,
	}
}

type memberModel struct {
	MemberID  uint64    `gorm:"column:member_id;primaryKey;autoIncrement"`
	OrgID     uint64    `gorm:"column:org_id;index"`
	Position  int       `gorm:"column:position"`
	Name      string    `gorm:"column:name"`
	Payout    string    `gorm:"column:payout"`
	Selector  uint64    `gorm:"column:selector"`
	Amount    uint64    `gorm:"column:amount"`
	NextDueAt time.Time `gorm:"column:next_due_at"`
	Active    bool      `gorm:"column:active"`
}

func (memberModel) TableName() string {
	return "members"
}

func memberModelFromEntity(member entities.Member) memberModel {
	return memberModel{
		MemberID:  member.MemberID,
		OrgID:     member.OrgID,
		Name:      member.Name,
		Payout:    member.Payout,
		Selector:  member.Destination.Selector,
		Amount:    member.Amount,
		NextDueAt: member.NextDueAt.UTC(),
		Active:    member.Active,
	}
}

func (m memberModel) toEntity() entities.Member {
	return entities.Member{
		MemberID:    m.MemberID,
		OrgID:       m.OrgID,
		Name:        m.Name,
		Payout:      m.Payout,
		Destination: entities.DestinationFromSelector(m.Selector),
		Amount:      m.Amount,
		NextDueAt:   m.NextDueAt.UTC(),
		Active:      m.Active,
	}
}

type cursorModel struct {
	ID           int `gorm:"column:id;primaryKey"`
	OrgCursor    int `gorm:"column:org_cursor"`
	MemberCursor int `gorm:"column:member_cursor"`
}

func (cursorModel) TableName() string {
	return "scan_cursors"
}

type settingsModel struct {
	ID              int   `gorm:"column:id;primaryKey"`
	IntervalSeconds int64 `gorm:"column:interval_seconds"`
}

func (settingsModel) TableName() string {
	return "engine_settings"
}

type eligibleDestinationModel struct {
	Selector uint64 `gorm:"column:selector;primaryKey"`
}

func (eligibleDestinationModel) TableName() string {
	return "eligible_destinations"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "payroll_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func marshalEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}
