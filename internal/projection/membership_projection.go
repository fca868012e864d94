package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrgMemberGORM is one row of the organization membership edge table.
type OrgMemberGORM struct {
	InstanceID string `gorm:"primaryKey;size:64"`
	OrgID      string `gorm:"primaryKey;size:64"`
	UserID     string `gorm:"primaryKey;size:64"`
	Role       string `gorm:"size:32"`
}

func (OrgMemberGORM) TableName() string { return "organization_members" }

// ProjectMemberGORM is one row of the project membership edge table.
type ProjectMemberGORM struct {
	InstanceID string `gorm:"primaryKey;size:64"`
	ProjectID  string `gorm:"primaryKey;size:64"`
	UserID     string `gorm:"primaryKey;size:64"`
	Role       string `gorm:"size:32"`
}

func (ProjectMemberGORM) TableName() string { return "project_members" }

// MembershipProjection keeps the organization_members and project_members
// edge tables current. Kept separate from the aggregate read models since
// member events don't touch the aggregate's own row.
type MembershipProjection struct {
	db *gorm.DB
}

func NewMembershipProjection(db *gorm.DB) *MembershipProjection {
	return &MembershipProjection{db: db}
}

func (p *MembershipProjection) Name() string { return "membership_edges" }

func (p *MembershipProjection) EventTypes() []string {
	return []string{
		"organization.member_added",
		"organization.member_removed",
		"project.member_added",
		"project.member_removed",
	}
}

func (p *MembershipProjection) Reset(ctx context.Context) error {
	if err := p.db.WithContext(ctx).Where("1 = 1").Delete(&OrgMemberGORM{}).Error; err != nil {
		return err
	}
	return p.db.WithContext(ctx).Where("1 = 1").Delete(&ProjectMemberGORM{}).Error
}

func (p *MembershipProjection) Apply(ctx context.Context, envelope domain.Envelope) error {
	event := envelope.Event()
	instanceID, aggregateID := event.InstanceID(), event.AggregateID()

	switch event.EventType() {
	case "organization.member_added":
		var payload struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode organization.member_added payload: %w", err)
		}
		row := OrgMemberGORM{InstanceID: instanceID, OrgID: aggregateID, UserID: payload.UserID, Role: payload.Role}
		return p.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "instance_id"}, {Name: "org_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).Create(&row).Error

	case "organization.member_removed":
		var payload struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode organization.member_removed payload: %w", err)
		}
		return p.db.WithContext(ctx).
			Where("instance_id = ? AND org_id = ? AND user_id = ?", instanceID, aggregateID, payload.UserID).
			Delete(&OrgMemberGORM{}).Error

	case "project.member_added":
		var payload struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode project.member_added payload: %w", err)
		}
		row := ProjectMemberGORM{InstanceID: instanceID, ProjectID: aggregateID, UserID: payload.UserID, Role: payload.Role}
		return p.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "instance_id"}, {Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).Create(&row).Error

	case "project.member_removed":
		var payload struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode project.member_removed payload: %w", err)
		}
		return p.db.WithContext(ctx).
			Where("instance_id = ? AND project_id = ? AND user_id = ?", instanceID, aggregateID, payload.UserID).
			Delete(&ProjectMemberGORM{}).Error
	}

	return nil
}

// Migrate creates the membership edge tables.
func (p *MembershipProjection) Migrate() error {
	if err := p.db.AutoMigrate(&OrgMemberGORM{}); err != nil {
		return err
	}
	return p.db.AutoMigrate(&ProjectMemberGORM{})
}
