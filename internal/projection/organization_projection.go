package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coreidentity/iamcore/internal/infrastructure"
	"github.com/coreidentity/iamcore/pkg/domain"
	"gorm.io/gorm"
)

// OrganizationProjection keeps the organization read model current by
// tailing organization lifecycle events. Membership changes are handled by
// MembershipProjection instead.
type OrganizationProjection struct {
	db *gorm.DB
}

func NewOrganizationProjection(db *gorm.DB) *OrganizationProjection {
	return &OrganizationProjection{db: db}
}

func (p *OrganizationProjection) Name() string { return "organization_read_model" }

func (p *OrganizationProjection) EventTypes() []string {
	return []string{
		"organization.created",
		"organization.renamed",
		"organization.deactivated",
		"organization.reactivated",
		"organization.deleted",
	}
}

func (p *OrganizationProjection) Reset(ctx context.Context) error {
	return p.db.WithContext(ctx).Where("1 = 1").Delete(&infrastructure.OrganizationReadModelGORM{}).Error
}

func (p *OrganizationProjection) Apply(ctx context.Context, envelope domain.Envelope) error {
	event := envelope.Event()
	instanceID, id := event.InstanceID(), event.AggregateID()

	switch event.EventType() {
	case "organization.created":
		var payload struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode organization.created payload: %w", err)
		}
		row := infrastructure.OrganizationReadModelGORM{
			ID:         id,
			InstanceID: instanceID,
			Name:       payload.Name,
			Slug:       payload.Slug,
			State:      string(domain.StateActive),
			Version:    event.SequenceNo(),
		}
		return p.db.WithContext(ctx).Save(&row).Error

	case "organization.renamed":
		var payload struct {
			NewName string `json:"new_name"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode organization.renamed payload: %w", err)
		}
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"name": payload.NewName})

	case "organization.deactivated":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateInactive)})

	case "organization.reactivated":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateActive)})

	case "organization.deleted":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateDeleted)})
	}

	return nil
}

func (p *OrganizationProjection) update(ctx context.Context, instanceID, id string, version int64, fields map[string]interface{}) error {
	fields["version"] = version
	return p.db.WithContext(ctx).Model(&infrastructure.OrganizationReadModelGORM{}).
		Where("instance_id = ? AND id = ?", instanceID, id).
		Updates(fields).Error
}
