package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coreidentity/iamcore/internal/infrastructure"
	"github.com/coreidentity/iamcore/pkg/domain"
	"gorm.io/gorm"
)

// ProjectProjection keeps the project read model current by tailing project
// lifecycle events. Membership changes are handled by MembershipProjection.
type ProjectProjection struct {
	db *gorm.DB
}

func NewProjectProjection(db *gorm.DB) *ProjectProjection {
	return &ProjectProjection{db: db}
}

func (p *ProjectProjection) Name() string { return "project_read_model" }

func (p *ProjectProjection) EventTypes() []string {
	return []string{
		"project.created",
		"project.renamed",
		"project.deactivated",
		"project.reactivated",
		"project.deleted",
	}
}

func (p *ProjectProjection) Reset(ctx context.Context) error {
	return p.db.WithContext(ctx).Where("1 = 1").Delete(&infrastructure.ProjectReadModelGORM{}).Error
}

func (p *ProjectProjection) Apply(ctx context.Context, envelope domain.Envelope) error {
	event := envelope.Event()
	instanceID, id := event.InstanceID(), event.AggregateID()

	switch event.EventType() {
	case "project.created":
		var payload struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode project.created payload: %w", err)
		}
		row := infrastructure.ProjectReadModelGORM{
			ID:         id,
			InstanceID: instanceID,
			Name:       payload.Name,
			Slug:       payload.Slug,
			OwnerOrgID: event.Owner(),
			State:      string(domain.StateActive),
			Version:    event.SequenceNo(),
		}
		return p.db.WithContext(ctx).Save(&row).Error

	case "project.renamed":
		var payload struct {
			NewName string `json:"new_name"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode project.renamed payload: %w", err)
		}
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"name": payload.NewName})

	case "project.deactivated":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateInactive)})

	case "project.reactivated":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateActive)})

	case "project.deleted":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateDeleted)})
	}

	return nil
}

func (p *ProjectProjection) update(ctx context.Context, instanceID, id string, version int64, fields map[string]interface{}) error {
	fields["version"] = version
	return p.db.WithContext(ctx).Model(&infrastructure.ProjectReadModelGORM{}).
		Where("instance_id = ? AND id = ?", instanceID, id).
		Updates(fields).Error
}
