package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coreidentity/iamcore/internal/infrastructure"
	"github.com/coreidentity/iamcore/pkg/domain"
	"gorm.io/gorm"
)

// UserProjection keeps the user read model current by tailing user events.
// Apply is idempotent: user.created saves the row by primary key and every
// later event updates the row matching (instance_id, id) in place, so
// running an event twice leaves the same row.
type UserProjection struct {
	db *gorm.DB
}

func NewUserProjection(db *gorm.DB) *UserProjection {
	return &UserProjection{db: db}
}

func (p *UserProjection) Name() string { return "user_read_model" }

func (p *UserProjection) EventTypes() []string {
	return []string{
		"user.created",
		"user.email_updated",
		"user.name_updated",
		"user.deactivated",
		"user.reactivated",
		"user.deleted",
	}
}

func (p *UserProjection) Reset(ctx context.Context) error {
	return p.db.WithContext(ctx).Where("1 = 1").Delete(&infrastructure.UserReadModelGORM{}).Error
}

func (p *UserProjection) Apply(ctx context.Context, envelope domain.Envelope) error {
	event := envelope.Event()
	instanceID, id := event.InstanceID(), event.AggregateID()

	switch event.EventType() {
	case "user.created":
		var payload struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode user.created payload: %w", err)
		}
		row := infrastructure.UserReadModelGORM{
			ID:         id,
			InstanceID: instanceID,
			Email:      payload.Email,
			Name:       payload.Name,
			Owner:      event.Owner(),
			State:      string(domain.StateActive),
			Version:    event.SequenceNo(),
		}
		return p.db.WithContext(ctx).Save(&row).Error

	case "user.email_updated":
		var payload struct {
			NewEmail string `json:"new_email"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode user.email_updated payload: %w", err)
		}
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"email": payload.NewEmail})

	case "user.name_updated":
		var payload struct {
			NewName string `json:"new_name"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err != nil {
			return fmt.Errorf("decode user.name_updated payload: %w", err)
		}
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"name": payload.NewName})

	case "user.deactivated":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateInactive)})

	case "user.reactivated":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateActive)})

	case "user.deleted":
		return p.update(ctx, instanceID, id, event.SequenceNo(), map[string]interface{}{"state": string(domain.StateDeleted)})
	}

	return nil
}

func (p *UserProjection) update(ctx context.Context, instanceID, id string, version int64, fields map[string]interface{}) error {
	fields["version"] = version
	return p.db.WithContext(ctx).Model(&infrastructure.UserReadModelGORM{}).
		Where("instance_id = ? AND id = ?", instanceID, id).
		Updates(fields).Error
}
