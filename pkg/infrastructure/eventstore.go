package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coreidentity/iamcore/pkg/domain"
	"github.com/segmentio/ksuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRecord is the durable row shape for one persisted event. The
// (instance_id, aggregate_type, aggregate_id, sequence_no) tuple is the
// aggregate's consistency boundary and carries a DB-level uniqueness
// constraint, so two concurrent pushes racing on the same expected version
// cannot both insert even if they both read the same in-process current
// version; (position, in_position_order) is the global, tailable commit
// order.
type EventRecord struct {
	ID              string `gorm:"primaryKey"`
	InstanceID      string `gorm:"size:64;uniqueIndex:idx_events_aggregate_version,priority:1"`
	AggregateType   string `gorm:"size:64;uniqueIndex:idx_events_aggregate_version,priority:2"`
	AggregateID     string `gorm:"size:64;uniqueIndex:idx_events_aggregate_version,priority:3"`
	EventType       string `gorm:"size:128;index"`
	SequenceNo      int64  `gorm:"uniqueIndex:idx_events_aggregate_version,priority:4"`
	Owner           string `gorm:"size:64;index"`
	Creator         string `gorm:"size:64"`
	Position        int64  `gorm:"index:idx_events_position,priority:1"`
	InPositionOrder int    `gorm:"index:idx_events_position,priority:2"`
	Data            string `gorm:"type:text"`
	OccurredAt      time.Time
	CreatedAt       time.Time
}

func (EventRecord) TableName() string { return "events" }

// eventPosition is a single-row counter table. Production writers assign
// Position from it under a row lock inside the commit transaction; it is
// the only place a global, strictly increasing position is minted.
type eventPosition struct {
	ID    uint `gorm:"primaryKey"`
	Value int64
}

func (eventPosition) TableName() string { return "event_position" }

type eventEnvelope struct {
	event           domain.Event
	metadata        map[string]interface{}
	eventID         string
	timestamp       time.Time
	position        int64
	inPositionOrder int
}

func (e *eventEnvelope) Event() domain.Event                  { return e.event }
func (e *eventEnvelope) Metadata() map[string]interface{}     { return e.metadata }
func (e *eventEnvelope) EventID() string                      { return e.eventID }
func (e *eventEnvelope) Timestamp() time.Time                 { return e.timestamp }
func (e *eventEnvelope) Position() int64                      { return e.position }
func (e *eventEnvelope) InPositionOrder() int                 { return e.inPositionOrder }

// GormEventStore is the production domain.EventStore, backed by gorm.io/gorm
// against Postgres (production) or the pure-Go glebarez/sqlite driver (tests).
type GormEventStore struct {
	db *gorm.DB
}

// NewGormEventStore wraps db, migrating the events and position-counter tables.
func NewGormEventStore(db *gorm.DB) (*GormEventStore, error) {
	if err := db.AutoMigrate(&EventRecord{}, &eventPosition{}); err != nil {
		return nil, fmt.Errorf("migrate eventstore tables: %w", err)
	}
	return &GormEventStore{db: db}, nil
}

// Push persists events atomically under a per-aggregate optimistic
// concurrency check, assigning every event in the batch the same commit
// Position and an ascending InPositionOrder.
func (s *GormEventStore) Push(ctx context.Context, events []domain.Event) ([]domain.Envelope, error) {
	if len(events) == 0 {
		return []domain.Envelope{}, nil
	}

	var envelopes []domain.Envelope
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		position, err := nextPosition(tx)
		if err != nil {
			return fmt.Errorf("assign position: %w", err)
		}

		seen := make(map[string]int64, len(events))
		for _, event := range events {
			key := aggregateKey(event.InstanceID(), event.AggregateType(), event.AggregateID())
			current, ok := seen[key]
			if !ok {
				current, err = currentVersion(tx, event.InstanceID(), event.AggregateType(), event.AggregateID())
				if err != nil {
					return err
				}
			}
			expected := current + 1
			if event.SequenceNo() != expected {
				return domain.NewConcurrencyError(event.AggregateID(), expected, event.SequenceNo())
			}
			seen[key] = event.SequenceNo()
		}

		now := time.Now()
		records := make([]EventRecord, len(events))
		envelopes = make([]domain.Envelope, len(events))
		for i, event := range events {
			data, err := json.Marshal(event)
			if err != nil {
				return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
			}
			id := ksuid.New().String()
			records[i] = EventRecord{
				ID:              id,
				InstanceID:      event.InstanceID(),
				AggregateType:   event.AggregateType(),
				AggregateID:     event.AggregateID(),
				EventType:       event.EventType(),
				SequenceNo:      event.SequenceNo(),
				Owner:           event.Owner(),
				Creator:         event.Creator(),
				Position:        position,
				InPositionOrder: i + 1,
				Data:            string(data),
				OccurredAt:      event.CreatedAt(),
				CreatedAt:       now,
			}
			envelopes[i] = &eventEnvelope{
				event:           event,
				metadata:        map[string]interface{}{},
				eventID:         id,
				timestamp:       now,
				position:        position,
				inPositionOrder: i + 1,
			}
		}

		if err := tx.CreateInBatches(&records, 100).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				first := events[0]
				return domain.NewConcurrencyError(first.AggregateID(), first.SequenceNo(), first.SequenceNo())
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return envelopes, nil
}

// ReadAggregate returns every event for one aggregate, ascending by version.
func (s *GormEventStore) ReadAggregate(ctx context.Context, instanceID, aggregateType, aggregateID string) ([]domain.Envelope, error) {
	var records []EventRecord
	err := s.db.WithContext(ctx).
		Where("instance_id = ? AND aggregate_type = ? AND aggregate_id = ?", instanceID, aggregateType, aggregateID).
		Order("sequence_no ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("read aggregate %s/%s: %w", aggregateType, aggregateID, err)
	}
	return toEnvelopes(records)
}

// ReadSince returns up to limit events with position strictly greater than
// position, ascending by (position, in_position_order), optionally
// narrowed by filter. Used by projection workers to tail the log.
func (s *GormEventStore) ReadSince(ctx context.Context, position int64, limit int, filter *domain.EventFilter) ([]domain.Envelope, error) {
	if limit <= 0 {
		limit = 100
	}
	q := s.db.WithContext(ctx).Where("position > ?", position)
	if filter != nil {
		if filter.InstanceID != "" {
			q = q.Where("instance_id = ?", filter.InstanceID)
		}
		if len(filter.AggregateTypes) > 0 {
			q = q.Where("aggregate_type IN ?", filter.AggregateTypes)
		}
	}

	var records []EventRecord
	if err := q.Order("position ASC, in_position_order ASC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read since position %d: %w", position, err)
	}
	return toEnvelopes(records)
}

// CurrentPosition returns the highest committed position, or 0 if empty.
func (s *GormEventStore) CurrentPosition(ctx context.Context) (int64, error) {
	var pc eventPosition
	err := s.db.WithContext(ctx).First(&pc, eventPosition{ID: 1}).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read current position: %w", err)
	}
	return pc.Value, nil
}

func toEnvelopes(records []EventRecord) ([]domain.Envelope, error) {
	envelopes := make([]domain.Envelope, len(records))
	for i, record := range records {
		event, err := reconstructEvent(record)
		if err != nil {
			return nil, err
		}
		envelopes[i] = &eventEnvelope{
			event:           event,
			metadata:        map[string]interface{}{},
			eventID:         record.ID,
			timestamp:       record.CreatedAt,
			position:        record.Position,
			inPositionOrder: record.InPositionOrder,
		}
	}
	return envelopes, nil
}

func aggregateKey(instanceID, aggregateType, aggregateID string) string {
	return instanceID + "/" + aggregateType + "/" + aggregateID
}

// currentVersion reads the aggregate's highest persisted sequence number.
// On Postgres it locks the aggregate's existing rows for the rest of the
// transaction, narrowing (not eliminating, since a brand-new aggregate has
// no rows to lock) the window for a concurrent Push to read the same
// current version; the unique index on EventRecord is what actually
// guarantees only one such Push can commit.
func currentVersion(tx *gorm.DB, instanceID, aggregateType, aggregateID string) (int64, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var current int64
	row := q.Model(&EventRecord{}).
		Where("instance_id = ? AND aggregate_type = ? AND aggregate_id = ?", instanceID, aggregateType, aggregateID).
		Select("COALESCE(MAX(sequence_no), 0)").Row()
	if err := row.Scan(&current); err != nil {
		return 0, fmt.Errorf("read current version: %w", err)
	}
	return current, nil
}

// nextPosition increments the single-row counter and returns the new value.
// Postgres takes a row lock so concurrent commits serialize on it; the
// pure-Go sqlite driver used in tests has no concurrent writers to race.
func nextPosition(tx *gorm.DB) (int64, error) {
	var pc eventPosition
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.FirstOrCreate(&pc, eventPosition{ID: 1}).Error; err != nil {
		return 0, err
	}
	pc.Value++
	if err := tx.Save(&pc).Error; err != nil {
		return 0, err
	}
	return pc.Value, nil
}
