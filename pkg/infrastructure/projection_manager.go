package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/coreidentity/iamcore/pkg/domain"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Projection consumes ordered events to build one read model. Apply must be
// idempotent: at-least-once delivery means an event may be handed to it more
// than once after a worker restart between a successful apply and its
// position checkpoint.
type Projection interface {
	Name() string
	EventTypes() []string
	Apply(ctx context.Context, envelope domain.Envelope) error
}

// Resettable is implemented by projections that support a full rebuild.
// RebuildFrom(manager) calls Reset before replaying the log from position 0.
type Resettable interface {
	Reset(ctx context.Context) error
}

// ProjectionManager runs one worker goroutine per registered projection,
// each independently tailing the eventstore via ReadSince, checkpointing its
// position, and holding a TTL row lock so only one process advances a given
// projection at a time.
type ProjectionManager struct {
	db           *gorm.DB
	store        domain.EventStore
	logger       domain.Logger
	workerID     string
	batchSize    int
	pollInterval time.Duration
	lockTTL      time.Duration
	projections  []Projection
}

// NewProjectionManager creates a manager over store, checkpointing state in
// db. workerID identifies this process in the projection_locks table.
func NewProjectionManager(db *gorm.DB, store domain.EventStore, logger domain.Logger, workerID string) *ProjectionManager {
	return &ProjectionManager{
		db:           db,
		store:        store,
		logger:       logger,
		workerID:     workerID,
		batchSize:    200,
		pollInterval: time.Second,
		lockTTL:      30 * time.Second,
	}
}

// Register adds a projection to be run by Start.
func (m *ProjectionManager) Register(p Projection) {
	m.projections = append(m.projections, p)
}

// Start runs every registered projection's worker loop until ctx is
// cancelled. Workers record failures in their ProjectionState rows and keep
// running, so no worker error is returned from here.
func (m *ProjectionManager) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range m.projections {
		p := p
		g.Go(func() error {
			m.runWorker(gctx, p)
			return nil
		})
	}
	return g.Wait()
}

// Rebuild resets a projection's read model and checkpoint, then synchronously
// drains the entire log against it before returning: callers see a fully
// caught-up projection once Rebuild returns, not one that merely catches up
// whenever the poll loop next gets to it. It takes the same row lock the
// worker loop uses, so a concurrently-running worker for this projection
// backs off instead of double-processing events during the rebuild.
func (m *ProjectionManager) Rebuild(ctx context.Context, name string) error {
	var target Projection
	for _, p := range m.projections {
		if p.Name() == name {
			target = p
			break
		}
	}
	if target == nil {
		return fmt.Errorf("projection %q not registered", name)
	}

	acquired, err := m.acquireLock(ctx, name)
	if err != nil {
		return fmt.Errorf("acquire lock for rebuild of %q: %w", name, err)
	}
	if !acquired {
		return fmt.Errorf("rebuild %q: lock held by another worker", name)
	}

	if resettable, ok := target.(Resettable); ok {
		if err := resettable.Reset(ctx); err != nil {
			return fmt.Errorf("reset projection %q: %w", name, err)
		}
	}
	err = m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "status", "last_error", "updated_at"}),
		}).
		Create(&ProjectionState{Name: name, Position: 0, Status: ProjectionStopped, UpdatedAt: time.Now()}).Error
	if err != nil {
		return fmt.Errorf("reset projection state %q: %w", name, err)
	}

	for {
		processed, err := m.processBatch(ctx, target)
		if err != nil {
			m.setStatus(ctx, name, ProjectionError, err.Error())
			return fmt.Errorf("rebuild projection %q: %w", name, err)
		}
		if processed < m.batchSize {
			break
		}
	}

	m.setStatus(ctx, name, ProjectionRunning, "")
	return nil
}

func (m *ProjectionManager) runWorker(ctx context.Context, p Projection) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		acquired, err := m.acquireLock(ctx, p.Name())
		if err != nil {
			m.logger.Error("projection lock acquisition failed", "projection", p.Name(), "error", err)
			m.sleep(ctx, m.pollInterval)
			continue
		}
		if !acquired {
			m.sleep(ctx, m.pollInterval)
			continue
		}

		processed, err := m.processBatch(ctx, p)
		if err != nil {
			m.logger.Error("projection batch failed", "projection", p.Name(), "error", err)
			m.setStatus(ctx, p.Name(), ProjectionError, err.Error())
			m.sleep(ctx, m.pollInterval)
			continue
		}
		m.setStatus(ctx, p.Name(), ProjectionRunning, "")

		if processed == 0 {
			m.sleep(ctx, m.pollInterval)
		}
	}
}

func (m *ProjectionManager) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// acquireLock takes the projection's row lock if unheld or expired, and
// extends it if this worker already holds it.
func (m *ProjectionManager) acquireLock(ctx context.Context, name string) (bool, error) {
	now := time.Now()
	expires := now.Add(m.lockTTL)

	result := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"owner":      m.workerID,
				"expires_at": expires,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("projection_locks.expires_at < ? OR projection_locks.owner = ?", now, m.workerID),
			}},
		}).
		Create(&ProjectionLock{Name: name, Owner: m.workerID, ExpiresAt: expires})
	if result.Error != nil {
		return false, result.Error
	}

	var lock ProjectionLock
	if err := m.db.WithContext(ctx).First(&lock, ProjectionLock{Name: name}).Error; err != nil {
		return false, err
	}
	return lock.Owner == m.workerID && lock.ExpiresAt.After(now), nil
}

func (m *ProjectionManager) processBatch(ctx context.Context, p Projection) (int, error) {
	var state ProjectionState
	err := m.db.WithContext(ctx).First(&state, ProjectionState{Name: p.Name()}).Error
	if err == gorm.ErrRecordNotFound {
		state = ProjectionState{Name: p.Name(), Position: 0, Status: ProjectionStopped}
	} else if err != nil {
		return 0, fmt.Errorf("load projection state: %w", err)
	}

	types := p.EventTypes()
	envelopes, err := m.store.ReadSince(ctx, state.Position, m.batchSize, nil)
	if err != nil {
		return 0, fmt.Errorf("read since %d: %w", state.Position, err)
	}

	applied := 0
	for _, envelope := range envelopes {
		if len(types) > 0 && !containsString(types, envelope.Event().EventType()) {
			state.Position = envelope.Position()
			continue
		}
		if err := p.Apply(ctx, envelope); err != nil {
			return applied, fmt.Errorf("apply event %s to %s: %w", envelope.EventID(), p.Name(), err)
		}
		state.Position = envelope.Position()
		applied++
	}

	if len(envelopes) > 0 {
		state.Status = ProjectionRunning
		state.UpdatedAt = time.Now()
		if err := m.db.WithContext(ctx).Save(&state).Error; err != nil {
			return applied, fmt.Errorf("checkpoint projection %s: %w", p.Name(), err)
		}
	}

	return len(envelopes), nil
}

func (m *ProjectionManager) setStatus(ctx context.Context, name string, status ProjectionStatus, lastErr string) {
	m.db.WithContext(ctx).Model(&ProjectionState{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{"status": status, "last_error": lastErr, "updated_at": time.Now()})
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
