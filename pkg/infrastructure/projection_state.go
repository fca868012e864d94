package infrastructure

import "time"

// ProjectionStatus is the lifecycle state of a single registered projection.
type ProjectionStatus string

const (
	ProjectionStopped ProjectionStatus = "stopped"
	ProjectionRunning ProjectionStatus = "running"
	ProjectionError   ProjectionStatus = "error"
)

// ProjectionState tracks how far a named projection has consumed the
// eventstore. One row per projection name.
type ProjectionState struct {
	Name        string `gorm:"primaryKey;size:128"`
	Position    int64
	Status      ProjectionStatus `gorm:"size:16"`
	LastError   string           `gorm:"type:text"`
	UpdatedAt   time.Time
}

func (ProjectionState) TableName() string { return "projection_states" }

// ProjectionLock is a row-level, TTL-bounded lock preventing two processes
// from running the same projection worker concurrently. A worker holds the
// lock by repeatedly extending ExpiresAt; a crashed worker's lock simply
// expires and another process can take over.
type ProjectionLock struct {
	Name      string `gorm:"primaryKey;size:128"`
	Owner     string `gorm:"size:128"`
	ExpiresAt time.Time
}

func (ProjectionLock) TableName() string { return "projection_locks" }
