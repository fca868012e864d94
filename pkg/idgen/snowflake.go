// Package idgen generates 64-bit, time-ordered identifiers following the
// Snowflake layout: a 41-bit millisecond timestamp (relative to a
// configurable epoch), a 10-bit machine ID, and a 12-bit per-millisecond
// sequence. IDs fit in a signed int64 and are rendered as base-10 strings
// for transport, per the ID generator component's contract.
package idgen

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	machineIDBits = 10
	sequenceBits  = 12

	maxMachineID = (1 << machineIDBits) - 1
	maxSequence  = (1 << sequenceBits) - 1

	timestampShift = machineIDBits + sequenceBits
	machineIDShift = sequenceBits
)

// Generator issues Snowflake-style IDs for one machine ID. It is safe for
// concurrent use; callers typically construct one process-wide instance at
// startup from config.
type Generator struct {
	mu            sync.Mutex
	epochMs       int64
	machineID     int64
	lastTimestamp int64
	sequence      int64
}

// NewGenerator creates a Generator for machineID (must be in [0, 1023])
// using epochMs as the zero point for the timestamp component.
func NewGenerator(machineID, epochMs int64) (*Generator, error) {
	if machineID < 0 || machineID > maxMachineID {
		return nil, fmt.Errorf("machine id must be in [0, %d], got %d", maxMachineID, machineID)
	}
	return &Generator{
		epochMs:       epochMs,
		machineID:     machineID,
		lastTimestamp: -1,
	}, nil
}

// Next returns the next ID as an int64. It blocks briefly if the clock has
// not advanced since the last call and the per-millisecond sequence has
// been exhausted.
func (g *Generator) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := nowMs()
	if now < g.lastTimestamp {
		return 0, fmt.Errorf("clock moved backwards: refusing to generate id for %dms", g.lastTimestamp-now)
	}

	if now == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			now = waitForNextMillis(g.lastTimestamp)
		}
	} else {
		g.sequence = 0
	}
	g.lastTimestamp = now

	id := ((now - g.epochMs) << timestampShift) |
		(g.machineID << machineIDShift) |
		g.sequence
	return id, nil
}

// NextString returns the next ID rendered as a base-10 string, the
// transport encoding every wire format uses to keep IDs opaque JSON
// strings rather than numbers that can silently lose precision.
func (g *Generator) NextString() (string, error) {
	id, err := g.Next()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

func nowMs() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func waitForNextMillis(last int64) int64 {
	now := nowMs()
	for now <= last {
		time.Sleep(100 * time.Microsecond)
		now = nowMs()
	}
	return now
}

// Decompose splits id back into its timestamp (as a time.Time, using
// epochMs as the reference point), machine ID, and sequence components.
// Useful for tests and diagnostics.
func Decompose(id, epochMs int64) (timestamp time.Time, machineID, sequence int64) {
	sequence = id & maxSequence
	machineID = (id >> machineIDShift) & maxMachineID
	ts := (id >> timestampShift) + epochMs
	timestamp = time.UnixMilli(ts)
	return
}
