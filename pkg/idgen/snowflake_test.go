package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_RejectsOutOfRangeMachineID(t *testing.T) {
	_, err := NewGenerator(-1, 0)
	assert.Error(t, err)

	_, err = NewGenerator(1024, 0)
	assert.Error(t, err)

	_, err = NewGenerator(1023, 0)
	assert.NoError(t, err)
}

func TestGenerator_NextIsMonotonicAndUnique(t *testing.T) {
	gen, err := NewGenerator(7, 1700000000000)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	var previous int64
	for i := 0; i < 5000; i++ {
		id, err := gen.Next()
		require.NoError(t, err)
		assert.False(t, seen[id], "id %d generated twice", id)
		seen[id] = true
		assert.Greater(t, id, previous)
		previous = id
	}
}

func TestGenerator_NextStringIsDecimal(t *testing.T) {
	gen, err := NewGenerator(3, 1700000000000)
	require.NoError(t, err)

	s, err := gen.NextString()
	require.NoError(t, err)
	assert.NotEmpty(t, s)
	assert.NotContains(t, s, "-")
}

func TestDecompose_RoundTripsMachineID(t *testing.T) {
	epoch := int64(1700000000000)
	gen, err := NewGenerator(42, epoch)
	require.NoError(t, err)

	id, err := gen.Next()
	require.NoError(t, err)

	_, machineID, _ := Decompose(id, epoch)
	assert.Equal(t, int64(42), machineID)
}
