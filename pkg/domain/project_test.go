package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject_RequiresOwnerOrg(t *testing.T) {
	ctx := context.Background()

	_, err := NewProject(ctx, "inst-1", "proj-1", "Website", "website", "")
	assert.IsType(t, ValidationError{}, err)

	p, err := NewProject(ctx, "inst-1", "proj-1", "Website", "website", "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Website", p.Name())
	assert.Equal(t, "website", p.Slug())
	assert.Equal(t, "org-1", p.Owner())
}

func TestProject_LifecycleTransitions(t *testing.T) {
	ctx := context.Background()
	p, err := NewProject(ctx, "inst-1", "proj-1", "Website", "website", "org-1")
	require.NoError(t, err)
	p.MarkEventsAsCommitted()

	require.NoError(t, p.Rename(ctx, "Marketing Site"))
	require.NoError(t, p.AddMember(ctx, "user-1", "editor"))
	require.NoError(t, p.Deactivate(ctx, "archived"))

	err = p.Rename(ctx, "Should Fail")
	assert.IsType(t, NotActiveError{}, err)

	require.NoError(t, p.Reactivate(ctx))
	require.NoError(t, p.Delete(ctx))
	assert.Equal(t, StateDeleted, p.State())

	err = p.Delete(ctx)
	assert.IsType(t, NotActiveError{}, err)
}

func TestLoadProjectFromHistory_ReconstructsState(t *testing.T) {
	ctx := context.Background()
	p, err := NewProject(ctx, "inst-1", "proj-1", "Website", "website", "org-1")
	require.NoError(t, err)
	require.NoError(t, p.Rename(ctx, "Marketing Site"))

	events := p.UncommittedEvents()
	replay := LoadProjectFromHistory("proj-1", events)
	assert.Equal(t, "Marketing Site", replay.Name())
	assert.Equal(t, "org-1", replay.Owner())
	assert.Equal(t, int64(2), replay.Version())
}
