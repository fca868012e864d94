package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrganization_ValidatesNameAndSlug(t *testing.T) {
	ctx := context.Background()

	_, err := NewOrganization(ctx, "inst-1", "org-1", "", "acme")
	assert.IsType(t, ValidationError{}, err)

	_, err = NewOrganization(ctx, "inst-1", "org-1", "Acme Corp", "Not A Slug")
	assert.IsType(t, ValidationError{}, err)

	o, err := NewOrganization(ctx, "inst-1", "org-1", "Acme Corp", "acme-corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", o.Name())
	assert.Equal(t, "acme-corp", o.Slug())
	assert.Equal(t, StateActive, o.State())
}

func TestOrganization_RenameRejectsNoChange(t *testing.T) {
	ctx := context.Background()
	o, err := NewOrganization(ctx, "inst-1", "org-1", "Acme Corp", "acme-corp")
	require.NoError(t, err)
	o.MarkEventsAsCommitted()

	err = o.Rename(ctx, "Acme Corp")
	assert.IsType(t, NoChangesError{}, err)

	require.NoError(t, o.Rename(ctx, "Acme Corporation"))
	assert.Equal(t, "Acme Corporation", o.Name())
}

func TestOrganization_MembershipRequiresActiveState(t *testing.T) {
	ctx := context.Background()
	o, err := NewOrganization(ctx, "inst-1", "org-1", "Acme Corp", "acme-corp")
	require.NoError(t, err)

	err = o.AddMember(ctx, "", "admin")
	assert.IsType(t, ValidationError{}, err)

	require.NoError(t, o.AddMember(ctx, "user-1", "admin"))
	require.NoError(t, o.RemoveMember(ctx, "user-1"))

	require.NoError(t, o.Deactivate(ctx, "suspended"))
	err = o.AddMember(ctx, "user-2", "member")
	assert.IsType(t, NotActiveError{}, err)
}

func TestLoadOrganizationFromHistory_ReconstructsState(t *testing.T) {
	ctx := context.Background()
	o, err := NewOrganization(ctx, "inst-1", "org-1", "Acme Corp", "acme-corp")
	require.NoError(t, err)
	require.NoError(t, o.Rename(ctx, "Acme Corporation"))
	require.NoError(t, o.AddMember(ctx, "user-1", "owner"))

	events := o.UncommittedEvents()
	replay := LoadOrganizationFromHistory("org-1", events)
	assert.Equal(t, "Acme Corporation", replay.Name())
	assert.Equal(t, "acme-corp", replay.Slug())
	assert.Equal(t, int64(3), replay.Version())
	assert.Equal(t, StateActive, replay.State())
}
