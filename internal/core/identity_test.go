package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwire/chathub-server/internal/store"
	"github.com/lanwire/chathub-server/internal/store/memory"
)

func newIdentity(t *testing.T) (*Identity, *memory.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.CreateAccount(ctx, &store.Account{
		Username: "root", Role: store.RolePrivileged, Glyph: "#", Bio: "founder",
	}))
	require.NoError(t, st.CreateAccount(ctx, &store.Account{
		Username: "alice", Role: store.RoleStandard, Glyph: "A", Bio: "original bio",
	}))
	require.NoError(t, st.CreateAccount(ctx, &store.Account{
		Username: "bob", Role: store.RoleStandard, Glyph: "B",
	}))
	return NewIdentity(st, "root"), st
}

func TestUpdateSelfKeepsEmptyFields(t *testing.T) {
	ctx := context.Background()
	ident, st := newIdentity(t)

	alice, err := st.GetAccount(ctx, "alice")
	require.NoError(t, err)

	updated, err := ident.UpdateSelf(ctx, alice, ProfilePatch{Glyph: "Z"})
	require.NoError(t, err)
	assert.Equal(t, "Z", updated.Glyph)
	assert.Equal(t, "original bio", updated.Bio)
}

func TestUpdatePrivilegedRename(t *testing.T) {
	ctx := context.Background()
	ident, st := newIdentity(t)

	root, err := st.GetAccount(ctx, "root")
	require.NoError(t, err)

	updated, err := ident.UpdatePrivileged(ctx, root, "alice", ProfilePatch{NewUsername: "alicia", Bio: "new bio"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.Equal(t, "new bio", updated.Bio)

	_, err = st.GetAccount(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
	got, err := st.GetAccount(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "new bio", got.Bio)
}

func TestUpdatePrivilegedRenameCollisionLeavesTargetUnchanged(t *testing.T) {
	ctx := context.Background()
	ident, st := newIdentity(t)

	root, err := st.GetAccount(ctx, "root")
	require.NoError(t, err)

	_, err = ident.UpdatePrivileged(ctx, root, "alice", ProfilePatch{
		Bio:         "patched bio",
		Glyph:       "X",
		NewUsername: "bob",
	})
	var ce *CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeDuplicateUsername, ce.Code)

	// The failed request must not have mutated the target at all.
	got, err := st.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "original bio", got.Bio)
	assert.Equal(t, "A", got.Glyph)
}

func TestUpdatePrivilegedRequiresPrivilege(t *testing.T) {
	ctx := context.Background()
	ident, st := newIdentity(t)

	alice, err := st.GetAccount(ctx, "alice")
	require.NoError(t, err)

	_, err = ident.UpdatePrivileged(ctx, alice, "bob", ProfilePatch{Bio: "sneaky"})
	var ce *CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeUnauthorized, ce.Code)
}

func TestRemoveProtectsBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	ident, st := newIdentity(t)

	root, err := st.GetAccount(ctx, "root")
	require.NoError(t, err)

	_, err = ident.Remove(ctx, root, "root")
	var ce *CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeProtected, ce.Code)

	removed, err := ident.Remove(ctx, root, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", removed.Username)
	_, err = st.GetAccount(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
