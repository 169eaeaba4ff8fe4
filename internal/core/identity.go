package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanwire/chathub-server/internal/store"
)

// ProfilePatch carries the mutable display attributes of an account. Empty
// fields keep the current value.
type ProfilePatch struct {
	Glyph       string
	Bio         string
	NewUsername string     // privileged rename
	Role        store.Role // privileged role change
}

// Identity exposes the account mutations of the identity store. Registration
// and verification live in the auth service; everything here assumes an
// already-authenticated actor.
type Identity struct {
	accounts store.AccountStore

	// protectedUsername is the bootstrap super-admin that can never be removed.
	protectedUsername string
}

// NewIdentity constructs the identity service.
func NewIdentity(accounts store.AccountStore, protectedUsername string) *Identity {
	return &Identity{accounts: accounts, protectedUsername: protectedUsername}
}

// UpdateSelf lets an account change its own glyph and biography.
func (i *Identity) UpdateSelf(ctx context.Context, actor *store.Account, patch ProfilePatch) (*store.Account, error) {
	acc, err := i.accounts.GetAccount(ctx, actor.Username)
	if err != nil {
		return nil, coreError(ErrCodeNotFound, "user not found")
	}

	if patch.Glyph != "" {
		acc.Glyph = patch.Glyph
	}
	if patch.Bio != "" {
		acc.Bio = patch.Bio
	}
	if err := i.accounts.UpdateAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return acc, nil
}

// UpdatePrivileged lets a privileged actor patch any account, including
// rename and role change. Rename re-keys the store and fails if the new
// username is taken.
func (i *Identity) UpdatePrivileged(ctx context.Context, actor *store.Account, target string, patch ProfilePatch) (*store.Account, error) {
	if !actor.IsPrivileged() {
		return nil, coreError(ErrCodeUnauthorized, "only privileged users can update other accounts")
	}

	acc, err := i.accounts.GetAccount(ctx, target)
	if err != nil {
		return nil, coreError(ErrCodeNotFound, "user not found")
	}

	// Rename first: a colliding username must reject the whole request
	// before any attribute change lands.
	if patch.NewUsername != "" && patch.NewUsername != target {
		if err := i.accounts.RenameAccount(ctx, target, patch.NewUsername); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, coreError(ErrCodeDuplicateUsername, "username already taken")
			}
			return nil, fmt.Errorf("rename account: %w", err)
		}
		acc.Username = patch.NewUsername
	}

	if patch.Glyph != "" {
		acc.Glyph = patch.Glyph
	}
	if patch.Bio != "" {
		acc.Bio = patch.Bio
	}
	if patch.Role != "" {
		acc.Role = patch.Role
	}
	if err := i.accounts.UpdateAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return acc, nil
}

// Remove deletes an account. Non-privileged actors and attempts against the
// bootstrap super-admin are refused. The removed record is returned so the
// caller can terminate its live sessions.
func (i *Identity) Remove(ctx context.Context, actor *store.Account, target string) (*store.Account, error) {
	if !actor.IsPrivileged() {
		return nil, coreError(ErrCodeUnauthorized, "only privileged users can remove accounts")
	}
	if target == i.protectedUsername {
		return nil, coreError(ErrCodeProtected, "the bootstrap admin account cannot be removed")
	}

	acc, err := i.accounts.GetAccount(ctx, target)
	if err != nil {
		return nil, coreError(ErrCodeNotFound, "user not found")
	}
	if err := i.accounts.DeleteAccount(ctx, target); err != nil {
		return nil, fmt.Errorf("delete account: %w", err)
	}
	return acc, nil
}
