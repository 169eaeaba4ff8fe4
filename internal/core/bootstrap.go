package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lanwire/chathub-server/internal/store"
)

// bootstrapChannels is the fixed protected set that exists at process start.
// EntryExitChannelID carries arrival/departure announcements; DefaultChannelID
// is where fresh sessions land.
var bootstrapChannels = []store.Channel{
	{ID: "genel", Name: "genel-sohbet", Category: "GENEL", Protected: true},
	{ID: "duyuru", Name: "duyurular", Category: "GENEL", Protected: true},
	{ID: "giris", Name: "giris-cikis", Category: "SISTEM", Protected: true},
	{ID: "destek", Name: "destek-talepleri", Category: "SISTEM", Protected: true},
}

// Seed creates the bootstrap channels, categories, and the privileged admin
// account if they do not exist yet. Safe to call on every start; a durable
// store keeps what it already has.
func Seed(ctx context.Context, st store.Store, adminUsername, adminCredentialHash string) error {
	for _, ch := range bootstrapChannels {
		c := ch
		if err := st.CreateChannel(ctx, &c); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("seed channel %s: %w", ch.ID, err)
		}
		if err := st.CreateCategory(ctx, ch.Category); err != nil {
			return fmt.Errorf("seed category %s: %w", ch.Category, err)
		}
	}

	admin := &store.Account{
		Username:       adminUsername,
		CredentialHash: adminCredentialHash,
		Glyph:          "#",
		Bio:            "Founder of the system",
		Role:           store.RolePrivileged,
		Color:          "#000000",
		CreatedAt:      time.Now(),
	}
	if err := st.CreateAccount(ctx, admin); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("seed admin account: %w", err)
	}
	return nil
}
