package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lanwire/chathub-server/internal/store"
)

const (
	// DefaultChannelID is where a fresh session lands.
	DefaultChannelID = "genel"
	// EntryExitChannelID carries arrival and departure announcements.
	EntryExitChannelID = "giris"

	defaultCategory = "GENEL"
	maxSlugLen      = 32
)

// Directory is the ordered catalog of channels grouped into categories.
type Directory struct {
	channels store.ChannelStore
}

// NewDirectory constructs a directory over the given channel store.
func NewDirectory(channels store.ChannelStore) *Directory {
	return &Directory{channels: channels}
}

// List returns channels and categories in insertion order.
func (d *Directory) List(ctx context.Context) ([]*store.Channel, []string, error) {
	channels, err := d.channels.ListChannels(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list channels: %w", err)
	}
	categories, err := d.channels.ListCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}
	return channels, categories, nil
}

// CreateChannel slugifies name into an id and inserts the channel. An id
// collision is a no-op (created=false). The category is created implicitly.
func (d *Directory) CreateChannel(ctx context.Context, actor *store.Account, name, category string) (*store.Channel, bool, error) {
	if !actor.IsPrivileged() {
		return nil, false, coreError(ErrCodeUnauthorized, "only privileged users can create channels")
	}

	id := Slugify(name)
	if id == "" {
		return nil, false, coreError(ErrCodeValidation, "channel name is empty after normalization")
	}

	category = strings.ToUpper(strings.TrimSpace(category))
	if category == "" {
		category = defaultCategory
	}

	ch := &store.Channel{ID: id, Name: name, Category: category}
	if err := d.channels.CreateChannel(ctx, ch); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			existing, getErr := d.channels.GetChannel(ctx, id)
			if getErr != nil {
				return nil, false, fmt.Errorf("get colliding channel: %w", getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create channel: %w", err)
	}

	if err := d.channels.CreateCategory(ctx, category); err != nil {
		return nil, false, fmt.Errorf("create category: %w", err)
	}
	return ch, true, nil
}

// CreateCategory registers a category explicitly; no-op if it exists.
func (d *Directory) CreateCategory(ctx context.Context, actor *store.Account, name string) error {
	if !actor.IsPrivileged() {
		return coreError(ErrCodeUnauthorized, "only privileged users can create categories")
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return coreError(ErrCodeValidation, "category name is empty")
	}
	if err := d.channels.CreateCategory(ctx, name); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// DeleteChannel removes a non-protected channel. When no remaining channel
// references the deleted channel's category, the category goes too.
func (d *Directory) DeleteChannel(ctx context.Context, actor *store.Account, id string) error {
	if !actor.IsPrivileged() {
		return coreError(ErrCodeUnauthorized, "only privileged users can delete channels")
	}

	ch, err := d.channels.GetChannel(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return coreError(ErrCodeNotFound, "channel not found")
		}
		return fmt.Errorf("get channel: %w", err)
	}
	if ch.Protected {
		return coreError(ErrCodeProtected, "protected channels cannot be deleted")
	}

	if err := d.channels.DeleteChannel(ctx, id); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}

	remaining, err := d.channels.ListChannels(ctx)
	if err != nil {
		return fmt.Errorf("list channels: %w", err)
	}
	for _, c := range remaining {
		if c.Category == ch.Category {
			return nil
		}
	}
	if err := d.channels.DeleteCategory(ctx, ch.Category); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Slugify turns a display name into a URL-safe channel id: lowercase,
// whitespace collapsed to hyphens, non-alphanumerics dropped, length-capped.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	return strings.TrimRight(b.String(), "-")
}
