package memory

import (
	"context"
	"sync"

	"github.com/lanwire/chathub-server/internal/store"
)

// MemoryStore implements store.Store with process-lifetime maps. This is the
// reference behavior: all state is lost on restart.
type MemoryStore struct {
	mu sync.RWMutex

	accounts     map[string]*store.Account
	accountOrder []string

	channels     map[string]*store.Channel
	channelOrder []string
	categories   []string

	messages     map[string]*store.Message
	messageOrder []string

	tickets     map[string]*store.Ticket
	ticketOrder []string
}

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*store.Account),
		channels: make(map[string]*store.Channel),
		messages: make(map[string]*store.Message),
		tickets:  make(map[string]*store.Ticket),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// ==== AccountStore implementation ====

func (s *MemoryStore) CreateAccount(_ context.Context, acc *store.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[acc.Username]; exists {
		return store.ErrAlreadyExists
	}
	cp := *acc
	s.accounts[acc.Username] = &cp
	s.accountOrder = append(s.accountOrder, acc.Username)
	return nil
}

func (s *MemoryStore) GetAccount(_ context.Context, username string) (*store.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *MemoryStore) ListAccounts(_ context.Context) ([]*store.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Account, 0, len(s.accountOrder))
	for _, username := range s.accountOrder {
		cp := *s.accounts[username]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) UpdateAccount(_ context.Context, acc *store.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[acc.Username]; !ok {
		return store.ErrNotFound
	}
	cp := *acc
	s.accounts[acc.Username] = &cp
	return nil
}

func (s *MemoryStore) RenameAccount(_ context.Context, oldname, newname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[oldname]
	if !ok {
		return store.ErrNotFound
	}
	if _, taken := s.accounts[newname]; taken {
		return store.ErrAlreadyExists
	}

	delete(s.accounts, oldname)
	acc.Username = newname
	s.accounts[newname] = acc
	for i, username := range s.accountOrder {
		if username == oldname {
			s.accountOrder[i] = newname
			break
		}
	}
	return nil
}

func (s *MemoryStore) DeleteAccount(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; !ok {
		return store.ErrNotFound
	}
	delete(s.accounts, username)
	for i, u := range s.accountOrder {
		if u == username {
			s.accountOrder = append(s.accountOrder[:i], s.accountOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ==== ChannelStore implementation ====

func (s *MemoryStore) CreateChannel(_ context.Context, ch *store.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.channels[ch.ID]; exists {
		return store.ErrAlreadyExists
	}
	cp := *ch
	s.channels[ch.ID] = &cp
	s.channelOrder = append(s.channelOrder, ch.ID)
	return nil
}

func (s *MemoryStore) GetChannel(_ context.Context, id string) (*store.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *ch
	return &cp, nil
}

func (s *MemoryStore) ListChannels(_ context.Context) ([]*store.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Channel, 0, len(s.channelOrder))
	for _, id := range s.channelOrder {
		cp := *s.channels[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) DeleteChannel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.channels, id)
	for i, chID := range s.channelOrder {
		if chID == id {
			s.channelOrder = append(s.channelOrder[:i], s.channelOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) CreateCategory(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cat := range s.categories {
		if cat == name {
			return nil
		}
	}
	s.categories = append(s.categories, name)
	return nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cat := range s.categories {
		if cat == name {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// ==== MessageStore implementation ====

func (s *MemoryStore) SaveMessage(_ context.Context, msg *store.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.messages[msg.ID]; exists {
		return store.ErrAlreadyExists
	}
	cp := *msg
	s.messages[msg.ID] = &cp
	s.messageOrder = append(s.messageOrder, msg.ID)
	return nil
}

func (s *MemoryStore) GetMessage(_ context.Context, id string) (*store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

func (s *MemoryStore) ListMessages(_ context.Context, channelID string) ([]*store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*store.Message
	for _, id := range s.messageOrder {
		if msg := s.messages[id]; msg.ChannelID == channelID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteMessage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.messages, id)
	for i, msgID := range s.messageOrder {
		if msgID == id {
			s.messageOrder = append(s.messageOrder[:i], s.messageOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ==== TicketStore implementation ====

func (s *MemoryStore) SaveTicket(_ context.Context, t *store.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tickets[t.ID]; exists {
		return store.ErrAlreadyExists
	}
	cp := *t
	s.tickets[t.ID] = &cp
	s.ticketOrder = append(s.ticketOrder, t.ID)
	return nil
}

func (s *MemoryStore) GetTicket(_ context.Context, id string) (*store.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) ListTickets(_ context.Context) ([]*store.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Ticket, 0, len(s.ticketOrder))
	for _, id := range s.ticketOrder {
		cp := *s.tickets[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) UpdateTicketStatus(_ context.Context, id string, status store.TicketStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = status
	return nil
}
