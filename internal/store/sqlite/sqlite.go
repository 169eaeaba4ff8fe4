package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lanwire/chathub-server/internal/store"
)

// SQLiteStore implements store.Store for SQLite. It is the durable substitute
// for the in-memory reference store.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	username        TEXT PRIMARY KEY,
	credential_hash TEXT NOT NULL,
	glyph           TEXT NOT NULL DEFAULT '',
	bio             TEXT NOT NULL DEFAULT '',
	role            TEXT NOT NULL DEFAULT 'user',
	color           TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	seq             INTEGER
);
CREATE TABLE IF NOT EXISTS channels (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	category  TEXT NOT NULL,
	protected BOOLEAN NOT NULL DEFAULT 0,
	seq       INTEGER
);
CREATE TABLE IF NOT EXISTS categories (
	name TEXT PRIMARY KEY,
	seq  INTEGER
);
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	channel_id TEXT NOT NULL,
	author     TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	seq        INTEGER
);
CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages(channel_id, seq);
CREATE TABLE IF NOT EXISTS tickets (
	id         TEXT PRIMARY KEY,
	author     TEXT NOT NULL,
	body       TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	seq        INTEGER
);
`

// New opens (and if needed creates) a SQLite-backed store at dbPath.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nextSeq assigns insertion order inside one table. SQLite's rowid would be
// reused after deletes; an explicit counter keeps the ordering stable.
func (s *SQLiteStore) nextSeq(ctx context.Context, table string) (int64, error) {
	var seq sql.NullInt64
	query := fmt.Sprintf("SELECT MAX(seq) FROM %s", table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next seq for %s: %w", table, err)
	}
	return seq.Int64 + 1, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ==== AccountStore implementation ====

func (s *SQLiteStore) CreateAccount(ctx context.Context, acc *store.Account) error {
	seq, err := s.nextSeq(ctx, "accounts")
	if err != nil {
		return err
	}
	query := `
		INSERT INTO accounts (username, credential_hash, glyph, bio, role, color, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		acc.Username, acc.CredentialHash, acc.Glyph, acc.Bio, string(acc.Role), acc.Color, acc.CreatedAt, seq)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAccount(ctx context.Context, username string) (*store.Account, error) {
	query := `
		SELECT username, credential_hash, glyph, bio, role, color, created_at
		FROM accounts
		WHERE username = ?
	`
	return scanAccount(s.db.QueryRowContext(ctx, query, username))
}

func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]*store.Account, error) {
	query := `
		SELECT username, credential_hash, glyph, bio, role, color, created_at
		FROM accounts
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*store.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateAccount(ctx context.Context, acc *store.Account) error {
	query := `
		UPDATE accounts
		SET credential_hash = ?, glyph = ?, bio = ?, role = ?, color = ?
		WHERE username = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		acc.CredentialHash, acc.Glyph, acc.Bio, string(acc.Role), acc.Color, acc.Username)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) RenameAccount(ctx context.Context, oldname, newname string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET username = ? WHERE username = ?`, newname, oldname)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("rename account: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteAccount(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res)
}

// ==== ChannelStore implementation ====

func (s *SQLiteStore) CreateChannel(ctx context.Context, ch *store.Channel) error {
	seq, err := s.nextSeq(ctx, "channels")
	if err != nil {
		return err
	}
	query := `
		INSERT INTO channels (id, name, category, protected, seq)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query, ch.ID, ch.Name, ch.Category, ch.Protected, seq)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetChannel(ctx context.Context, id string) (*store.Channel, error) {
	query := `SELECT id, name, category, protected FROM channels WHERE id = ?`

	ch := &store.Channel{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&ch.ID, &ch.Name, &ch.Category, &ch.Protected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return ch, nil
}

func (s *SQLiteStore) ListChannels(ctx context.Context) ([]*store.Channel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, protected FROM channels ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var out []*store.Channel
	for rows.Next() {
		ch := &store.Channel{}
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Category, &ch.Protected); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteChannel(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, name string) error {
	seq, err := s.nextSeq(ctx, "categories")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO categories (name, seq) VALUES (?, ?)`, name, seq)
	if isUniqueViolation(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

// ==== MessageStore implementation ====

func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	seq, err := s.nextSeq(ctx, "messages")
	if err != nil {
		return err
	}
	query := `
		INSERT INTO messages (id, channel_id, author, body, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		msg.ID, msg.ChannelID, msg.Author, msg.Body, msg.CreatedAt, seq)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (*store.Message, error) {
	query := `SELECT id, channel_id, author, body, created_at FROM messages WHERE id = ?`

	msg := &store.Message{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID, &msg.ChannelID, &msg.Author, &msg.Body, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context, channelID string) ([]*store.Message, error) {
	query := `
		SELECT id, channel_id, author, body, created_at
		FROM messages
		WHERE channel_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*store.Message
	for rows.Next() {
		msg := &store.Message{}
		if err := rows.Scan(&msg.ID, &msg.ChannelID, &msg.Author, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return requireRow(res)
}

// ==== TicketStore implementation ====

func (s *SQLiteStore) SaveTicket(ctx context.Context, t *store.Ticket) error {
	seq, err := s.nextSeq(ctx, "tickets")
	if err != nil {
		return err
	}
	query := `
		INSERT INTO tickets (id, author, body, status, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query, t.ID, t.Author, t.Body, string(t.Status), t.CreatedAt, seq)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTicket(ctx context.Context, id string) (*store.Ticket, error) {
	query := `SELECT id, author, body, status, created_at FROM tickets WHERE id = ?`

	t := &store.Ticket{}
	var status string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Author, &t.Body, &status, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	t.Status = store.TicketStatus(status)
	return t, nil
}

func (s *SQLiteStore) ListTickets(ctx context.Context) ([]*store.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, body, status, created_at FROM tickets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var out []*store.Ticket
	for rows.Next() {
		t := &store.Ticket{}
		var status string
		if err := rows.Scan(&t.ID, &t.Author, &t.Body, &status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.Status = store.TicketStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateTicketStatus(ctx context.Context, id string, status store.TicketStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tickets SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	return requireRow(res)
}

// ==== helpers ====

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*store.Account, error) {
	acc := &store.Account{}
	var role string
	var createdAt time.Time
	err := row.Scan(&acc.Username, &acc.CredentialHash, &acc.Glyph, &acc.Bio, &role, &acc.Color, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	acc.Role = store.Role(role)
	acc.CreatedAt = createdAt
	return acc, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
