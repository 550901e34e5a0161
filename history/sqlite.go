package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/logging"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/migrations"
)

// SQLiteOptions configures a SQLiteRepository.
type SQLiteOptions struct {
	// Logger for slow-path diagnostics. Defaults to NoOp if nil.
	Logger logging.Logger
}

// SQLiteRepository is a durable ChatHistoryRepository backed by SQLite.
// Schema is managed by embedded migrations applied at construction time.
type SQLiteRepository struct {
	db     *sqlx.DB
	logger logging.Logger
}

var _ core.ChatHistoryRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (or creates) the database at dsn and applies
// pending migrations.
func NewSQLiteRepository(dsn string, optFns ...func(o *SQLiteOptions)) (*SQLiteRepository, error) {
	opts := SQLiteOptions{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db, logger: opts.Logger}, nil
}

func runMigrations(db *sqlx.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error { return r.db.Close() }

type messageRow struct {
	MessageID            string         `db:"message_id"`
	UserID               string         `db:"user_id"`
	ThreadID             string         `db:"thread_id"`
	Role                 string         `db:"role"`
	Content              string         `db:"content"`
	ToolCalls            sql.NullString `db:"tool_calls"`
	ContentFilterResults sql.NullString `db:"content_filter_results"`
	CreatedAt            time.Time      `db:"created_at"`
}

func toRow(msg core.Message) (messageRow, error) {
	row := messageRow{
		MessageID: msg.ID,
		UserID:    msg.UserID,
		ThreadID:  msg.ThreadID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.Timestamp,
	}
	if len(msg.ToolCalls) > 0 {
		data, err := json.Marshal(msg.ToolCalls)
		if err != nil {
			return row, fmt.Errorf("marshal tool calls: %w", err)
		}
		row.ToolCalls = sql.NullString{String: string(data), Valid: true}
	}
	if len(msg.ContentFilterResults) > 0 {
		data, err := json.Marshal(msg.ContentFilterResults)
		if err != nil {
			return row, fmt.Errorf("marshal content filter results: %w", err)
		}
		row.ContentFilterResults = sql.NullString{String: string(data), Valid: true}
	}
	return row, nil
}

func (row messageRow) toMessage() core.Message {
	msg := core.Message{
		ID:        row.MessageID,
		UserID:    row.UserID,
		ThreadID:  row.ThreadID,
		Role:      row.Role,
		Content:   row.Content,
		Timestamp: row.CreatedAt,
	}
	if row.ToolCalls.Valid {
		_ = json.Unmarshal([]byte(row.ToolCalls.String), &msg.ToolCalls)
	}
	if row.ContentFilterResults.Valid {
		_ = json.Unmarshal([]byte(row.ContentFilterResults.String), &msg.ContentFilterResults)
	}
	return msg
}

// GetThreadMessages returns the thread's messages in insertion order.
func (r *SQLiteRepository) GetThreadMessages(ctx context.Context, threadID string) ([]core.Message, error) {
	var rows []messageRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT message_id, user_id, thread_id, role, content, tool_calls, content_filter_results, created_at FROM chat_history WHERE thread_id = ? ORDER BY rowid",
		threadID)
	if err != nil {
		return nil, fmt.Errorf("select thread messages: %w", err)
	}
	msgs := make([]core.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.toMessage())
	}
	return msgs, nil
}

// AddMessage inserts a message, assigning an id and timestamp when absent.
func (r *SQLiteRepository) AddMessage(ctx context.Context, msg core.Message) (string, error) {
	fillDefaults(&msg)
	row, err := toRow(msg)
	if err != nil {
		return "", err
	}
	_, err = r.db.NamedExecContext(ctx,
		`INSERT INTO chat_history (message_id, user_id, thread_id, role, content, tool_calls, content_filter_results, created_at)
		 VALUES (:message_id, :user_id, :thread_id, :role, :content, :tool_calls, :content_filter_results, :created_at)`,
		row)
	if err != nil {
		return "", fmt.Errorf("insert message: %w", err)
	}
	return msg.ID, nil
}

// AddMemory inserts a per-turn memory summary.
func (r *SQLiteRepository) AddMemory(ctx context.Context, msg core.Message) (string, error) {
	fillDefaults(&msg)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO chat_memory (memory_id, user_id, thread_id, role, content, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		msg.ID, msg.UserID, msg.ThreadID, msg.Role, msg.Content, msg.Timestamp)
	if err != nil {
		return "", fmt.Errorf("insert memory: %w", err)
	}
	return msg.ID, nil
}

// GetThreadMemories returns the thread's memory summaries in insertion order.
func (r *SQLiteRepository) GetThreadMemories(ctx context.Context, threadID string) ([]core.Message, error) {
	var rows []messageRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT memory_id AS message_id, user_id, thread_id, role, content, '' AS tool_calls, '' AS content_filter_results, created_at FROM chat_memory WHERE thread_id = ? ORDER BY rowid",
		threadID)
	if err != nil {
		return nil, fmt.Errorf("select thread memories: %w", err)
	}
	msgs := make([]core.Message, 0, len(rows))
	for _, row := range rows {
		msg := row.toMessage()
		msg.ToolCalls = nil
		msg.ContentFilterResults = nil
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
