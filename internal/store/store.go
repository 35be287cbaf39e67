// Package store provides the local SQLite todo store.
//
// The database runs embedded (ncruces/go-sqlite3) with WAL mode so the CLI
// and a concurrently running sync can read while a write is in flight.
// Every mutation is its own durable transaction: a crash between calls
// leaves completed writes visible and nothing half-applied.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"todosync/internal/task"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when a task id does not exist in the store.
var ErrNotFound = errors.New("task not found")

// Store wraps the SQLite database holding the local todo table.
type Store struct {
	conn *sql.DB
	path string
}

// Open creates a new database connection at the specified path.
//
// The database is opened in embedded mode with WAL for concurrent reads.
// If the database doesn't exist, it is created; call InitSchema before
// first use. The caller MUST call Close() when done.
//
// Example:
//
//	st, err := store.Open("~/.config/todosync/todos.db")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
func Open(path string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	st := &Store{
		conn: conn,
		path: path,
	}

	// Enable WAL mode for concurrent reads
	if _, err := st.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set busy timeout to 5 seconds
	if _, err := st.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return st, nil
}

// Close closes the database connection.
// Performs a WAL checkpoint to ensure all changes are persisted.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	if _, err := s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.conn = nil
	return nil
}

// InitSchema creates the todos table if it doesn't exist.
// This is idempotent - safe to call multiple times.
func (s *Store) InitSchema() error {
	return s.InitSchemaContext(context.Background())
}

// InitSchemaContext creates the schema with context support.
func (s *Store) InitSchemaContext(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,  -- epoch milliseconds
		synced INTEGER NOT NULL DEFAULT 0,
		remote_id TEXT,
		reminder_at INTEGER,          -- epoch milliseconds
		notification_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_todos_created ON todos(created_at);
	CREATE INDEX IF NOT EXISTS idx_todos_synced ON todos(synced);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_todos_remote ON todos(remote_id) WHERE remote_id IS NOT NULL;
	`

	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Insert adds a new task and returns it with the assigned local id.
func (s *Store) Insert(t task.Task) (task.Task, error) {
	return s.InsertContext(context.Background(), t)
}

// InsertContext adds a new task with context support.
func (s *Store) InsertContext(ctx context.Context, t task.Task) (task.Task, error) {
	if err := t.Validate(); err != nil {
		return task.Task{}, fmt.Errorf("invalid task: %w", err)
	}

	query := `
	INSERT INTO todos (title, completed, created_at, synced, remote_id, reminder_at, notification_id)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.conn.ExecContext(ctx, query,
		t.Title,
		boolToInt(t.Completed),
		t.CreatedAt.UnixMilli(),
		boolToInt(t.Synced),
		emptyToNullString(t.RemoteID),
		timeToNullMillis(t.ReminderAt),
		emptyToNullString(t.NotificationID),
	)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to read inserted id: %w", err)
	}

	t.LocalID = id
	return t, nil
}

// TaskUpdate describes a partial field update. Nil pointer fields are left
// untouched; the Clear flags set the corresponding nullable column to NULL
// and are ignored when the matching pointer field is also set.
//
// CreatedAt is deliberately absent: it is immutable after insert.
type TaskUpdate struct {
	Title               *string
	Completed           *bool
	Synced              *bool
	RemoteID            *string
	ReminderAt          *time.Time
	ClearReminder       bool
	NotificationID      *string
	ClearNotificationID bool
}

// Update applies a partial update to the task with the given local id.
// Returns ErrNotFound if the id does not exist, and nil without touching
// the database when the update is empty.
func (s *Store) Update(id int64, u TaskUpdate) error {
	return s.UpdateContext(context.Background(), id, u)
}

// UpdateContext applies a partial update with context support.
func (s *Store) UpdateContext(ctx context.Context, id int64, u TaskUpdate) error {
	var sets []string
	var args []interface{}

	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*u.Completed))
	}
	if u.Synced != nil {
		sets = append(sets, "synced = ?")
		args = append(args, boolToInt(*u.Synced))
	}
	if u.RemoteID != nil {
		sets = append(sets, "remote_id = ?")
		args = append(args, *u.RemoteID)
	}
	if u.ReminderAt != nil {
		sets = append(sets, "reminder_at = ?")
		args = append(args, u.ReminderAt.UnixMilli())
	} else if u.ClearReminder {
		sets = append(sets, "reminder_at = NULL")
	}
	if u.NotificationID != nil {
		sets = append(sets, "notification_id = ?")
		args = append(args, *u.NotificationID)
	} else if u.ClearNotificationID {
		sets = append(sets, "notification_id = NULL")
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE todos SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}

	return nil
}

// Delete removes a task from the store.
// Returns nil if the task doesn't exist (idempotent).
func (s *Store) Delete(id int64) error {
	return s.DeleteContext(context.Background(), id)
}

// DeleteContext removes a task with context support.
func (s *Store) DeleteContext(ctx context.Context, id int64) error {
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return nil
}

// Get retrieves a single task by local id.
// Returns ErrNotFound if the task does not exist.
func (s *Store) Get(id int64) (task.Task, error) {
	return s.GetContext(context.Background(), id)
}

// GetContext retrieves a single task with context support.
func (s *Store) GetContext(ctx context.Context, id int64) (task.Task, error) {
	row := s.conn.QueryRowContext(ctx, selectColumns+" FROM todos WHERE id = ?", id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return t, nil
}

// List returns all tasks ordered by creation time descending.
func (s *Store) List() ([]task.Task, error) {
	return s.ListContext(context.Background())
}

// ListContext returns all tasks with context support.
func (s *Store) ListContext(ctx context.Context) ([]task.Task, error) {
	query := selectColumns + " FROM todos ORDER BY created_at DESC, id DESC"

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

const selectColumns = "SELECT id, title, completed, created_at, synced, remote_id, reminder_at, notification_id"

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t          task.Task
		completed  int
		synced     int
		createdAt  int64
		remoteID   sql.NullString
		reminderAt sql.NullInt64
		notifID    sql.NullString
	)

	err := row.Scan(&t.LocalID, &t.Title, &completed, &createdAt, &synced, &remoteID, &reminderAt, &notifID)
	if err != nil {
		return task.Task{}, err
	}

	t.Completed = completed != 0
	t.Synced = synced != 0
	t.CreatedAt = time.UnixMilli(createdAt)
	t.RemoteID = remoteID.String
	t.NotificationID = notifID.String
	if reminderAt.Valid {
		at := time.UnixMilli(reminderAt.Int64)
		t.ReminderAt = &at
	}

	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptyToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func timeToNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}
