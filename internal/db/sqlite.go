package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS signup_documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		collection TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_signup_documents_collection ON signup_documents (collection, seq)`,
}

// SQLiteStore is the single file variant of PostgresStore
type SQLiteStore struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewSQLiteStore opens (or creates) the database at path and creates the schema.
// ":memory:" gives a private in-process database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer; for :memory: every connection would otherwise see its own database
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}

	return &SQLiteStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func (s *SQLiteStore) InsertOne(ctx context.Context, ns Namespace, doc Document) error {
	body, err := jsonBody(doc)
	if err != nil {
		return err
	}

	query, args, err := s.sb.Insert(documentsTable).
		Columns("id", "collection", "body", "created_at").
		Values(doc.DocumentID(), ns.String(), body, doc.CreatedTime().UTC().Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", ns, err)
	}
	return nil
}

func (s *SQLiteStore) FindAll(ctx context.Context, ns Namespace, results any) error {
	query, args, err := s.sb.Select("body").
		From(documentsTable).
		Where(squirrel.Eq{"collection": ns.String()}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("find in %s: %w", ns, err)
	}
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return fmt.Errorf("scan %s: %w", ns, err)
		}
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", ns, err)
	}

	return decodeBodies(bodies, results)
}

func (s *SQLiteStore) NewID() string {
	return uuid.NewString()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close(_ context.Context) error {
	return s.db.Close()
}

func jsonBody(doc Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(b), nil
}
