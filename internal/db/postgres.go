package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/signupdesk/internal/app/migrations"
	"github.com/yigit/signupdesk/internal/config"
	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// PostgresStore keeps every namespace in the signup_documents table as JSONB
type PostgresStore struct {
	Pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType

	mu       sync.Mutex
	migrated bool
}

// NewPostgresStore creates a new PostgreSQL connection pool. Connections are
// established on demand; call Ping to check the server is reachable.
func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	pg := cfg.Database.Postgres
	poolConfig.MaxConns = int32(pg.MaxOpenConns)
	poolConfig.MinConns = int32(pg.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(pg.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	if d, err := time.ParseDuration(cfg.Database.ConnectTimeout); err == nil && d > 0 {
		poolConfig.ConnConfig.ConnectTimeout = d
	}

	// Add health check for connections
	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	return &PostgresStore{
		Pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Migrate creates the documents table. It runs at most once successfully per
// store; InsertOne and FindAll call it so a server started while the database
// was down gets its schema on the first request after it comes back.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.migrated {
		return nil
	}
	if err := migrations.NewMigrator(s.Pool).Up(ctx); err != nil {
		return err
	}
	s.migrated = true
	return nil
}

func (s *PostgresStore) InsertOne(ctx context.Context, ns Namespace, doc Document) error {
	if err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("prepare %s: %w", ns, err)
	}

	body, err := jsonBody(doc)
	if err != nil {
		return err
	}

	sql, args, err := s.sb.Insert(documentsTable).
		Columns("id", "collection", "body", "created_at").
		Values(doc.DocumentID(), ns.String(), body, doc.CreatedTime()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := s.Pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", ns, err)
	}
	return nil
}

func (s *PostgresStore) FindAll(ctx context.Context, ns Namespace, results any) error {
	if err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("prepare %s: %w", ns, err)
	}

	sql, args, err := s.sb.Select("body::text").
		From(documentsTable).
		Where(squirrel.Eq{"collection": ns.String()}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := s.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("find in %s: %w", ns, err)
	}
	bodies, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("scan %s: %w", ns, err)
	}

	return decodeBodies(bodies, results)
}

func (s *PostgresStore) NewID() string {
	return uuid.NewString()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *PostgresStore) Close(_ context.Context) error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}
