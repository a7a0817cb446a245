package postgres

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Storage struct {
	Pool    *pgxpool.Pool
	timeout time.Duration
}

type Options struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	MaxConns     int32
	QueryTimeout time.Duration
}

func NewPostgresPool(ctx context.Context, opts Options) (*Storage, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", opts.User, opts.Password, opts.Host, opts.Port, opts.DBName)
	return connect(ctx, connStr, opts)
}

func connect(ctx context.Context, connStr string, opts Options) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Storage{Pool: pool, timeout: opts.QueryTimeout}, nil
}

func (p *Storage) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

func (p *Storage) Repositories() storage.Repositories {
	return storage.Repositories{
		Courses:     NewCoursePostgres(p.Pool, p.timeout),
		Content:     NewContentPostgres(p.Pool, p.timeout),
		Enrollments: NewEnrollmentPostgres(p.Pool, p.timeout),
		Progress:    NewProgressPostgres(p.Pool, p.timeout),
		Ratings:     NewCourseRatingPostgres(p.Pool, p.timeout),
		Close:       p.Close,
	}
}

func UnwrapPgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// classify turns timeouts and connection failures into retryable upstream
// errors and leaves everything else untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var connErr *pgconn.ConnectError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		pgconn.Timeout(err),
		pgconn.SafeToRetry(err),
		errors.As(err, &connErr):
		return app_errors.Upstream(err)
	}
	return err
}
