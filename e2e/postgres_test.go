package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce    sync.Once
	pgDSN     string
	pgErr     error
	pgCleanup = func() {}
)

// getSharedPostgresDatabase returns the DSN of a PostgreSQL container shared
// by all E2E tests. TestMain terminates the container.
func getSharedPostgresDatabase(t *testing.T) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("privmedia"),
			pgcontainer.WithUsername("privmedia"),
			pgcontainer.WithPassword("privmedia"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = err
			return
		}
		pgCleanup = func() {
			_ = testcontainers.TerminateContainer(pgContainer)
		}

		dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			pgErr = err
			return
		}

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			pgErr = err
			return
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			pgErr = err
			return
		}

		pgDSN = dsn
	})

	if pgErr != nil {
		t.Fatalf("postgres container: %v", pgErr)
	}

	return pgDSN
}
