// Package testenv provides pools connected to a disposable test database.
//
// Tests using this package run against the postgres instance named by the
// ATHENA_TEST_DBURI environment variable and are skipped when it is not
// set. The schema migrations under db/schema are applied once per broaker;
// tables are emptied before each GetPool and after each test.
package testenv

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"

	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	kpgschema "github.com/athena-research/athena/pkg/db/postgres/schema"
)

const DBURIEnvName = "ATHENA_TEST_DBURI"

// tables emptied between tests. schema_version is kept.
var tables = []string{
	"news", "coi", "research_artifact", "directory_entry", "keyword",
	"athena_user", "collection", "feedback", "home_configuration",
	"sync_record",
}

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Cleanup(func() {
		t.Helper()
		ClearTables(ctx, p.pool, t)
	})

	ClearTables(ctx, p.pool, t)
	return kpool.Wrap(p.pool)
}

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

// NewPoolBroaker returns a PoolBroaker backed by the database at
// ATHENA_TEST_DBURI, with migrations applied.
//
// When the variable is not set, t is skipped.
func NewPoolBroaker(ctx context.Context, t *testing.T) PoolBroaker {
	t.Helper()

	dburi := os.Getenv(DBURIEnvName)
	if dburi == "" {
		t.Skipf("%s is not set. skipped.", DBURIEnvName)
	}

	pool, err := pgxpool.Connect(ctx, dburi)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	schema := kpgschema.New(kpool.Wrap(pool), schemaRepository())
	if err := schema.Upgrade(ctx); err != nil {
		t.Fatal(err)
	}

	return &pg{pool: pool}
}

func ClearTables(ctx context.Context, pool *pgxpool.Pool, t *testing.T) {
	t.Helper()
	for _, table := range tables {
		if _, err := pool.Exec(ctx, `TRUNCATE "`+table+`" CASCADE`); err != nil {
			t.Fatal(err)
		}
	}
}

func schemaRepository() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "db", "schema")
}
