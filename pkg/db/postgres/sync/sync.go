package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	kdb "github.com/athena-research/athena/pkg/db"
	kpgerr "github.com/athena-research/athena/pkg/db/postgres/errors"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
)

// a struct for DB operations related to ingestion bookkeeping
type syncPG struct { // implements kdb.SyncInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *syncPG {
	return &syncPG{pool: pool}
}

var _ kdb.SyncInterface = &syncPG{}

func (m *syncPG) Record(ctx context.Context, record kdb.SyncRecord) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(
		ctx,
		`
		INSERT INTO "sync_record" ("job_name", "last_run_at", "succeeded", "failure_reason")
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ("job_name") DO UPDATE SET
			"last_run_at" = EXCLUDED."last_run_at",
			"succeeded" = EXCLUDED."succeeded",
			"failure_reason" = EXCLUDED."failure_reason"
		`,
		record.JobName, record.LastRunAt, record.Succeeded, record.FailureReason,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *syncPG) Get(ctx context.Context, jobName string) (kdb.SyncRecord, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return kdb.SyncRecord{}, err
	}
	defer conn.Release()

	record := kdb.SyncRecord{JobName: jobName}
	err = conn.QueryRow(
		ctx,
		`
		SELECT "last_run_at", "succeeded", "failure_reason"
		FROM "sync_record" WHERE "job_name" = $1
		`,
		jobName,
	).Scan(&record.LastRunAt, &record.Succeeded, &record.FailureReason)
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.SyncRecord{}, kpgerr.Missing{
			Table: "sync_record", Identity: fmt.Sprintf("job_name = %s", jobName),
		}
	}
	if err != nil {
		return kdb.SyncRecord{}, xe.Wrap(err)
	}
	return record, nil
}
