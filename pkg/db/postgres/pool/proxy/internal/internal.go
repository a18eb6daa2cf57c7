// Package internal provides hand-made fakes of the pool interfaces for
// testing the proxy wiring without a database.
package internal

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
)

type FakeRow struct{}

var _ pgx.Row = &FakeRow{}

func (fr *FakeRow) Scan(dest ...interface{}) error { return errors.New("empty") }

type FakePool struct {
	NextAcquire struct {
		Conn kpool.Conn
		Err  error
	}
	NextBegin struct {
		Tx  kpool.Tx
		Err error
	}
}

var _ kpool.Pool = &FakePool{}

func (p *FakePool) Acquire(ctx context.Context) (kpool.Conn, error) {
	return p.NextAcquire.Conn, p.NextAcquire.Err
}

func (p *FakePool) Begin(ctx context.Context) (kpool.Tx, error) {
	return p.NextBegin.Tx, p.NextBegin.Err
}

func (p *FakePool) Ping(ctx context.Context) error { return nil }

type FakeConn struct {
	NextBegin struct {
		Tx  kpool.Tx
		Err error
	}
	Released bool
}

var _ kpool.Conn = &FakeConn{}

func (c *FakeConn) Begin(ctx context.Context) (kpool.Tx, error) {
	return c.NextBegin.Tx, c.NextBegin.Err
}

func (c *FakeConn) Release() { c.Released = true }

func (c *FakeConn) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (c *FakeConn) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("empty")
}

func (c *FakeConn) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return &FakeRow{}
}

func (c *FakeConn) Ping(ctx context.Context) error { return nil }

type FakeTx struct {
	Committed  bool
	RolledBack bool
}

var _ kpool.Tx = &FakeTx{}

func (tx *FakeTx) Begin(ctx context.Context) (kpool.Tx, error) { return &FakeTx{}, nil }

func (tx *FakeTx) Commit(ctx context.Context) error {
	tx.Committed = true
	return nil
}

func (tx *FakeTx) Rollback(ctx context.Context) error {
	tx.RolledBack = true
	return nil
}

func (tx *FakeTx) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (tx *FakeTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("empty")
}

func (tx *FakeTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return &FakeRow{}
}
