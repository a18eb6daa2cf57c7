package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// something sending query with SQL.
//
// this is extracted interface from `pgxpool.Conn` and `pgx.Tx`.
// When you need more details, see them.
type Queryer interface {
	// sending SQL Command which does not have any result rows.
	Exec(ctx context.Context, sql string, arguments ...interface{}) (commandTag pgconn.CommandTag, err error)

	// sending SQL Command which has result rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)

	// sending SQL Command which has just single result row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// interface extracted from `pgx.Tx`
//
// # note: `pgx.Tx` does NOT implement `Tx`
//
// because golang lacks covariance/contravariance in typing,
// `Tx` cannot be defined as generalization of `pgx.Tx`, directly.
//
// If you need to wrap `pgx.Tx` as `Tx`,
// you can use `Pool` in this package and call `Begin()` .
type Tx interface {
	Queryer

	Begin(ctx context.Context) (Tx, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// thin wrapper of pgx.Tx as Tx
type pgxTx struct {
	base pgx.Tx
}

var _ Tx = &pgxTx{}

func (tx *pgxTx) Begin(ctx context.Context) (Tx, error) {
	new, err := tx.base.Begin(ctx)
	if new == nil {
		return nil, err
	}
	return &pgxTx{new}, err
}

func (tx *pgxTx) Commit(ctx context.Context) error {
	return tx.base.Commit(ctx)
}

func (tx *pgxTx) Rollback(ctx context.Context) error {
	return tx.base.Rollback(ctx)
}

func (tx *pgxTx) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return tx.base.Exec(ctx, sql, arguments...)
}

func (tx *pgxTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return tx.base.Query(ctx, sql, args...)
}

func (tx *pgxTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return tx.base.QueryRow(ctx, sql, args...)
}

// interface extracted from `*pgxpool.Conn`, as a subset.
//
// When you need more methods only `*pgxpool.Conn` has, declare them.
type Conn interface {
	Queryer

	Begin(ctx context.Context) (Tx, error)
	Release()
	Ping(ctx context.Context) error
}

// thin wrapper of pgxpool.Conn as Conn
type pgxPoolConn struct {
	base *pgxpool.Conn
}

var _ Conn = &pgxPoolConn{}

func (c *pgxPoolConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.base.Begin(ctx)
	if tx == nil {
		return nil, err
	}
	return &pgxTx{tx}, err
}

func (c *pgxPoolConn) Release() {
	c.base.Release()
}

func (c *pgxPoolConn) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return c.base.Exec(ctx, sql, arguments...)
}

func (c *pgxPoolConn) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return c.base.Query(ctx, sql, args...)
}

func (c *pgxPoolConn) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return c.base.QueryRow(ctx, sql, args...)
}

func (c *pgxPoolConn) Ping(ctx context.Context) error {
	return c.base.Ping(ctx)
}

// interface extracted from `*pgxpool.Pool`, as a subset.
//
// If you need to wrap `*pgxpool.Pool` as `Pool`, you can `Wrap` it.
type Pool interface {
	Begin(ctx context.Context) (Tx, error)
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
}

type pgxPool struct {
	base *pgxpool.Pool
}

var _ Pool = &pgxPool{}

func Wrap(base *pgxpool.Pool) Pool {
	return &pgxPool{base: base}
}

func (p *pgxPool) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.base.Begin(ctx)
	if tx == nil {
		return nil, err
	}
	return &pgxTx{tx}, err
}

func (p *pgxPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.base.Acquire(ctx)
	if conn == nil {
		return nil, err
	}
	return &pgxPoolConn{conn}, err
}

func (p *pgxPool) Ping(ctx context.Context) error {
	return p.base.Ping(ctx)
}
