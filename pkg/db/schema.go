package db

import "context"

type SchemaInterface interface {
	// Version returns the current schema version of the database.
	Version(ctx context.Context) (int, error)

	// Upgrade applies pending schema migrations.
	Upgrade(ctx context.Context) error

	// Context derives a context which is cancelled when the schema
	// repository is modified.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
