package database

import (
	"context"
	"fmt"

	"quill/internal/config"
	"quill/internal/middleware"

	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"
)

// schemaLockID is the Postgres advisory lock key guarding concurrent schema
// application across multiple instances.
const schemaLockID int64 = 0x71756c6c // "qull"

// ApplySchema runs AutoMigrate for every registered model. On Postgres the
// migration is serialized with a session advisory lock so two instances
// starting at once do not race on DDL.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if cfg.DBDriver != "postgres" {
		return db.WithContext(ctx).AutoMigrate(PersistentModels()...)
	}

	unlock, err := acquireSchemaLock(ctx, cfg)
	if err != nil {
		return err
	}
	defer unlock()

	return db.WithContext(ctx).AutoMigrate(PersistentModels()...)
}

// acquireSchemaLock opens a dedicated pgx connection and takes the advisory
// lock. The returned func releases the lock and closes the connection.
func acquireSchemaLock(ctx context.Context, cfg *config.Config) (func(), error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema lock connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", schemaLockID); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to acquire schema lock: %w", err)
	}

	return func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", schemaLockID); err != nil {
			middleware.Logger.Warn("failed to release schema lock: " + err.Error())
		}
		_ = conn.Close(context.Background())
	}, nil
}
