package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"
)

// initializeDatabase opens and migrates the database within DBInitTimeout
func initializeDatabase(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	type result struct {
		db  *store.Store
		err error
	}
	done := make(chan result, 1)
	go func() {
		db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
		done <- result{db: db, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", r.err)
		}
		log.Printf("Database: %s", cfg.DatabaseDriver)
		return r.db, nil
	case <-ctx.Done():
		// Close the store if it opens after the deadline
		go func() {
			if r := <-done; r.db != nil {
				_ = r.db.Close()
			}
		}()
		return nil, fmt.Errorf("failed to initialize database: %w", ctx.Err())
	}
}
