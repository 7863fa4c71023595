package storage

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/samber/do/v2"
)

const databaseInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()
		return New(ctx, cfg.Database.DSN())
	})
	do.Provide(injector, func(i do.Injector) (tracking.Store, error) {
		return do.MustInvoke[*DB](i), nil
	})
}
