package server

import (
	"log/slog"

	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		svc := do.MustInvoke[*tracking.Service](i)
		db := do.MustInvoke[*storage.DB](i)
		log := do.MustInvoke[*slog.Logger](i)
		return New(svc, db, log), nil
	})
}
