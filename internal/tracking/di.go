package tracking

import (
	"log/slog"

	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		store := do.MustInvoke[Store](i)
		notifier := do.MustInvoke[ResultNotifier](i)
		log := do.MustInvoke[*slog.Logger](i)
		return NewService(store, log, notifier), nil
	})
}
