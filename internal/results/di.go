package results

import (
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (tracking.ResultNotifier, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewWebhook(c.Results.WebhookURL, c.Results.Timeout), nil
	})
}
