package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/config"
	"quotetool/services"
)

type contextKey string

const EngineKey contextKey = "engine"

// GetEngine extracts the request's pricing engine from the context. Requests
// that did not pass through EngineMiddleware get an engine over the
// built-in settings.
func GetEngine(r *http.Request) *services.Engine {
	if val, ok := r.Context().Value(EngineKey).(*services.Engine); ok {
		return val
	}
	return services.NewEngine(config.DefaultSettings())
}

// EngineMiddleware layers the team_settings record over the environment
// settings and stores an engine built from the result in the request
// context, so a settings change applies to the next request.
func EngineMiddleware(app *pocketbase.PocketBase, settings config.Settings) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := config.Settings{
			Defaults:      services.LoadTeamDefaults(app, settings.Defaults),
			RobotKeywords: settings.RobotKeywords,
		}
		ctx := context.WithValue(e.Request.Context(), EngineKey, services.NewEngine(s))
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
