package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quotetool/collections"
	"quotetool/config"
	"quotetool/testhelpers"
)

func TestGetEngine_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	en := GetEngine(req)
	if en == nil {
		t.Fatal("expected a fallback engine")
	}
	if en.Defaults() != config.DefaultValues() {
		t.Errorf("fallback defaults = %+v", en.Defaults())
	}
}

func TestEngineMiddleware_TeamSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	settings := config.DefaultSettings()

	team := settings.Defaults
	team.USDToILSRate = 3.9
	team.MarkupPercent = 0.8
	if err := collections.MigrateDefaultTeamSettings(app, team); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := EngineMiddleware(app, settings)(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	d := GetEngine(e.Request).Defaults()
	if d.USDToILSRate != 3.9 || d.MarkupPercent != 0.8 {
		t.Errorf("team settings not applied: %+v", d)
	}
	if d.EURToILSRate != 4.0 {
		t.Errorf("EUR rate = %v, want 4.0", d.EURToILSRate)
	}
}

func TestEngineMiddleware_NoTeamSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	settings := config.DefaultSettings()
	settings.Defaults.DayWorkCost = 1500

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	e := newTestRequestEvent(app, req, httptest.NewRecorder())
	if err := EngineMiddleware(app, settings)(e); err != nil {
		t.Fatal(err)
	}
	if got := GetEngine(e.Request).Defaults().DayWorkCost; got != 1500 {
		t.Errorf("DayWorkCost = %v, want 1500 from the environment settings", got)
	}
}
