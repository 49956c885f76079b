package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// formRequest builds a url-encoded request with the given path values.
func formRequest(method, target string, form url.Values, pathValues map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

// serve runs handler against req and returns the recorder.
func serve(t *testing.T, app *pocketbase.PocketBase, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// pricedQuotation is a draft quotation with one system of quantity 2 holding
// a NIS frame, two USD drives and one labor day. At the default parameters
// its total quote is 7840 and its final total 9172.80.
type pricedQuotation struct {
	ID       string
	SystemID string
	FrameID  string
	DriveID  string
	DesignID string
}

func createPricedQuotation(t *testing.T, app *pocketbase.PocketBase) pricedQuotation {
	t.Helper()
	q := testhelpers.CreateTestQuotation(t, app, "Palletizing Cell")
	s := testhelpers.CreateTestSystem(t, app, q.Id, "Cell", 1, 2)
	frame := testhelpers.CreateTestItem(t, app, q.Id, s.Id, 1, "Frame", "hardware", 1, "NIS", 1000)
	drive := testhelpers.CreateTestItem(t, app, q.Id, s.Id, 2, "Drive", "hardware", 2, "USD", 100)
	design := testhelpers.CreateTestItem(t, app, q.Id, s.Id, 3, "Design", "labor", 1, "NIS", 1200)
	return pricedQuotation{ID: q.Id, SystemID: s.Id, FrameID: frame.Id, DriveID: drive.Id, DesignID: design.Id}
}
