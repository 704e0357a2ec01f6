package router_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mamadbah2/brewcast/internal/domain/models"
	"github.com/mamadbah2/brewcast/internal/server/handlers"
	"github.com/mamadbah2/brewcast/internal/server/router"
	"github.com/mamadbah2/brewcast/internal/service/prediction"
	"github.com/mamadbah2/brewcast/internal/yeast"
)

// --- test helpers -----------------------------------------------------------

func newRouter() http.Handler {
	profiles := yeast.Default()
	svc := prediction.NewService(profiles, nil)
	return router.New(
		handlers.NewPredictionHandler(svc, profiles, nil),
		handlers.NewYeastHandler(profiles),
		nil,
	)
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, httptest.NewRequest(http.MethodGet, path, nil))
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, h, req)
}

func postForm(t *testing.T, h http.Handler, fields map[string]string, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if csv != "" {
		part, err := w.CreateFormFile("readings", "readings.csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write([]byte(csv))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/predictions/csv", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return do(t, h, req)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- tests ------------------------------------------------------------------

func TestGreeting(t *testing.T) {
	rr := get(t, newRouter(), "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "Hello, world!" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	rr := get(t, newRouter(), "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]string
	decode(t, rr, &body)
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newRouter()

	rr := get(t, h, "/healthz")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = do(t, h, req)
	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestYeastRoutes(t *testing.T) {
	h := newRouter()

	rr := get(t, h, "/yeasts")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var list struct {
		Profiles []models.YeastProfile `json:"profiles"`
	}
	decode(t, rr, &list)
	if len(list.Profiles) != 2 || list.Profiles[0].Key != "BL-102" {
		t.Errorf("profiles = %+v", list.Profiles)
	}

	rr = get(t, h, "/yeasts/BL-102")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var p models.YeastProfile
	decode(t, rr, &p)
	if p.Strain != "Köln-style Ale" || p.Attenuation.Min != 76 {
		t.Errorf("profile = %+v", p)
	}

	if rr := get(t, h, "/yeasts/WLP001"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown strain status = %d, want 404", rr.Code)
	}
}

func TestPredictJSON(t *testing.T) {
	body := `{
		"name": "NEIPA Batch 62",
		"og": 1.058,
		"fg": 1.011,
		"yeast": "Verdant IPA",
		"pitch_date": "2025-07-10T09:00:00Z",
		"temp_c": 18,
		"readings": [
			{"timestamp": "2025-07-13T09:00:00Z", "gravity": 1.0105},
			{"timestamp": "2025-07-11T09:00:00Z", "gravity": 1.020},
			{"timestamp": "2025-07-12T09:00:00Z", "gravity": 1.015},
			{"timestamp": "2025-07-14T09:00:00Z", "gravity": 1.010}
		]
	}`
	rr := postJSON(t, newRouter(), "/predictions", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var pred models.Prediction
	decode(t, rr, &pred)
	if pred.ID == "" {
		t.Error("missing prediction id")
	}
	want := models.Summary{
		BatchName:    "NEIPA Batch 62",
		OG:           1.058,
		PredictedFG:  1.011,
		Yeast:        "Verdant IPA",
		FinishDate:   "Sunday 13 Jul",
		DiacetylRest: "Sunday 13 Jul",
	}
	if pred.Summary != want {
		t.Errorf("summary = %+v, want %+v", pred.Summary, want)
	}
	if pred.Finish.Source != models.SourceCurve {
		t.Errorf("finish source = %q, want curve", pred.Finish.Source)
	}
}

func TestPredictJSONSummaryKeys(t *testing.T) {
	body := `{"name":"Kolsch","og":1.046,"yeast":"BL-102","pitch_date":"2025-08-01T10:00:00Z","temp_c":15}`
	rr := postJSON(t, newRouter(), "/predictions", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var raw struct {
		Summary map[string]interface{} `json:"summary"`
	}
	decode(t, rr, &raw)

	want := map[string]interface{}{
		"Batch Name":            "Kolsch",
		"OG (°P)":               1.046,
		"Predicted FG (°P)":     0.23,
		"Yeast":                 "BL-102",
		"Est. Finish Date":      "Thursday 07 Aug",
		"Diacetyl Rest Trigger": "Check gravity manually ~day 4",
	}
	if len(raw.Summary) != len(want) {
		t.Errorf("summary has %d keys, want %d: %v", len(raw.Summary), len(want), raw.Summary)
	}
	for k, v := range want {
		if raw.Summary[k] != v {
			t.Errorf("summary[%q] = %v, want %v", k, raw.Summary[k], v)
		}
	}
}

func TestPredictJSONErrors(t *testing.T) {
	h := newRouter()
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"name":`, http.StatusBadRequest},
		{"missing name", `{"og":1.05,"yeast":"BL-102","pitch_date":"2025-08-01T10:00:00Z"}`, http.StatusBadRequest},
		{"missing pitch date", `{"name":"x","og":1.05,"yeast":"BL-102"}`, http.StatusBadRequest},
		{"unknown strain", `{"name":"x","og":1.05,"yeast":"WLP001","pitch_date":"2025-08-01T10:00:00Z"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := postJSON(t, h, "/predictions", tt.body); rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestPredictCSV(t *testing.T) {
	fields := map[string]string{
		"name":       "NEIPA Batch 62",
		"og":         "1.058",
		"fg":         "1.011",
		"yeast":      "Verdant IPA",
		"pitch_date": "2025-07-10 09:00:00",
		"temp_c":     "18",
	}
	csv := "timepoint,sg\n2025-07-11 09:00:00,1.020\n2025-07-12 09:00:00,\n2025-07-13 09:00:00,1.0105\n"

	rr := postForm(t, newRouter(), fields, csv)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var pred models.Prediction
	decode(t, rr, &pred)
	if pred.Summary.FinishDate != "Sunday 13 Jul" {
		t.Errorf("finish = %q, want Sunday 13 Jul", pred.Summary.FinishDate)
	}
}

func TestPredictCSVWithoutFile(t *testing.T) {
	fields := map[string]string{
		"name":       "Kolsch",
		"og":         "1.046",
		"yeast":      "BL-102",
		"pitch_date": "2025-08-01",
		"temp_c":     "21",
	}
	rr := postForm(t, newRouter(), fields, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var pred models.Prediction
	decode(t, rr, &pred)
	// 21 °C is above BL-102's 20 °C maximum: 4 days.
	if pred.Summary.FinishDate != "Tuesday 05 Aug" {
		t.Errorf("finish = %q, want Tuesday 05 Aug", pred.Summary.FinishDate)
	}
}

func TestPredictCSVErrors(t *testing.T) {
	h := newRouter()
	base := func() map[string]string {
		return map[string]string{
			"name":       "x",
			"og":         "1.05",
			"yeast":      "BL-102",
			"pitch_date": "2025-08-01",
			"temp_c":     "18",
		}
	}

	badOG := base()
	badOG["og"] = "heavy"
	if rr := postForm(t, h, badOG, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad og status = %d, want 400", rr.Code)
	}

	badPitch := base()
	badPitch["pitch_date"] = "someday"
	if rr := postForm(t, h, badPitch, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad pitch_date status = %d, want 400", rr.Code)
	}

	if rr := postForm(t, h, base(), "timepoint,sg\nnot-a-date,1.020\n"); rr.Code != http.StatusBadRequest {
		t.Errorf("bad csv status = %d, want 400", rr.Code)
	}

	unknown := base()
	unknown["yeast"] = "WLP001"
	if rr := postForm(t, h, unknown, ""); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown strain status = %d, want 422", rr.Code)
	}
}
