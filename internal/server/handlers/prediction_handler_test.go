package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/brewcast/internal/domain/models"
	"github.com/mamadbah2/brewcast/internal/yeast"
)

type stubPredictor struct {
	err   error
	batch models.BrewBatch
}

func (s *stubPredictor) Predict(batch models.BrewBatch) (models.Prediction, error) {
	s.batch = batch
	if s.err != nil {
		return models.Prediction{}, s.err
	}
	return models.Prediction{ID: "p-1"}, nil
}

func serve(h *PredictionHandler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/predictions", h.Predict)

	req := httptest.NewRequest(http.MethodPost, "/predictions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

const validBody = `{"name":"x","og":1.05,"yeast":"BL-102","pitch_date":"2025-08-01T10:00:00Z","temp_c":18,
	"readings":[{"timestamp":"2025-08-03T10:00:00Z","gravity":1.02},{"timestamp":"2025-08-02T10:00:00Z","gravity":1.03}]}`

func TestPredictSortsReadings(t *testing.T) {
	stub := &stubPredictor{}
	rr := serve(NewPredictionHandler(stub, yeast.Default(), nil), validBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	got := stub.batch.Readings
	if len(got) != 2 || got[0].Gravity != 1.03 || got[1].Gravity != 1.02 {
		t.Errorf("readings passed to predictor = %+v, want ascending by timestamp", got)
	}
}

func TestPredictServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown strain", fmt.Errorf("predict fg: %w", yeast.ErrUnknownStrain), http.StatusUnprocessableEntity},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(NewPredictionHandler(&stubPredictor{err: tt.err}, yeast.Default(), nil), validBody)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestPredictReadingRequiresTimestamp(t *testing.T) {
	body := `{"name":"x","og":1.05,"yeast":"BL-102","pitch_date":"2025-08-01T10:00:00Z","readings":[{"gravity":1.02}]}`
	rr := serve(NewPredictionHandler(&stubPredictor{}, yeast.Default(), nil), body)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestPredictUnknownStrainWithExplicitFG(t *testing.T) {
	body := `{"name":"x","og":1.05,"fg":1.01,"yeast":"WLP-999","pitch_date":"2025-08-01T10:00:00Z","temp_c":18,
	"readings":[{"timestamp":"2025-08-03T10:00:00Z","gravity":1.01}]}`
	stub := &stubPredictor{}
	rr := serve(NewPredictionHandler(stub, yeast.Default(), nil), body)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rr.Code, rr.Body.String())
	}
	if stub.batch.Name != "" {
		t.Errorf("predictor called with %+v, want rejection before predicting", stub.batch)
	}
}
