package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRecorder_WriteTo(t *testing.T) {
	r := NewRecorder()
	r.ObserveRequest("/health", http.StatusOK)
	r.ObserveRequest("/health", http.StatusOK)
	r.ObserveRequest("/api/v1/predictions/calculate", http.StatusBadRequest)
	r.ObserveError("invalid_rate")

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# TYPE predictor_http_requests_total counter",
		`predictor_http_requests_total{route="/health",status="200"} 2`,
		`predictor_http_requests_total{route="/api/v1/predictions/calculate",status="400"} 1`,
		"# TYPE predictor_prediction_errors_total counter",
		`predictor_prediction_errors_total{kind="invalid_rate"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRecorder_EmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewRecorder().WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestRecorder_MiddlewareUsesRoutePattern(t *testing.T) {
	rec := NewRecorder()
	router := chi.NewRouter()
	router.Use(rec.Middleware)
	router.Get("/fixtures/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Get("/metrics", rec.Handler)

	for _, id := range []string{"1", "2"} {
		req := httptest.NewRequest(http.MethodGet, "/fixtures/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type: got %q, want text/plain", ct)
	}
	want := `predictor_http_requests_total{route="/fixtures/{id}",status="404"} 2`
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("output missing %q:\n%s", want, w.Body.String())
	}
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveError("not_found")

	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if strings.Contains(buf.String(), "not_found") {
		t.Errorf("second recorder saw the first one's counters:\n%s", buf.String())
	}
}
