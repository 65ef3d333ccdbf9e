package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordRegistration()
	c.RecordPlaceWrite("create")
	c.RecordPlaceWrite("create")
	c.RecordPlaceWrite("delete")
	c.RecordAdvisoryFetchSuccess()
	c.RecordAdvisoryFetchFailure()

	if got := testutil.ToFloat64(c.loginSuccess); got != 2 {
		t.Errorf("login success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.loginFail); got != 1 {
		t.Errorf("login fail = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.registrations); got != 1 {
		t.Errorf("registrations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.placeWrites.WithLabelValues("create")); got != 2 {
		t.Errorf("place creates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.placeWrites.WithLabelValues("delete")); got != 1 {
		t.Errorf("place deletes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.advisoryOK); got != 1 {
		t.Errorf("advisory success = %v, want 1", got)
	}
}

func TestCollector_HTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("404")); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLoginSuccess()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ceylon_login_success_total 1") {
		t.Errorf("exposition missing counter:\n%s", rec.Body.String())
	}
}

func TestHTTPMiddleware_RecordsStatusAndLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	mw := NewHTTPMiddleware(c)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/places", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("201")); got != 1 {
		t.Errorf("201 count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.requestLatency); got != 1 {
		t.Errorf("latency metric count = %d, want 1", got)
	}
}
