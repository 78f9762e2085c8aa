package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFormCounter(t *testing.T) {
	m := New()
	m.Form("uc_payment_split_methods_form", OutcomeSubmitted)
	m.Form("uc_payment_split_methods_form", OutcomeSubmitted)
	m.Form("uc_payment_split_methods_form", OutcomeInvalid)

	got := testutil.ToFloat64(m.FormSubmissions.WithLabelValues("uc_payment_split_methods_form", OutcomeSubmitted))
	if got != 2 {
		t.Errorf("submitted = %v, want 2", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Change("delete")
	m.ObserveRequest("GET", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{"paysplit_method_changes_total", "paysplit_http_request_duration_seconds"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
