package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHooks(t *testing.T) {
	r := NewRegistry()
	hooks := r.Hooks()
	ctx := context.Background()
	ev := &domain.QuizEvent{SequenceID: "hb"}

	hooks.OnStart(ctx, ev)
	hooks.OnNodeEnter(ctx, ev)
	hooks.OnNodeEnter(ctx, ev)
	hooks.OnFinisher(ctx, ev)
	hooks.OnMalformedReference(ctx, ev)
	hooks.OnEnd(ctx, ev)

	if got := testutil.ToFloat64(r.QuizzesStarted.WithLabelValues("hb")); got != 1 {
		t.Errorf("started = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.NodesEntered.WithLabelValues("hb")); got != 2 {
		t.Errorf("entered = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.FinishersReached.WithLabelValues("hb")); got != 1 {
		t.Errorf("finishers = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.MalformedReferences.WithLabelValues("hb")); got != 1 {
		t.Errorf("malformed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.QuizzesEnded); got != 1 {
		t.Errorf("ended = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/sequences", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `tatami_http_requests_total{method="GET",route="/sequences",status="200"} 1`) {
		t.Errorf("missing request counter in:\n%s", body)
	}
}
