package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/danielpatrickdp/govassess/internal/session"
)

func testClient(srv *httptest.Server) *Client {
	return NewClientWithHTTP(srv.URL, srv.Client())
}

func TestDimensionsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dimensions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"D1","name":"Risk Management","article":"Art. 9","description":"","criteria":[]}]`))
	}))
	defer srv.Close()

	dims, err := testClient(srv).Dimensions(context.Background())
	if err != nil {
		t.Fatalf("dimensions: %v", err)
	}
	if len(dims) != 1 || dims[0].ID != "D1" {
		t.Fatalf("unexpected catalog: %+v", dims)
	}
}

func TestDimensionsUnavailableWrapsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv).Dimensions(context.Background())
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestAssessRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/assess" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req AssessmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Scoping.SystemName != "fraud model" {
			t.Errorf("scoping lost on the wire: %+v", req.Scoping)
		}
		if len(req.Dimensions) != 1 || req.Dimensions[0].CriteriaScores[0].CriterionID != "D1.1" {
			t.Errorf("dimension payload malformed: %+v", req.Dimensions)
		}
		json.NewEncoder(w).Encode(AssessmentResult{
			Scoping:       req.Scoping,
			OverallScore:  3.4,
			MaturityLabel: "Defined",
			Gaps: []GapItem{
				{DimensionID: "D1", DimScore: 2.0, GapSeverity: "significant", PriorityRank: 1},
			},
		})
	}))
	defer srv.Close()

	score := 2
	result, err := testClient(srv).Assess(context.Background(), AssessmentRequest{
		Scoping: session.Scoping{SystemName: "fraud model", RiskCategory: "high-risk"},
		Dimensions: []DimensionResult{
			{
				DimensionID:   "D1",
				DimensionName: "Risk Management",
				CriteriaScores: []CriterionScore{
					{CriterionID: "D1.1", Score: &score},
					{CriterionID: "D1.2", IsNA: true},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	if result.OverallScore != 3.4 || result.MaturityLabel != "Defined" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Gaps) != 1 || result.Gaps[0].PriorityRank != 1 {
		t.Fatalf("gaps lost: %+v", result.Gaps)
	}
}

func TestAssessServerErrorWrapsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scoring failed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv).Assess(context.Background(), AssessmentRequest{})
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}
}

func TestAssessNetworkErrorWrapsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClientWithHTTP(srv.URL, http.DefaultClient)
	_, err := c.Assess(context.Background(), AssessmentRequest{})
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}
}

func TestStatusAndBenchmarks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat/status":
			json.NewEncoder(w).Encode(ServiceStatus{Available: true, Provider: "mistral", EmbeddingsReady: true})
		case "/api/benchmarks":
			if got := r.URL.Query().Get("industry"); got != "financial" {
				t.Errorf("industry filter lost: %q", got)
			}
			json.NewEncoder(w).Encode(BenchmarkResponse{
				Benchmark:           map[string]any{"overall": 3.1, "label": "Defined"},
				AvailableIndustries: []string{"default", "financial"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := testClient(srv)
	st, err := c.Status(context.Background())
	if err != nil || !st.Available {
		t.Fatalf("status: %+v err=%v", st, err)
	}

	b, err := c.Benchmarks(context.Background(), "financial")
	if err != nil {
		t.Fatalf("benchmarks: %v", err)
	}
	if b.Benchmark["label"] != "Defined" || len(b.AvailableIndustries) != 2 {
		t.Fatalf("unexpected benchmark payload: %+v", b)
	}
}

func TestReadinessPollerDropsSupersededResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// First check stalls until the newer one has landed.
			close(started)
			<-release
			json.NewEncoder(w).Encode(ServiceStatus{Available: false})
			return
		}
		json.NewEncoder(w).Encode(ServiceStatus{Available: true})
	}))
	defer srv.Close()

	p := NewReadinessPoller(testClient(srv))

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Check(context.Background())
	}()
	<-started

	if _, err := p.Check(context.Background()); err != nil {
		t.Fatal(err)
	}
	close(release)
	<-done

	// The slow first check finished last but must not overwrite the
	// newer recorded status.
	st, err := p.Last()
	if err != nil || st == nil || !st.Available {
		t.Fatalf("stale check overwrote the recorded status: %+v err=%v", st, err)
	}
	if !p.Available() {
		t.Fatal("expected available after the newer check")
	}
}

func TestReadinessPollerRecordsLatest(t *testing.T) {
	available := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ServiceStatus{Available: available})
	}))
	defer srv.Close()

	p := NewReadinessPoller(testClient(srv))
	if p.Available() {
		t.Fatal("unknown status must count as unavailable")
	}

	if _, err := p.Check(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Available() {
		t.Fatal("service reported unavailable")
	}

	available = true
	if _, err := p.Check(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !p.Available() {
		t.Fatal("latest check should have flipped availability")
	}
}
