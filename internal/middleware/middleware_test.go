package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/pkg/api"
)

type stubAssistant struct{}

func (stubAssistant) Ask(_ context.Context, req *connect.Request[api.AskRequest]) (*connect.Response[api.AskResponse], error) {
	if req.Msg.Query == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("query is required"))
	}
	return connect.NewResponse(&api.AskResponse{Answer: "ok", Strategy: "stub"}), nil
}

func sampleCount(t *testing.T, m *metrics.Metrics, procedure, code string) uint64 {
	t.Helper()
	var metric dto.Metric
	if err := m.RPCDuration.WithLabelValues(procedure, code).(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("failed to read histogram: %v", err)
	}
	return metric.GetHistogram().GetSampleCount()
}

func TestInterceptors(t *testing.T) {
	m := metrics.New()
	path, handler := api.NewAssistantServiceHandler(stubAssistant{},
		connect.WithInterceptors(LoggingInterceptor(), MetricsInterceptor(m)),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := api.NewAssistantServiceClient(http.DefaultClient, server.URL)
	ctx := context.Background()

	if _, err := client.Ask(ctx, connect.NewRequest(&api.AskRequest{Query: "hi"})); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if _, err := client.Ask(ctx, connect.NewRequest(&api.AskRequest{})); connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected invalid_argument, got %v", err)
	}

	procedure := api.AssistantServiceAskProcedure
	if got := sampleCount(t, m, procedure, "ok"); got != 1 {
		t.Errorf("ok samples = %d, want 1", got)
	}
	if got := sampleCount(t, m, procedure, connect.CodeInvalidArgument.String()); got != 1 {
		t.Errorf("invalid_argument samples = %d, want 1", got)
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"any origin", nil, http.MethodPost, "http://a.example", "*", http.StatusTeapot},
		{"wildcard entry", []string{"*"}, http.MethodPost, "http://a.example", "*", http.StatusTeapot},
		{"listed origin", []string{"http://a.example"}, http.MethodPost, "http://a.example", "http://a.example", http.StatusTeapot},
		{"unlisted origin", []string{"http://a.example"}, http.MethodPost, "http://b.example", "", http.StatusTeapot},
		{"preflight", nil, http.MethodOptions, "http://a.example", "*", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORS(tt.origins)(next).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("done"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusCreated || rec.Body.String() != "done" {
		t.Errorf("got %d %q, want 201 \"done\"", rec.Code, rec.Body.String())
	}
}
