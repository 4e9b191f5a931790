package iqm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/qrithm/iqm-client/circuit"
	"github.com/qrithm/iqm-client/devices"
)

// fakeService mimics the IQM REST API for tests. Jobs step through the
// configured status sequence, one status per poll, with the last one
// repeating. Ready jobs answer with all-ones measurement outcomes built
// from the request echo.
type fakeService struct {
	mu       sync.Mutex
	statuses []Status
	message  string

	abortStatus int
	abortDetail string

	submits int
	polls   int
	aborts  int
	request RunRequest

	lastAuth      string
	lastUserAgent string
}

func (f *fakeService) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/jobs", f.submit).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}", f.status).Methods(http.MethodGet)
	r.HandleFunc("/jobs/jobs/{id}/abort", f.abort).Methods(http.MethodPost)
	r.HandleFunc("/quantum-architecture", f.architecture).Methods(http.MethodGet)
	return r
}

func (f *fakeService) submit(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	f.lastAuth = r.Header.Get("Authorization")
	f.lastUserAgent = r.Header.Get("User-Agent")
	if err := json.NewDecoder(r.Body).Decode(&f.request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": "job-123"})
}

func (f *fakeService) status(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.polls
	f.polls++
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	result := RunResult{
		Status:   f.statuses[idx],
		Message:  f.message,
		Metadata: Metadata{Request: f.request},
	}
	if result.Status == StatusReady {
		for _, wc := range f.request.Circuits {
			circuitResult := make(CircuitResult)
			for name, rec := range wc.Metadata {
				if len(rec.Positions) == 0 {
					continue
				}
				rows := make([][]int, f.request.Shots)
				for i := range rows {
					row := make([]int, len(rec.Positions))
					for j := range row {
						row[j] = 1
					}
					rows[i] = row
				}
				circuitResult[name] = rows
			}
			result.Measurements = append(result.Measurements, circuitResult)
		}
	}
	json.NewEncoder(w).Encode(result)
}

func (f *fakeService) abort(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aborts++
	if f.abortStatus != 0 && f.abortStatus != http.StatusOK {
		w.WriteHeader(f.abortStatus)
		json.NewEncoder(w).Encode(map[string]string{"detail": f.abortDetail})
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (f *fakeService) architecture(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"quantum_architecture":{"name":"test-arch","qubits":["QB1","QB2"]}}`))
}

func newTestBackend(t *testing.T, f *fakeService, opts ...Option) (*Backend, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(f.router())
	t.Cleanup(server.Close)

	dev := devices.NewDemoDevice()
	dev.SetEndpointURL(server.URL + "/jobs")

	opts = append([]Option{
		WithHTTPClient(server.Client()),
		WithPollInterval(time.Millisecond),
		WithTimeout(time.Second),
	}, opts...)
	backend, err := NewBackend(dev, "test-token", opts...)
	require.NoError(t, err)
	return backend, server
}

func measuredDemoCircuit() circuit.Circuit {
	return circuit.Circuit{
		circuit.NewDefinitionBit("ro", 2, true),
		circuit.NewRotateXY(0, circuit.Float(math.Pi), circuit.Float(0)),
		circuit.NewMeasureQubit(0, "ro", 0),
		circuit.NewMeasureQubit(1, "ro", 1),
	}
}

func TestRunCircuitEndToEnd(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusPendingCompilation, StatusPendingExecution, StatusReady}}
	backend, _ := newTestBackend(t, f)

	registers, err := backend.RunCircuit(context.Background(), measuredDemoCircuit())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	ro, ok := registers["ro"]
	if !ok {
		t.Fatalf("missing register ro: %v", registers)
	}
	if len(ro) != 1 || len(ro[0]) != 2 {
		t.Fatalf("expected 1 shot of 2 bits, got %v", ro)
	}
	if !ro[0][0] || !ro[0][1] {
		t.Fatalf("expected both bits set, got %v", ro[0])
	}

	if f.submits != 1 {
		t.Fatalf("expected one submission, got %d", f.submits)
	}
	if f.polls != 3 {
		t.Fatalf("expected three polls, got %d", f.polls)
	}
	if f.lastAuth != "Bearer test-token" {
		t.Fatalf("unexpected authorization header: %q", f.lastAuth)
	}
	if f.lastUserAgent == "" {
		t.Fatal("requests should identify the client")
	}
	if f.request.Circuits[0].Name != "qc_1" {
		t.Fatalf("unexpected circuit name: %s", f.request.Circuits[0].Name)
	}
	if f.request.Shots != 1 {
		t.Fatalf("unexpected shot count: %d", f.request.Shots)
	}
}

func TestRunFailedJob(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusFailed}, message: "compilation blew up"}
	backend, _ := newTestBackend(t, f)

	_, err := backend.RunCircuit(context.Background(), measuredDemoCircuit())
	var failed *JobFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected JobFailedError, got %v", err)
	}
	if failed.Message != "compilation blew up" {
		t.Fatalf("unexpected failure message: %q", failed.Message)
	}
}

func TestRunAbortedJob(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusPendingExecution, StatusAborted}}
	backend, _ := newTestBackend(t, f)

	_, err := backend.RunCircuit(context.Background(), measuredDemoCircuit())
	var aborted *JobAbortedError
	if !errors.As(err, &aborted) {
		t.Fatalf("expected JobAbortedError, got %v", err)
	}
}

func TestWaitForResultsTimeout(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusPendingCompilation}}
	backend, _ := newTestBackend(t, f, WithTimeout(20*time.Millisecond))

	_, err := backend.RunCircuit(context.Background(), measuredDemoCircuit())
	var timeout *JobTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected JobTimeoutError, got %v", err)
	}
}

func TestWaitForResultsContextCancel(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusPendingCompilation}}
	backend, _ := newTestBackend(t, f, WithPollInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	job, err := backend.SubmitCircuitBatch(ctx, []circuit.Circuit{measuredDemoCircuit()})
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err = backend.WaitForResults(ctx, job)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestAbortJob(t *testing.T) {
	f := &fakeService{}
	backend, _ := newTestBackend(t, f)

	if err := backend.AbortJob(context.Background(), "job-123"); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if f.aborts != 1 {
		t.Fatalf("expected one abort request, got %d", f.aborts)
	}
}

func TestAbortJobRefused(t *testing.T) {
	f := &fakeService{abortStatus: http.StatusConflict, abortDetail: "job is already executing"}
	backend, _ := newTestBackend(t, f)

	err := backend.AbortJob(context.Background(), "job-123")
	var refused *AbortFailedError
	if !errors.As(err, &refused) {
		t.Fatalf("expected AbortFailedError, got %v", err)
	}
	if refused.Detail != "job is already executing" {
		t.Fatalf("unexpected detail: %q", refused.Detail)
	}
}

func TestQuantumArchitecture(t *testing.T) {
	f := &fakeService{}
	backend, _ := newTestBackend(t, f)

	raw, err := backend.QuantumArchitecture(context.Background())
	if err != nil {
		t.Fatalf("architecture: %v", err)
	}
	var payload struct {
		Arch struct {
			Name string `json:"name"`
		} `json:"quantum_architecture"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	if payload.Arch.Name != "test-arch" {
		t.Fatalf("unexpected architecture: %q", payload.Arch.Name)
	}
}

func TestSubmitDuplicateRegistersNoRequest(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusReady}}
	backend, _ := newTestBackend(t, f)

	batch := []circuit.Circuit{measuredDemoCircuit(), measuredDemoCircuit()}
	_, err := backend.SubmitCircuitBatch(context.Background(), batch)
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if f.submits != 0 {
		t.Fatalf("validation failures must not reach the network, got %d submissions", f.submits)
	}
}

func TestSubmitShotMismatchFails(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusReady}}
	backend, _ := newTestBackend(t, f)

	first := circuit.Circuit{
		circuit.NewDefinitionBit("ro", 1, true),
		circuit.NewMeasureQubit(0, "ro", 0),
		circuit.NewPragmaSetNumberOfMeasurements(100, "ro"),
	}
	second := circuit.Circuit{
		circuit.NewDefinitionBit("rx", 1, true),
		circuit.NewMeasureQubit(0, "rx", 0),
		circuit.NewPragmaSetNumberOfMeasurements(200, "rx"),
	}
	_, err := backend.SubmitCircuitBatch(context.Background(), []circuit.Circuit{first, second})
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if f.submits != 0 {
		t.Fatalf("validation failures must not reach the network, got %d submissions", f.submits)
	}
}

func TestSubmitInvalidCircuitNoRequest(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusReady}}
	backend, _ := newTestBackend(t, f)

	offEdge := circuit.Circuit{
		circuit.NewDefinitionBit("ro", 1, true),
		circuit.NewControlledPauliZ(0, 1),
		circuit.NewMeasureQubit(0, "ro", 0),
	}
	_, err := backend.SubmitCircuitBatch(context.Background(), []circuit.Circuit{offEdge})
	var unsupported *devices.UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedOperationError, got %v", err)
	}
	if f.submits != 0 {
		t.Fatalf("validation failures must not reach the network, got %d submissions", f.submits)
	}
}

func TestSubmitToDeviceWithoutEndpointFails(t *testing.T) {
	backend, err := NewBackend(devices.NewResonatorFreeDevice(), "test-token")
	require.NoError(t, err)

	_, err = backend.SubmitCircuitBatch(context.Background(), []circuit.Circuit{measuredDemoCircuit()})
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchError, got %v", err)
	}
}

func TestNewBackendMissingToken(t *testing.T) {
	t.Setenv(TokenEnvVar, "")
	_, err := NewBackend(devices.NewDemoDevice(), "")
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestNewBackendTokenFromEnvironment(t *testing.T) {
	t.Setenv(TokenEnvVar, "env-token")
	backend, err := NewBackend(devices.NewDemoDevice(), "")
	require.NoError(t, err)
	if backend == nil {
		t.Fatal("expected a backend")
	}
}

func TestShotOverrideReachesRequest(t *testing.T) {
	f := &fakeService{statuses: []Status{StatusReady}}
	backend, _ := newTestBackend(t, f, WithShotOverride(42))

	_, err := backend.RunCircuit(context.Background(), measuredDemoCircuit())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.request.Shots != 42 {
		t.Fatalf("expected the override in the request, got %d", f.request.Shots)
	}
}
