package iqm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/qrithm/iqm-client/circuit"
	"github.com/qrithm/iqm-client/devices"
	"github.com/qrithm/iqm-client/internal/httputil"
	"github.com/qrithm/iqm-client/iqm/metrics"
)

// TokenEnvVar is the environment variable consulted for the IQM access
// token when none is passed explicitly.
const TokenEnvVar = "IQM_TOKEN"

const (
	defaultTimeout      = 60 * time.Second
	defaultPollInterval = time.Second
	defaultUserAgent    = "iqm-go-client"
)

// Backend executes circuits on a remote IQM device. It validates and
// translates circuits locally, submits them as jobs and reassembles the
// returned measurement data into output registers.
//
// A Backend is safe for concurrent use.
type Backend struct {
	device devices.Device
	client *httputil.Client
	log    logrus.FieldLogger

	timeout       time.Duration
	pollInterval  time.Duration
	overrideShots int
	heralding     HeraldingMode
}

// Option configures a Backend.
type Option func(*backendConfig)

type backendConfig struct {
	httpClient    *http.Client
	log           logrus.FieldLogger
	timeout       time.Duration
	pollInterval  time.Duration
	overrideShots int
	heralding     HeraldingMode
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *backendConfig) { cfg.httpClient = c }
}

// WithLogger substitutes the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(cfg *backendConfig) { cfg.log = log }
}

// WithTimeout sets the total wall-clock budget for waiting on a job.
func WithTimeout(d time.Duration) Option {
	return func(cfg *backendConfig) { cfg.timeout = d }
}

// WithPollInterval sets the pause between job status requests.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *backendConfig) { cfg.pollInterval = d }
}

// WithShotOverride forces the shot count of every submitted circuit,
// taking precedence over any count the circuits themselves specify.
func WithShotOverride(shots int) Option {
	return func(cfg *backendConfig) { cfg.overrideShots = shots }
}

// WithHeraldingMode selects the service's heralding behavior. With
// HeraldingZeros the returned shot count may be lower than requested.
func WithHeraldingMode(mode HeraldingMode) Option {
	return func(cfg *backendConfig) { cfg.heralding = mode }
}

// NewBackend creates a backend for the given device. An empty token
// falls back to the IQM_TOKEN environment variable; if that is unset
// too, ErrMissingToken is returned.
func NewBackend(device devices.Device, token string, opts ...Option) (*Backend, error) {
	if token == "" {
		token = os.Getenv(TokenEnvVar)
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := backendConfig{
		log:          logrus.StandardLogger(),
		timeout:      defaultTimeout,
		pollInterval: defaultPollInterval,
		heralding:    HeraldingNone,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := httputil.NewClient(httputil.Config{
		Token:      token,
		UserAgent:  defaultUserAgent,
		HTTPClient: cfg.httpClient,
		Limiter:    rate.NewLimiter(10, 10),
	})

	return &Backend{
		device:        device,
		client:        client,
		log:           cfg.log.WithField("device", device.Name()),
		timeout:       cfg.timeout,
		pollInterval:  cfg.pollInterval,
		overrideShots: cfg.overrideShots,
		heralding:     cfg.heralding,
	}, nil
}

// Device returns the device this backend submits to.
func (b *Backend) Device() devices.Device { return b.device }

// Job identifies a submitted job and carries the output registers its
// results will be written into.
type Job struct {
	ID        string
	Registers Registers

	submitted time.Time
}

// SubmitCircuitBatch validates, translates and submits a batch of
// circuits as one job. The circuits must write to distinct output
// registers and agree on the shot count. No network request is made
// before the whole batch has passed validation.
func (b *Backend) SubmitCircuitBatch(ctx context.Context, batch []circuit.Circuit) (*Job, error) {
	host := b.device.RemoteHost()
	if host == "" {
		return nil, &BatchError{Msg: fmt.Sprintf("device %s has no remote endpoint to submit to", b.device.Name())}
	}
	if len(batch) == 0 {
		return nil, &BatchError{Msg: "an empty circuit batch was passed to the backend"}
	}
	if err := validateCircuitBatch(batch); err != nil {
		return nil, err
	}

	wireCircuits := make([]WireCircuit, 0, len(batch))
	registers := make(Registers)
	shots := 0
	for i, c := range batch {
		if err := ValidateCircuit(c, b.device); err != nil {
			return nil, err
		}
		wc, mqm, circuitShots, err := TranslateCircuit(c, b.device.NumberQubits(), b.overrideShots, i+1)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			shots = circuitShots
		} else if circuitShots != shots {
			return nil, &BatchError{Msg: fmt.Sprintf(
				"circuits in a batch need to request the same number of shots: found %d and %d", shots, circuitShots)}
		}
		for name, rec := range mqm {
			registers[name] = NewBitOutputRegister(circuitShots, rec.Length)
		}
		wireCircuits = append(wireCircuits, wc)
	}

	request := RunRequest{
		Circuits:      wireCircuits,
		Shots:         shots,
		HeraldingMode: b.heralding,
	}

	resp, err := b.client.PostJSON(ctx, host, &request)
	if err != nil {
		return nil, fmt.Errorf("submit job: %w", err)
	}
	var submitted struct {
		ID string `json:"id"`
	}
	if err := httputil.DecodeResponse(resp, &submitted); err != nil {
		return nil, fmt.Errorf("submit job: %w", err)
	}

	metrics.RecordSubmission(b.device.Name())
	b.log.WithFields(logrus.Fields{
		"job":      submitted.ID,
		"circuits": len(batch),
		"shots":    shots,
	}).Info("job submitted")

	return &Job{ID: submitted.ID, Registers: registers, submitted: time.Now()}, nil
}

// JobStatus fetches the current state of a job. For finished jobs the
// returned result carries the measurement payload.
func (b *Backend) JobStatus(ctx context.Context, id string) (*RunResult, error) {
	resp, err := b.client.Get(ctx, b.device.RemoteHost()+"/"+id)
	if err != nil {
		return nil, fmt.Errorf("fetch job status: %w", err)
	}
	var result RunResult
	if err := httputil.DecodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("fetch job status: %w", err)
	}
	metrics.RecordStatusPoll(b.device.Name())
	return &result, nil
}

// WaitForResults polls the job until it reaches a terminal state or the
// backend's wall-clock budget runs out. A failed job yields a
// *JobFailedError, an aborted one a *JobAbortedError and an exhausted
// budget a *JobTimeoutError.
func (b *Backend) WaitForResults(ctx context.Context, job *Job) (*RunResult, error) {
	start := job.submitted
	if start.IsZero() {
		start = time.Now()
	}
	deadline := start.Add(b.timeout)

	for {
		result, err := b.JobStatus(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		b.log.WithFields(logrus.Fields{"job": job.ID, "status": result.Status}).Debug("job status")

		if result.Status.Terminal() {
			metrics.RecordJobFinished(b.device.Name(), string(result.Status), time.Since(start))
			switch result.Status {
			case StatusReady:
				return result, nil
			case StatusFailed:
				return nil, &JobFailedError{ID: job.ID, Message: result.Message}
			default:
				return nil, &JobAbortedError{ID: job.ID}
			}
		}

		if time.Now().After(deadline) {
			return nil, &JobTimeoutError{ID: job.ID, Budget: b.timeout}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.pollInterval):
		}
	}
}

// AbortJob asks the service to abort a job. Jobs already past the point
// of no return cannot be aborted; the service's explanation is carried
// in the returned *AbortFailedError.
func (b *Backend) AbortJob(ctx context.Context, id string) error {
	// The abort path hangs off a "jobs" segment of its own, appended to
	// the submission endpoint.
	resp, err := b.client.PostJSON(ctx, b.device.RemoteHost()+"/jobs/"+id+"/abort", nil)
	if err != nil {
		return fmt.Errorf("abort job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		b.log.WithField("job", id).Info("job aborted")
		return nil
	}

	body, _, err := httputil.ReadAllWithLimit(resp.Body, 64<<10)
	if err != nil {
		return fmt.Errorf("abort job: read response: %w", err)
	}
	detail := strings.TrimSpace(string(body))
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Detail != "" {
		detail = payload.Detail
	}
	return &AbortFailedError{ID: id, Detail: detail}
}

// QuantumArchitecture fetches the device's architecture description
// from the service and returns it verbatim.
func (b *Backend) QuantumArchitecture(ctx context.Context) (string, error) {
	url := strings.Replace(b.device.RemoteHost(), "jobs", "quantum-architecture", 1)
	resp, err := b.client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch quantum architecture: %w", err)
	}
	defer resp.Body.Close()

	body, _, err := httputil.ReadAllWithLimit(resp.Body, 8<<20)
	if err != nil {
		return "", fmt.Errorf("fetch quantum architecture: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &httputil.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return string(body), nil
}

// RunCircuitBatch submits a batch, waits for its results and writes
// them into the output registers declared by the circuits.
func (b *Backend) RunCircuitBatch(ctx context.Context, batch []circuit.Circuit) (Registers, error) {
	job, err := b.SubmitCircuitBatch(ctx, batch)
	if err != nil {
		return nil, err
	}
	result, err := b.WaitForResults(ctx, job)
	if err != nil {
		return nil, err
	}
	for _, warning := range result.Warnings {
		b.log.WithField("job", job.ID).Warn(warning)
	}
	if err := ResultsToRegisters(result, job.ID, job.Registers); err != nil {
		return nil, err
	}
	return job.Registers, nil
}

// RunCircuit runs a single circuit. See RunCircuitBatch.
func (b *Backend) RunCircuit(ctx context.Context, c circuit.Circuit) (Registers, error) {
	return b.RunCircuitBatch(ctx, []circuit.Circuit{c})
}
