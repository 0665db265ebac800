// Package apiclient is the single outbound path to the remote REST API.
//
// Every call goes through Gateway.Do, which sets the JSON headers, lets the
// bearer transport attach the session credential and turns every error into
// a *domain.Failure. Nothing is retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/metrics"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// TokenSource returns the bearer credential for the request's context, or
// an empty string to send the request unauthenticated.
type TokenSource func(ctx context.Context) string

// Config captures the settings of the gateway.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

type Gateway struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	next := cfg.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = func(context.Context) string { return "" }
	}

	var rt http.RoundTripper = &bearerTransport{next: next, tokens: tokens}
	rt = promhttp.InstrumentRoundTripperDuration(metrics.UpstreamRequestDuration, rt)
	rt = promhttp.InstrumentRoundTripperCounter(metrics.UpstreamRequestsTotal, rt)
	rt = promhttp.InstrumentRoundTripperInFlight(metrics.UpstreamInFlight, rt)

	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout, Transport: rt},
		log:     log.With().Str("component", "apiclient").Logger(),
	}
}

// BaseURL returns the address every path is resolved against.
func (g *Gateway) BaseURL() string { return g.baseURL }

// bearerTransport adds "Authorization: Bearer <token>" when the context
// carries a credential.
type bearerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.tokens(req.Context()); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.next.RoundTrip(req)
}

// errorBody is the error envelope of the remote API. Some endpoints use
// "error" instead of "message".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Do sends in as the JSON body (when non-nil) and decodes the response into
// out (when non-nil and the body is not empty).
func (g *Gateway) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return domain.Invalid(fmt.Sprintf("no se pudo codificar la solicitud: %v", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return domain.Unreachable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("api call failed")
		return domain.Unreachable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Unreachable(fmt.Errorf("read response: %w", err))
	}

	g.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if resp.StatusCode >= http.StatusBadRequest {
		return rejection(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if method == http.MethodGet {
			return domain.Unreachable(fmt.Errorf("decode response: %w", err))
		}
		// The API accepted the change; a plain-text answer does not undo it.
		g.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("ignoring undecodable success body")
	}
	return nil
}

// Probe issues a GET to path and reports the status code. Any answer, even
// an error status, means the API is reachable.
func (g *Gateway) Probe(ctx context.Context, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return 0, domain.Unreachable(fmt.Errorf("build request: %w", err))
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, domain.Unreachable(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return resp.StatusCode, nil
}

func rejection(status int, raw []byte) *domain.Failure {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return domain.Rejected(status, "")
	}
	if eb.Message != "" {
		return domain.Rejected(status, eb.Message)
	}
	return domain.Rejected(status, eb.Error)
}
