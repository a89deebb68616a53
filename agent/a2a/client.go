package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultReadyAttempts = 20
	defaultReadyDelay    = 500 * time.Millisecond
	maxResponseSizeBytes = 4 << 20
)

var tracer = otel.Tracer("github.com/tanpawarit/supportdesk/agent/a2a")

type ClientConfig struct {
	URL           string        `split_words:"true"`
	Timeout       time.Duration `split_words:"true" default:"10s"`
	ReadyAttempts int           `split_words:"true" default:"20"`
	ReadyDelay    time.Duration `split_words:"true" default:"500ms"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("agent base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse agent base url: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func NewClientFromConfig(cfg ClientConfig, opts ...Option) (*Client, error) {
	return NewClient(cfg.URL, append([]Option{WithTimeout(cfg.Timeout)}, opts...)...)
}

// FetchCard retrieves the remote agent's card.
func (c *Client) FetchCard(ctx context.Context) (*AgentCard, error) {
	start := time.Now()
	card, err := c.fetchCard(ctx)
	clientRequests.WithLabelValues("fetch_card", outcome(err)).Inc()
	clientDuration.WithLabelValues("fetch_card").Observe(time.Since(start).Seconds())
	return card, err
}

func (c *Client) fetchCard(ctx context.Context) (*AgentCard, error) {
	endpoint := c.baseURL + CardPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: "fetch card", URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, &TransportError{Op: "fetch card", URL: endpoint, StatusCode: status, Err: err}
	}

	var card AgentCard
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, &TransportError{Op: "fetch card", URL: endpoint, StatusCode: status, Err: fmt.Errorf("decode agent card: %w", err)}
	}
	return &card, nil
}

// SendMessage posts message to the remote agent and returns the raw
// result.message of the reply. When card is nil it is fetched first.
func (c *Client) SendMessage(ctx context.Context, message any, card *AgentCard) (json.RawMessage, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "a2a.send_message", oteltrace.WithAttributes(
		attribute.String("a2a.base_url", c.baseURL),
	))
	defer span.End()

	out, err := c.sendMessage(ctx, message, card)
	clientRequests.WithLabelValues("send_message", outcome(err)).Inc()
	clientDuration.WithLabelValues("send_message").Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (c *Client) sendMessage(ctx context.Context, message any, card *AgentCard) (json.RawMessage, error) {
	if card == nil {
		fetched, err := c.FetchCard(ctx)
		if err != nil {
			return nil, err
		}
		card = fetched
	}
	endpoint := card.Endpoint(c.baseURL)

	rawMessage, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	id := uuid.NewString()
	payload, err := json.Marshal(Request{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  MethodSend,
		Params:  RequestParams{Message: rawMessage},
	})
	if err != nil {
		return nil, fmt.Errorf("encode rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "send message", URL: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("endpoint", endpoint).Str("rpc_id", id).Msg("a2a send message")

	body, status, err := c.do(req)
	if err != nil {
		// Agents answer handler failures with an error envelope and a 4xx/5xx status.
		if rpcErr := decodeRPCError(body); rpcErr != nil {
			return nil, &RemoteAgentError{Code: rpcErr.Code, Message: rpcErr.Message, StatusCode: status}
		}
		return nil, &TransportError{Op: "send message", URL: endpoint, StatusCode: status, Err: err}
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Op: "send message", URL: endpoint, StatusCode: status, Err: fmt.Errorf("decode rpc response: %w", err)}
	}
	if resp.Error != nil {
		return nil, &RemoteAgentError{Code: resp.Error.Code, Message: resp.Error.Message, StatusCode: status}
	}
	if resp.Result == nil {
		return nil, &TransportError{Op: "send message", URL: endpoint, StatusCode: status, Err: errors.New("rpc response has neither result nor error")}
	}
	return resp.Result.Message, nil
}

// WaitUntilReady polls the agent card until it is served, trying at most
// attempts times with a fixed delay between tries.
func (c *Client) WaitUntilReady(ctx context.Context, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		_, err := c.FetchCard(ctx)
		if err == nil {
			log.Debug().Str("agent", c.baseURL).Int("attempt", attempt).Msg("agent ready")
			return nil
		}
		lastErr = err
		log.Debug().Err(err).Str("agent", c.baseURL).Int("attempt", attempt).Msg("agent not ready")

		if attempt == attempts {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("wait for %s: %w", c.baseURL, errors.Join(err, lastErr))
		}
	}
	return fmt.Errorf("agent %s not ready after %d attempts: %w", c.baseURL, attempts, lastErr)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return body, resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body)))
	}
	return body, resp.StatusCode, nil
}

func decodeRPCError(body []byte) *RPCError {
	if len(body) == 0 {
		return nil
	}
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	return resp.Error
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
