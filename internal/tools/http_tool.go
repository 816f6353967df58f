package tools

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
	"github.com/rs/zerolog"

	"toolforge/internal/definition"
	"toolforge/internal/schema"
)

// HTTPTool is a tool fabricated from a Definition. Each invocation performs
// exactly one HTTP request.
type HTTPTool struct {
	def     definition.Definition
	client  *http.Client
	baseURL *url.URL
	logger  zerolog.Logger
}

// Option configures an HTTPTool.
type Option func(*HTTPTool)

// WithHTTPClient sets the client used for requests. Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(t *HTTPTool) {
		if client != nil {
			t.client = client
		}
	}
}

// WithBaseURL resolves relative URL templates against base.
func WithBaseURL(base *url.URL) Option {
	return func(t *HTTPTool) {
		t.baseURL = base
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(t *HTTPTool) {
		t.logger = logger
	}
}

// NewHTTPTool builds a tool from def. Incomplete definitions still produce a
// tool; invoking it fails with TOOL_MISCONFIGURED.
func NewHTTPTool(def definition.Definition, opts ...Option) *HTTPTool {
	t := &HTTPTool{
		def:    def,
		client: http.DefaultClient,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With().
		Str("component", "http_tool").
		Str("tool", def.ID).
		Logger()
	return t
}

func (t *HTTPTool) Name() string {
	return t.def.ID
}

func (t *HTTPTool) Description() string {
	return t.def.Description
}

func (t *HTTPTool) InputSchema() *schema.Schema {
	return t.def.InputSchema
}

func (t *HTTPTool) OutputSchema() *schema.Schema {
	return t.def.OutputSchema
}

// Definition returns the definition the tool was built from.
func (t *HTTPTool) Definition() definition.Definition {
	return t.def
}

// Call decodes args as a JSON object, invokes the tool and returns the raw
// JSON response body.
func (t *HTTPTool) Call(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	decoded, err := schema.DecodeArgs(args)
	if err != nil {
		return nil, NewInvalidInputError(t.def.ID, err)
	}
	return t.do(ctx, decoded)
}

// Invoke validates args, performs the request and returns the decoded
// response body.
func (t *HTTPTool) Invoke(ctx context.Context, args *schema.Args) (any, error) {
	body, err := t.do(ctx, args)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, NewResponseParseError(t.def.ID, err)
	}
	return out, nil
}

func (t *HTTPTool) do(ctx context.Context, args *schema.Args) (json.RawMessage, error) {
	if missing := t.def.Missing(); len(missing) > 0 {
		return nil, NewToolMisconfiguredError(t.def.ID, missing)
	}

	values, err := t.def.InputSchema.Validate(args)
	if err != nil {
		return nil, NewInvalidInputError(t.def.ID, err)
	}

	req, err := t.newRequest(ctx, values)
	if err != nil {
		return nil, NewRequestBuildError(t.def.ID, err)
	}

	invocationID := uuid.NewString()
	start := time.Now()
	t.logger.Debug().
		Str("invocation_id", invocationID).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("Invoking tool")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug().
			Err(err).
			Str("invocation_id", invocationID).
			Msg("Tool request failed")
		return nil, NewTransportError(t.def.ID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(t.def.ID, fmt.Errorf("failed to read response: %w", err))
	}

	t.logger.Debug().
		Str("invocation_id", invocationID).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Tool responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPStatusError(t.def.ID, resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, NewResponseParseError(t.def.ID, errors.New("invalid JSON in response body"))
	}
	return json.RawMessage(body), nil
}

func (t *HTTPTool) newRequest(ctx context.Context, values *schema.Values) (*http.Request, error) {
	target, err := t.resolveURL()
	if err != nil {
		return nil, err
	}

	switch t.def.Method {
	case definition.MethodGet:
		return http.NewRequestWithContext(ctx, http.MethodGet, appendQuery(target, values), nil)
	case definition.MethodPost:
		payload, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	default:
		return nil, fmt.Errorf("unsupported request type %q", t.def.Method)
	}
}

func (t *HTTPTool) resolveURL() (string, error) {
	u, err := url.Parse(t.def.URL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", t.def.URL, err)
	}
	if u.IsAbs() {
		return t.def.URL, nil
	}
	if t.baseURL == nil {
		return "", fmt.Errorf("relative url %q and no base url configured", t.def.URL)
	}
	return t.baseURL.ResolveReference(u).String(), nil
}

// appendQuery adds values to target in their iteration order, using "&" when
// target already carries a query string.
func appendQuery(target string, values *schema.Values) string {
	if values.Len() == 0 {
		return target
	}

	params := make([]string, 0, values.Len())
	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		params = append(params, url.QueryEscape(pair.Key)+"="+url.QueryEscape(pair.Value.QueryString()))
	}

	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + strings.Join(params, "&")
}
