package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/chatlens/pkg/retry"
)

type Option func(*baseProvider)

// WithBaseURL points the provider at another endpoint, e.g. a proxy or a test server.
func WithBaseURL(url string) Option {
	return func(b *baseProvider) {
		if url != "" {
			b.baseURL = url
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(b *baseProvider) { b.client = c }
}

func WithRetrier(r *retry.Retrier) Option {
	return func(b *baseProvider) { b.retrier = r }
}

type baseProvider struct {
	client  *http.Client
	retrier *retry.Retrier
	name    string
	envVar  string
	baseURL string
	apiKey  string
	model   string
}

func newBaseProvider(name, envVar, baseURL, apiKey, model string, opts []Option) baseProvider {
	b := baseProvider{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		retrier: retry.NewDefaultRetrier(),
		name:    name,
		envVar:  envVar,
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *baseProvider) Name() string {
	return b.name
}

func (b *baseProvider) requireKey() error {
	if b.apiKey == "" {
		return &CredentialError{Provider: b.name, EnvVar: b.envVar, Missing: true}
	}
	return nil
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}

// post sends body to path with retries and hands a 2xx payload to decode.
func (b *baseProvider) post(ctx context.Context, path string, body any, headers map[string]string, decode func([]byte) (string, error)) (string, error) {
	var out string
	err := b.retrier.Do(ctx, func() error {
		resp, err := b.doRequest(ctx, http.MethodPost, path, body, headers)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return b.classify(resp.StatusCode, data)
		}

		text, err := decode(data)
		if err != nil {
			return retry.Permanent(err)
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
