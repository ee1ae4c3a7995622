// Package transport carries raw JSON between the client and a TAPP backend.
// Paths are rooted at the API prefix and already carry their role prefix;
// the transport knows nothing about roles or sessions.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

// Transport is the asynchronous key-value fetch/post contract the client
// consumes.
type Transport interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string) (json.RawMessage, error)
}

// envelope is the response wrapper the TAPP backend emits on every route.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

// HTTPTransport implements Transport over net/http.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport builds a transport rooted at baseURL.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Get performs a GET and unwraps the response envelope.
func (t *HTTPTransport) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return t.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST with a JSON body and unwraps the response envelope.
func (t *HTTPTransport) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return t.do(ctx, http.MethodPost, path, body)
}

// Delete performs a DELETE and unwraps the response envelope.
func (t *HTTPTransport) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return t.do(ctx, http.MethodDelete, path, nil)
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransportFailure.Code, appErrors.ErrTransportFailure.Status, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransportFailure.Code, appErrors.ErrTransportFailure.Status, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransportFailure.Code, appErrors.ErrTransportFailure.Status, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, appErrors.New(appErrors.ErrTransportFailure.Code, resp.StatusCode, fmt.Sprintf("%s %s returned %d", method, path, resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransportFailure.Code, appErrors.ErrTransportFailure.Status, "decode response envelope")
	}
	if env.Status != "success" {
		// The backend signals validation failures through the envelope with
		// a 2xx status code; they surface as typed errors here.
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, env.Message)
	}

	return env.Payload, nil
}
