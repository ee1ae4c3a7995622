package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

func TestHTTPTransportUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/sessions", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"","payload":[{"id":1,"name":"2019 Fall"}]}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, time.Second)
	raw, err := tr.Get(context.Background(), "/admin/sessions")
	require.NoError(t, err)

	var sessions []map[string]any
	require.NoError(t, json.Unmarshal(raw, &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "2019 Fall", sessions[0]["name"])
}

func TestHTTPTransportEnvelopeErrorBecomesValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The backend reports validation failures inside a 200 response.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","message":"name is required","payload":null}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, time.Second)
	_, err := tr.Post(context.Background(), "/admin/sessions", map[string]string{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	assert.Contains(t, err.Error(), "name is required")
}

func TestHTTPTransportNon2xxIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, time.Second)
	_, err := tr.Get(context.Background(), "/admin/sessions")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrTransportFailure.Code))
}

func TestHTTPTransportPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "MAT135H1F", body["position_code"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"","payload":{"id":10,"position_code":"MAT135H1F"}}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, time.Second)
	raw, err := tr.Post(context.Background(), "/admin/sessions/1/positions", map[string]string{"position_code": "MAT135H1F"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":10`)
}

func TestHTTPTransportUnreachableHost(t *testing.T) {
	tr := NewHTTPTransport("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := tr.Get(context.Background(), "/admin/sessions")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrTransportFailure.Code))
}
