package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodlink/internal/bloodbank"
	"bloodlink/pkg/platform/sentinel"
)

func TestSubmit_PostsPayloadWithTokenHeader(t *testing.T) {
	var (
		gotPath   string
		gotHeader string
		gotBody   map[string]any
	)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Get("token")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer backend.Close()

	c := New(backend.URL)
	ack, err := c.Submit(context.Background(), bloodbank.Payload{Token: "tok-1", OPositive: 7})
	require.NoError(t, err)

	assert.Equal(t, SubmitPath, gotPath)
	assert.Equal(t, "tok-1", gotHeader)
	assert.Equal(t, "tok-1", gotBody["token"])
	assert.EqualValues(t, 7, gotBody["O_positive"])
	assert.EqualValues(t, 0, gotBody["AB_negative"])
	assert.Equal(t, http.StatusCreated, ack.StatusCode)
	assert.JSONEq(t, `{"message":"ok"}`, string(ack.Body))
}

func TestSubmit_NonSuccessStatusIsUnavailable(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer backend.Close()

	_, err := New(backend.URL).Submit(context.Background(), bloodbank.Payload{Token: "expired"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, 1, calls, "submissions are never retried")
}

func TestSubmit_TransportErrorIsUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := backend.URL
	backend.Close()

	_, err := New(url).Submit(context.Background(), bloodbank.Payload{Token: "tok"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestSubmit_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer backend.Close()
	defer close(release)

	_, err := New(backend.URL, WithTimeout(50*time.Millisecond)).Submit(context.Background(), bloodbank.Payload{Token: "tok"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
