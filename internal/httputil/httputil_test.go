// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONDecodesBody(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"name": "test", "count": 3}`))
	}))
	defer ts.Close()

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	err := GetJSON(context.Background(), ts.Client(), ts.URL, "agripapers/test", &out)
	require.NoError(t, err)

	assert.Equal(t, "test", out.Name)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, "agripapers/test", gotUA)
}

func TestGetJSONNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	var out map[string]any
	err := GetJSON(context.Background(), ts.Client(), ts.URL, "", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "nope")
}

func TestGetJSONMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	var out map[string]any
	err := GetJSON(context.Background(), ts.Client(), ts.URL, "", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestGetJSONContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]any
	err := GetJSON(ctx, ts.Client(), ts.URL, "", &out)
	require.Error(t, err)
}
