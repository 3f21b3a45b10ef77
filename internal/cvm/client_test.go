package cvm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDownloadInforme(t *testing.T) {
	t.Run("fetches the monthly archive path", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte("zip-bytes"))
		}))
		defer srv.Close()

		client := NewClient(ClientConfig{BaseURL: srv.URL, RequestsPerSecond: 100, Burst: 10}, nil)
		body, err := client.DownloadInforme(context.Background(), "202401")
		require.NoError(t, err)

		assert.Equal(t, "/FI/DOC/INF_DIARIO/DADOS/inf_diario_fi_202401.zip", gotPath)
		assert.Equal(t, []byte("zip-bytes"), body)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(ClientConfig{BaseURL: srv.URL, RequestsPerSecond: 100, Burst: 10}, nil)
		_, err := client.DownloadInforme(context.Background(), "209901")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 404")
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient(ClientConfig{BaseURL: srv.URL, RequestsPerSecond: 0.001, Burst: 1}, nil)
		// first request consumes the burst token, second must wait and fail
		_, _ = client.DownloadRegistry(context.Background())
		_, err := client.DownloadRegistry(ctx)
		require.Error(t, err)
	})
}

func TestClientDownloadRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/FI/CAD/DADOS/cad_fi.csv", r.URL.Path)
		w.Write([]byte("CNPJ_FUNDO;DENOM_SOCIAL\n"))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:           srv.URL,
		RequestTimeout:    5 * time.Second,
		RequestsPerSecond: 100,
		Burst:             10,
	}, nil)

	body, err := client.DownloadRegistry(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(body), "CNPJ_FUNDO")
}
