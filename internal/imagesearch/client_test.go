package imagesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workhub-io/assistant/internal/config"
)

func TestSearch_ReturnsFirstResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "spring launch", r.URL.Query().Get("q"))
		require.Equal(t, "Bearer img-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"results":[{"url":"https://img.example.com/1.jpg"},{"url":"https://img.example.com/2.jpg"}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.ImageSearchConfig{URL: srv.URL, APIKey: "img-key"})
	got, err := c.Search(context.Background(), "spring launch")
	require.NoError(t, err)
	require.Equal(t, "https://img.example.com/1.jpg", got)
}

func TestSearch_NoResultsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient(config.ImageSearchConfig{URL: srv.URL})
	got, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSearch_UnconfiguredProviderIsSilent(t *testing.T) {
	c := NewClient(config.ImageSearchConfig{})
	got, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Empty(t, got)
}
