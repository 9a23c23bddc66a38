package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospector/internal/entity"
)

func TestSend(t *testing.T) {
	var got entity.Lead
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := NewClient(time.Second).Send(context.Background(), srv.URL, &entity.Lead{ID: "l1", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)
}

func TestSend_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(time.Second).Send(context.Background(), srv.URL, &entity.Lead{ID: "l1"})
	assert.ErrorContains(t, err, "status 500")
}
