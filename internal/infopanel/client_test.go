package infopanel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viajeia/internal/infopanel"
	"viajeia/internal/model"
)

func TestFetch_decodesOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/info-panel", r.URL.Path)
		assert.Equal(t, "Buenos Aires", r.URL.Query().Get("ciudad"))
		_, _ = w.Write([]byte(`{"temperatura":21.4,"descripcion_clima":"clear sky","tipo_cambio_usd":0.0011,"ciudad":"Buenos Aires"}`))
	}))
	defer srv.Close()

	info, err := infopanel.NewClient(srv.URL, nil).Fetch(context.Background(), "Buenos Aires")
	require.NoError(t, err)

	require.NotNil(t, info.Temperature)
	assert.InDelta(t, 21.4, *info.Temperature, 0.001)
	assert.Nil(t, info.EURRate)
	assert.Nil(t, info.LocalTime)

	assert.Equal(t, []string{
		"Weather: 21°C, clear sky in Buenos Aires",
		"USD: 0.0011",
	}, infopanel.Lines(info))
}

func TestFetch_emptyCityIsPermitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, r.URL.Query().Has("ciudad"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	info, err := infopanel.NewClient(srv.URL, nil).Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, infopanel.Lines(info))
}

func TestFetch_errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"weather provider down"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := infopanel.NewClient(srv.URL, nil).Fetch(context.Background(), "Lima")
	assert.ErrorIs(t, err, model.ErrService)

	down := httptest.NewServer(http.NotFoundHandler())
	url := down.URL
	down.Close()
	_, err = infopanel.NewClient(url, nil).Fetch(context.Background(), "Lima")
	assert.ErrorIs(t, err, model.ErrConnectivity)
}
