package photos_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viajeia/internal/model"
	"viajeia/internal/photos"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetch_downscalesLargePhotos(t *testing.T) {
	big := pngBytes(t, 2400, 1200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	img, err := photos.NewFetcher(nil).Fetch(context.Background(), srv.URL+"/big.png")
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestFetch_cachesDecodedPhotos(t *testing.T) {
	var hits int32
	small := pngBytes(t, 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(small)
	}))
	defer srv.Close()

	f := photos.NewFetcher(nil)
	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), srv.URL+"/a.png")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetch_failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("definitely not an image"))
	}))
	defer srv.Close()

	f := photos.NewFetcher(nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/garbage.png")
	assert.ErrorIs(t, err, photos.ErrUndecodable)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.png")
	assert.ErrorIs(t, err, model.ErrService)
}

func TestFetchAll_keepsInputOrder(t *testing.T) {
	small := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			_, _ = w.Write([]byte("nope"))
			return
		}
		_, _ = w.Write(small)
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/1", srv.URL + "/bad", srv.URL + "/3", srv.URL + "/4", srv.URL + "/5"}
	results := photos.NewFetcher(nil).FetchAll(context.Background(), urls)

	require.Len(t, results, len(urls))
	for i, r := range results {
		assert.Equal(t, urls[i], r.URL)
		if i == 1 {
			assert.Error(t, r.Err)
			assert.Nil(t, r.Image)
			continue
		}
		assert.NoError(t, r.Err)
		assert.NotNil(t, r.Image)
	}
}
