package vectorizer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x > w/4 && x < 3*w/4 && y > h/4 && y < 3*h/4 {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestResolveCredentials(t *testing.T) {
	configured := Credentials{ID: "cfg-id", Secret: "cfg-secret"}

	tests := []struct {
		name    string
		request Credentials
		cfg     Credentials
		want    Credentials
		wantErr bool
	}{
		{name: "使用请求凭证", request: Credentials{ID: "id", Secret: "s"}, cfg: configured, want: Credentials{ID: "id", Secret: "s"}},
		{name: "占位符回退到配置", request: Credentials{ID: placeholderID, Secret: placeholderSecret}, cfg: configured, want: configured},
		{name: "空白回退到配置", request: Credentials{ID: " ", Secret: ""}, cfg: configured, want: configured},
		{name: "只填了 secret", request: Credentials{ID: "", Secret: "s"}, cfg: configured, wantErr: true},
		{name: "都没有", request: Credentials{}, cfg: Credentials{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCredentials(tt.request, tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingCredentials)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIClient_Vectorize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", id)
		assert.Equal(t, "secret", secret)

		if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
			return
		}
		assert.Equal(t, "test", r.FormValue("mode"))
		assert.Equal(t, "svg", r.FormValue("output.file_format"))
		assert.Equal(t, "8", r.FormValue("processing.max_colors"))
		assert.Equal(t, "0.125", r.FormValue("processing.shapes.min_area_px"))
		assert.Equal(t, "false", r.FormValue("output.gap_filler.enabled"))
		assert.Empty(t, r.FormValue("output.svg.adobe_compatibility_mode"))

		f, _, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer func() {
			_ = f.Close()
		}()
		img, err := png.Decode(f)
		if assert.NoError(t, err) {
			assert.Equal(t, 32, img.Bounds().Dx())
			assert.Equal(t, 16, img.Bounds().Dy())
		}

		_, _ = io.WriteString(w, `<svg xmlns="http://www.w3.org/2000/svg"/>`)
	}))
	defer server.Close()

	c := NewAPIClient(Credentials{ID: "id", Secret: "secret"},
		WithEndpoint(server.URL),
		WithMaxUploadSize(32),
		WithTimeout(5*time.Second))

	opts := DefaultOptions()
	opts.Mode = "test"
	opts.MaxColors = 8

	res, err := c.Vectorize(context.Background(), testImage(64, 32), opts)
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, res.Format)
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg"/>`, string(res.Data))
}

func TestAPIClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, "no credits")
	}))
	defer server.Close()

	c := NewAPIClient(Credentials{ID: "id", Secret: "secret"}, WithEndpoint(server.URL))
	_, err := c.Vectorize(context.Background(), testImage(8, 8), DefaultOptions())
	assert.ErrorContains(t, err, "no credits")

	_, err = NewAPIClient(Credentials{ID: placeholderID}).Vectorize(context.Background(), testImage(8, 8), DefaultOptions())
	assert.ErrorIs(t, err, ErrMissingCredentials)

	opts := DefaultOptions()
	opts.Format = "eps"
	_, err = c.Vectorize(context.Background(), testImage(8, 8), opts)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestResizeWithinMax(t *testing.T) {
	img := testImage(100, 50)
	assert.Same(t, img, resizeWithinMax(img, 0))
	assert.Same(t, img, resizeWithinMax(img, 100))

	small := resizeWithinMax(img, 10)
	assert.Equal(t, 10, small.Bounds().Dx())
	assert.Equal(t, 5, small.Bounds().Dy())
}

func TestTracer_Vectorize(t *testing.T) {
	res, err := NewTracer().Vectorize(context.Background(), testImage(32, 32), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, res.Format)
	assert.Contains(t, string(res.Data), "<svg")

	opts := DefaultOptions()
	opts.Format = FormatPNG
	_, err = NewTracer().Vectorize(context.Background(), testImage(8, 8), opts)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

type countingVectorizer struct {
	calls int
	err   error
}

func (c *countingVectorizer) Vectorize(_ context.Context, _ image.Image, opts Options) (*Result, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &Result{Format: opts.Format, Data: []byte("<svg/>")}, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string]*Result
}

func (m *memCache) Get(_ context.Context, key string) (*Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[key]
	return r, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, r *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = r
	return nil
}

func TestCached(t *testing.T) {
	next := &countingVectorizer{}
	v := NewCached(next, &memCache{data: map[string]*Result{}})
	img := testImage(16, 16)

	for i := 0; i < 3; i++ {
		res, err := v.Vectorize(context.Background(), img, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, "<svg/>", string(res.Data))
	}
	assert.Equal(t, 1, next.calls)

	// 参数不同不命中
	opts := DefaultOptions()
	opts.MaxColors = 4
	_, err := v.Vectorize(context.Background(), img, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)

	assert.Same(t, next, NewCached(next, nil))
}

func TestCached_ErrorNotCached(t *testing.T) {
	next := &countingVectorizer{err: errors.New("api down")}
	cache := &memCache{data: map[string]*Result{}}
	v := NewCached(next, cache)

	_, err := v.Vectorize(context.Background(), testImage(4, 4), DefaultOptions())
	assert.Error(t, err)
	assert.Empty(t, cache.data)
}

func TestRedisCache_Unreachable(t *testing.T) {
	c := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1", TTL: time.Minute})
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := c.Ping(ctx)
	assert.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "PONG"))
}
