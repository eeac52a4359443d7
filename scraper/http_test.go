package scraper

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body><table><tr><td>Current PE</td><td>30.0</td></tr></table></body></html>`

func compress(t *testing.T, encoding string, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error

	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w = zlib.NewWriter(&buf)
	case "br":
		w = brotli.NewWriter(&buf)
	case "zstd":
		w, err = zstd.NewWriter(&buf)
	default:
		return body
	}
	require.NoError(t, err)

	_, err = w.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestHTTPFetcher_Encodings(t *testing.T) {
	for _, encoding := range []string{"", "gzip", "deflate", "br", "zstd"} {
		t.Run("encoding "+encoding, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "gzip, deflate, br, zstd", r.Header.Get("Accept-Encoding"))
				assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
				if encoding != "" {
					w.Header().Set("Content-Encoding", encoding)
				}
				_, _ = w.Write(compress(t, encoding, []byte(page)))
			}))
			defer srv.Close()

			f := NewHTTPFetcher(5*time.Second, "test-agent")
			got, err := f.Fetch(context.Background(), srv.URL)

			require.NoError(t, err)
			assert.Equal(t, page, got)
		})
	}
}

func TestHTTPFetcher_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(5*time.Second, "ua").Fetch(context.Background(), srv.URL)
	assert.EqualError(t, err, "received non-200 status code: 404")
}

func TestHTTPFetcher_BadGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write([]byte("plain text"))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(5*time.Second, "ua").Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "gzip")
}

func TestHTTPFetcher_RawDeflateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "deflate")
		_, _ = w.Write([]byte("not a zlib stream"))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(5*time.Second, "ua").Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "deflate")
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(5*time.Second, "ua").Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
