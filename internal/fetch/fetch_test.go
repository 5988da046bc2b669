package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jengzang/contour-backend/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteURL(t *testing.T) {
	tests := map[string]string{
		"https://drive.google.com/file/d/1F2Pzo2IYYPhPmU_mryjR6flz2vUDr5Zy/view?usp=sharing": "https://drive.google.com/uc?export=download&id=1F2Pzo2IYYPhPmU_mryjR6flz2vUDr5Zy",
		"https://drive.google.com/open?id=1b51dmOYwspNVMsaSoED2xUT3pfNq563B":                 "https://drive.google.com/uc?export=download&id=1b51dmOYwspNVMsaSoED2xUT3pfNq563B",
		"https://example.com/data.csv":                                                        "https://example.com/data.csv",
		"https://drive.google.com/short":                                                      "https://drive.google.com/short",
	}
	for in, want := range tests {
		assert.Equal(t, want, RewriteURL(in), in)
	}
}

func TestKeySeparatesOperations(t *testing.T) {
	assert.NotEqual(t, Key("file", "https://a.example/x"), Key("contour", "https://a.example/x"))
	assert.Equal(t, Key("file", "https://a.example/x"), Key("file", "https://a.example/x"))
}

func TestFetchCaches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), cache.NewMemory(0), time.Second, 1<<20)
	upper := func(b []byte) ([]byte, error) { return []byte(strings.ToUpper(string(b))), nil }

	for i := 0; i < 2; i++ {
		res, err := f.Fetch(context.Background(), srv.URL, "upper", upper)
		require.NoError(t, err)
		assert.Equal(t, "A,B\n1,2\n", string(res.Body))
		assert.Equal(t, "text/csv", res.ContentType)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	res, err := f.Fetch(context.Background(), srv.URL, "file", Identity)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(res.Body))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	mem := cache.NewMemory(0)
	f := NewFetcher(srv.Client(), mem, time.Second, 50)

	_, err := f.Fetch(context.Background(), srv.URL+"/missing", "file", Identity)
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = f.Fetch(context.Background(), srv.URL+"/big", "file", Identity)
	assert.ErrorIs(t, err, ErrUpstream)

	assert.Equal(t, 0, mem.Len(), "failures are not cached")
}

func TestFetchProcessErrorNotCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	mem := cache.NewMemory(0)
	f := NewFetcher(srv.Client(), mem, time.Second, 1<<20)
	boom := errors.New("boom")

	_, err := f.Fetch(context.Background(), srv.URL, "op", func([]byte) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, mem.Len())
}

func TestFetchHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), cache.NewMemory(0), time.Minute, 1<<20)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, srv.URL, "file", Identity)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
