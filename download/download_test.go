package download_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poldracklab/labutils/download"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = "subject,age\nsub-01,23\nsub-02,31\n"

func fast() download.Option { return download.WithInitialBackoff(time.Millisecond) }

func TestFile_CreatesDirectoryAndWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "deeper", "participants.csv")
	n, err := download.File(context.Background(), srv.URL, dest, download.WithChunkSize(4))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFile_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	retries := 0
	dest := filepath.Join(t.TempDir(), "f.csv")
	n, err := download.File(context.Background(), srv.URL, dest, fast(),
		download.OnRetry(func(error, time.Duration) { retries++ }))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, 2, retries)
}

func TestFile_GivesUpAfterMaxRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "f.csv")
	_, err := download.File(context.Background(), srv.URL, dest, fast(), download.WithMaxRetries(2))
	assert.ErrorIs(t, err, download.ErrHTTPStatus)
	assert.Equal(t, int32(3), hits.Load())
	assert.NoFileExists(t, dest)
}

func TestFile_NonRetryableStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing.nii.gz")
	_, err := download.File(context.Background(), srv.URL, dest, fast())
	require.ErrorIs(t, err, download.ErrHTTPStatus)
	assert.True(t, strings.Contains(err.Error(), "404"))
	assert.Equal(t, int32(1), hits.Load())
	assert.NoFileExists(t, dest)

	// 404 becomes retryable when listed
	hits.Store(0)
	_, err = download.File(context.Background(), srv.URL, dest, fast(),
		download.WithMaxRetries(1), download.WithRetryStatuses(http.StatusNotFound))
	assert.ErrorIs(t, err, download.ErrHTTPStatus)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFile_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := download.File(ctx, srv.URL, filepath.Join(t.TempDir(), "x"), fast())
	assert.ErrorIs(t, err, context.Canceled)
}
