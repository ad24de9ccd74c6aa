package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poldracklab/labutils/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := metrics.New("")
	r.ObserveCandidate(1, 0.3)
	r.ObserveCandidate(2, 0.95)
	r.ObserveSplit(true)
	r.ObserveEntrez("esearch.fcgi", nil, 120*time.Millisecond)
	r.ObserveEntrez("efetch.fcgi", errors.New("boom"), time.Second)
	r.ObserveRetry(errors.New("500"), time.Millisecond)
	r.AddDownloadBytes(2048)

	n, err := testutil.GatherAndCount(r.Registry(), "labutils_kfold_candidates_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(`
# HELP labutils_download_bytes_total Bytes written by completed downloads
# TYPE labutils_download_bytes_total counter
labutils_download_bytes_total 2048
# HELP labutils_kfold_candidates_total Candidate partitions scored by BalancedKFold
# TYPE labutils_kfold_candidates_total counter
labutils_kfold_candidates_total 2
# HELP labutils_kfold_splits_total Returned splits by outcome
# TYPE labutils_kfold_splits_total counter
labutils_kfold_splits_total{outcome="accepted"} 1
`), "labutils_download_bytes_total", "labutils_kfold_candidates_total", "labutils_kfold_splits_total"))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *metrics.Recorder
	r.ObserveCandidate(1, 0.5)
	r.ObserveSplit(false)
	r.AddDownloadBytes(10)
	assert.NoError(t, r.WriteTextfile("ignored"))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := metrics.New("lab")
	r.ObserveSplit(false)
	path := filepath.Join(t.TempDir(), "labutils.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lab_kfold_splits_total{outcome="fallback"} 1`)
}
