package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.PresignBatch(OutcomeOK, 3)
	m.PresignBatch(OutcomeInvalid, 5)
	m.Delete(OutcomeOK)
	m.Delete(OutcomeError)
	m.Delete(OutcomeError)
	m.DownloadURL(true)
	m.DownloadURL(false)
	m.DownloadURL(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.presignBatches.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.presignBatches.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.presignedFiles))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.deletes.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.downloadURLs.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.downloadURLs.WithLabelValues("miss")))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.PresignBatch(OutcomeOK, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `assetvault_presign_batches_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), "assetvault_presigned_files_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_Independent(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}
