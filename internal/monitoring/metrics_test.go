package monitoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crimemap/internal/crime"
)

func TestObserveFilter(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveFilter(crime.Result{
		Year:  2018,
		Input: 3,
		Stages: []crime.StageCount{
			{Stage: "located", Rows: 3},
			{Stage: "included", Rows: 3},
			{Stage: "recent", Rows: 2},
			{Stage: "daytime", Rows: 1},
		},
	})

	assert.InDelta(t, 3, testutil.ToFloat64(m.StageRows.WithLabelValues(StageInput)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.StageRows.WithLabelValues("recent")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StageRows.WithLabelValues("daytime")), 0)
	assert.InDelta(t, 2018, testutil.ToFloat64(m.CutoffYear), 0)
}

func TestDocumentWritten(t *testing.T) {
	m := NewMetrics(nil)
	m.DocumentWritten("html")
	m.DocumentWritten("html")
	m.DocumentWritten("xlsx")

	assert.InDelta(t, 2, testutil.ToFloat64(m.DocumentsWritten.WithLabelValues("html")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DocumentsWritten.WithLabelValues("xlsx")), 0)
}

func TestStartRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMetrics(clock)

	done := m.StartRun()
	clock.Advance(1500 * time.Millisecond)
	done()

	assert.InDelta(t, 1.5, testutil.ToFloat64(m.RunDuration), 1e-9)
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics(nil)
	m.CutoffYear.Set(2018)
	m.DocumentWritten("html")

	path := filepath.Join(t.TempDir(), "crimemap.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "crimemap_cutoff_year 2018")
	assert.Contains(t, string(data), `crimemap_documents_written_total{kind="html"} 1`)

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "crimemap.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitoring: write textfile")
}

func TestRegistryIsolated(t *testing.T) {
	a := NewMetrics(nil)
	b := NewMetrics(nil)
	a.DocumentWritten("html")

	assert.Equal(t, 1, testutil.CollectAndCount(a.DocumentsWritten))
	assert.Equal(t, 0, testutil.CollectAndCount(b.DocumentsWritten))
	assert.NotSame(t, a.Registry(), b.Registry())
}
