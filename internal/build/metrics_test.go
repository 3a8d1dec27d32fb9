package build

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildMetricsRecordsSuccessAndFailure(t *testing.T) {
	m := NewBuildMetrics()
	m.RecordBuild(BuildResult{Duration: 10 * time.Millisecond})
	m.RecordBuild(BuildResult{Duration: 20 * time.Millisecond, Error: assertErr})
	m.RecordBuild(BuildResult{Duration: 30 * time.Millisecond, CacheHit: true})

	snap := m.GetSnapshot()
	assert.Equal(t, int64(3), snap.TotalBuilds)
	assert.Equal(t, int64(2), snap.SuccessfulBuilds)
	assert.Equal(t, int64(1), snap.FailedBuilds)
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, 20*time.Millisecond, snap.AverageDuration)
}

func TestBuildMetricsRatesOnEmptyMetricsAreZero(t *testing.T) {
	m := NewBuildMetrics()
	assert.Equal(t, 0.0, m.GetCacheHitRate())
	assert.Equal(t, 0.0, m.GetSuccessRate())
}

func TestBuildMetricsReset(t *testing.T) {
	m := NewBuildMetrics()
	m.RecordBuild(BuildResult{Duration: time.Second})
	m.Reset()
	assert.Equal(t, int64(0), m.GetSnapshot().TotalBuilds)
}

var assertErr = assertError("boom")

type assertError string

func (e assertError) Error() string { return string(e) }
