package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequestAggregates(t *testing.T) {
	c := NewCollector()

	c.RecordRequest("GET /contratos", 10*time.Millisecond, false, 0, 2048)
	c.RecordRequest("GET /contratos", 30*time.Millisecond, false, 0, 4096)
	c.RecordRequest("GET /contratos", 20*time.Millisecond, true, 0, 128)

	snap := c.Snapshot()
	op, ok := snap.Operations["GET /contratos"]
	require.True(t, ok)

	assert.Equal(t, int64(3), op.Count)
	assert.Equal(t, int64(1), op.Errors)
	assert.Equal(t, int64(10), op.MinTimeMs)
	assert.Equal(t, int64(30), op.MaxTimeMs)
	assert.InDelta(t, 20.0, op.AvgTimeMs, 0.01)
	assert.Equal(t, int64(6272), op.BytesReceived)
}

func TestSnapshotSkipsEmptyOperations(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()
	assert.Empty(t, snap.Operations)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestOperationsAreIndependent(t *testing.T) {
	c := NewCollector()
	c.RecordRequest("GET /contratos", 5*time.Millisecond, false, 0, 10)
	c.RecordRequest("POST /contratos/upload", 200*time.Millisecond, false, 1<<20, 64)

	snap := c.Snapshot()
	require.Len(t, snap.Operations, 2)
	assert.Equal(t, int64(1<<20), snap.Operations["POST /contratos/upload"].BytesSent)
	assert.Equal(t, int64(0), snap.Operations["GET /contratos"].BytesSent)
}
