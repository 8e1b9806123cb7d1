package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fakePoolStats struct {
	acquired, idle, total, maxConns int32
}

func (s fakePoolStats) AcquiredConns() int32 { return s.acquired }
func (s fakePoolStats) IdleConns() int32     { return s.idle }
func (s fakePoolStats) TotalConns() int32    { return s.total }
func (s fakePoolStats) MaxConns() int32      { return s.maxConns }

func TestRegisterPoolGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	current := fakePoolStats{acquired: 3, idle: 2, total: 5, maxConns: 25}
	RegisterPoolGauges(reg, func() PoolStats { return current })

	expected := `
# HELP portal_db_pool_acquired_conns Connections currently checked out of the pool
# TYPE portal_db_pool_acquired_conns gauge
portal_db_pool_acquired_conns 3
# HELP portal_db_pool_idle_conns Idle connections held by the pool
# TYPE portal_db_pool_idle_conns gauge
portal_db_pool_idle_conns 2
# HELP portal_db_pool_max_conns Configured pool size
# TYPE portal_db_pool_max_conns gauge
portal_db_pool_max_conns 25
# HELP portal_db_pool_total_conns Connections currently open
# TYPE portal_db_pool_total_conns gauge
portal_db_pool_total_conns 5
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))

	// Values are read at scrape time
	current = fakePoolStats{acquired: 1, idle: 4, total: 5, maxConns: 25}
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(strings.Replace(
		strings.Replace(expected, "acquired_conns 3", "acquired_conns 1", 1),
		"idle_conns 2", "idle_conns 4", 1))))
}
