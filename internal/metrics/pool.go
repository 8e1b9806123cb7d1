package metrics

import "github.com/prometheus/client_golang/prometheus"

// PoolStats is the subset of *pgxpool.Stat exported as gauges
type PoolStats interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
	MaxConns() int32
}

// RegisterPoolGauges exports database pool occupancy. stats is called on
// every scrape.
func RegisterPoolGauges(reg prometheus.Registerer, stats func() PoolStats) {
	gauge := func(name, help string, value func(PoolStats) int32) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "portal",
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(value(stats()))
		})
	}

	reg.MustRegister(
		gauge("acquired_conns", "Connections currently checked out of the pool",
			func(s PoolStats) int32 { return s.AcquiredConns() }),
		gauge("idle_conns", "Idle connections held by the pool",
			func(s PoolStats) int32 { return s.IdleConns() }),
		gauge("total_conns", "Connections currently open",
			func(s PoolStats) int32 { return s.TotalConns() }),
		gauge("max_conns", "Configured pool size",
			func(s PoolStats) int32 { return s.MaxConns() }),
	)
}
