package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/gobench/pkg/bench"
)

var acquisitionDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gobench_acquisition_duration_seconds",
		Help:    "Duration of waveform acquisitions",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	},
	[]string{"instrument"},
)

// sessionCollector отдаёт счётчики сеансов открытых приборов.
type sessionCollector struct {
	cfg  *Config
	pool *bench.Pool

	writes, reads, bytes, timeouts, transportErrs, discards *prometheus.Desc
}

func newSessionCollector(cfg *Config, pool *bench.Pool) *sessionCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("gobench_session_"+name, help, []string{"instrument"}, nil)
	}
	return &sessionCollector{
		cfg:           cfg,
		pool:          pool,
		writes:        desc("writes_total", "Commands written to the instrument"),
		reads:         desc("reads_total", "Responses read from the instrument"),
		bytes:         desc("read_bytes_total", "Response bytes read from the instrument"),
		timeouts:      desc("timeouts_total", "Reads that timed out"),
		transportErrs: desc("transport_errors_total", "Transport failures"),
		discards:      desc("discarded_responses_total", "Stale responses dropped while resynchronizing"),
	}
}

func (c *sessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.writes
	ch <- c.reads
	ch <- c.bytes
	ch <- c.timeouts
	ch <- c.transportErrs
	ch <- c.discards
}

func (c *sessionCollector) Collect(ch chan<- prometheus.Metric) {
	for _, ic := range c.cfg.Instruments {
		inst, ok := c.pool.Lookup(ic.Address)
		if !ok {
			continue
		}
		m := inst.Metrics()
		counter := func(d *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), ic.Name)
		}
		counter(c.writes, m.WriteCount.Load())
		counter(c.reads, m.ReadCount.Load())
		counter(c.bytes, m.ReadBytes.Load())
		counter(c.timeouts, m.TimeoutCount.Load())
		counter(c.transportErrs, m.TransportErrCount.Load())
		counter(c.discards, m.DiscardCount.Load())
	}
}
