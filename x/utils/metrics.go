package utils

import (
	"strconv"
	"time"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions by message path
// and result code, and observes their processing time.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ custody.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer. Registering twice with the same registerer panics.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "tx",
			Name:      "processed_total",
			Help:      "Number of processed transactions, labeled by phase, message path and result code.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "custody",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Time spent processing a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"phase", "path"}),
	}
	reg.MustRegister(m.txs, m.duration)
	return m
}

// Check observes the check phase.
func (m Metrics) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver observes the deliver phase.
func (m Metrics) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(phase string, tx custody.Tx, start time.Time, err error) {
	path := custody.GetPath(tx)
	code := strconv.FormatUint(uint64(errors.Code(err)), 10)
	m.txs.WithLabelValues(phase, path, code).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
