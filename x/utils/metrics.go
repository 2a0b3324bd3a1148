package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed messages and measures how
// long they take, labelled by message path and result code.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ bazaar.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "requests_total",
			Help:      "Number of processed messages.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bazaar",
			Name:      "request_duration_seconds",
			Help:      "Time it took to process a message.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase", "path"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(errors.ErrInvalidState, err.Error())
		}
	}
	return m, nil
}

// Check observes the check phase.
func (m *Metrics) Check(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", bazaar.GetPath(tx), start, err)
	return res, err
}

// Deliver observes the deliver phase.
func (m *Metrics) Deliver(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", bazaar.GetPath(tx), start, err)
	return res, err
}

func (m *Metrics) observe(phase, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.requests.WithLabelValues(phase, path, codeLabel(code)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}

func codeLabel(code uint32) string {
	if code == 0 {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
