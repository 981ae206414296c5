package guardian

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	guardiansCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "guardian",
		Name:      "created_total",
		Help:      "Number of registered guardians.",
	})
	heartbeatsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "guardian",
		Name:      "heartbeats_total",
		Help:      "Number of accepted owner heartbeats.",
	})
	claimsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "guardian",
		Name:      "claims_total",
		Help:      "Number of executed distributions.",
	}, []string{"result"})
	transfersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "guardian",
		Name:      "transfers_total",
		Help:      "Number of distribution transfers, by asset.",
	}, []string{"ticker", "result"})
)

func init() {
	prometheus.MustRegister(guardiansCreated, heartbeatsTotal, claimsTotal, transfersTotal)
}

func claimResult(failed int) string {
	if failed > 0 {
		return "partial"
	}
	return "complete"
}

func transferResult(l Leg) string {
	if l.Failed() {
		return "failed"
	}
	return "ok"
}
