package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TodoMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_mutations_total",
			Help: "Todo mutations by operation and outcome",
		},
		[]string{"op", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(TodoMutations)
}

func countMutation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	TodoMutations.WithLabelValues(op, outcome).Inc()
}
