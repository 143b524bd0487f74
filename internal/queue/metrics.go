package queue

import "github.com/prometheus/client_golang/prometheus"

var (
	QueueEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_enqueued_total",
			Help: "Tasks submitted to the queue grouped by result",
		},
		[]string{"kind", "result"},
	)
	QueueProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_processed_total",
			Help: "Total tasks processed grouped by status",
		},
		[]string{"kind", "status"},
	)
	QueueTaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "queue_task_duration_seconds",
			Help:    "Task handler latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	QueueDLQTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_dlq_total",
			Help: "Tasks archived after exhausting retries",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(QueueEnqueuedTotal, QueueProcessedTotal, QueueTaskDuration, QueueDLQTotal)
}
