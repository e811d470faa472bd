package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Flow Controller metrics

	FlowsSeededTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "flows_seeded_total",
		Help:      "Total flows processed by a controller tick, by outcome.",
	}, []string{"outcome"})

	JobsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "jobs_created_total",
		Help:      "Total jobs inserted by the Flow Controller.",
	}, []string{"flow"})

	JobSeedOutcomeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "job_seed_outcome_total",
		Help:      "Total jobs whose job_steps finished seeding, by outcome (S or F).",
	}, []string{"outcome"})

	FlowControllerTickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "flow_controller_tick_duration_seconds",
		Help:      "Duration of one Flow Controller tick.",
		Buckets:   prometheus.DefBuckets,
	})

	// Job Step Launcher metrics

	JobStepsPromotedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "job_steps_promoted_total",
		Help:      "Total sequence=1 job_steps promoted from N to S.",
	})

	// Worker Dispatcher metrics

	DispatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "dispatcher_work_orders_total",
		Help:      "Total WorkOrders handed to a worker queue.",
	})

	DispatchQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "scheduler",
		Name:      "dispatch_queue_depth",
		Help:      "Number of WorkOrders enqueued to a worker queue on the last tick that found launchable steps.",
	}, []string{"worker_id"})

	DispatcherTickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "dispatcher_tick_duration_seconds",
		Help:      "Duration of one Worker Dispatcher tick.",
		Buckets:   prometheus.DefBuckets,
	})

	// Worker metrics

	JobStepsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "worker_job_steps_handled_total",
		Help:      "Total WorkOrders handled by a worker, by execution path.",
	}, []string{"path"})

	ChildProcessDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "worker_child_process_duration_seconds",
		Help:      "Duration of a successful external script invocation.",
		Buckets:   []float64{.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
	})

	ChildProcessFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "worker_child_process_failures_total",
		Help:      "Total external script invocations that failed to start or returned a non-zero exit.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		FlowsSeededTotal,
		JobsCreatedTotal,
		JobSeedOutcomeTotal,
		FlowControllerTickDuration,
		JobStepsPromotedTotal,
		DispatchedTotal,
		DispatchQueueDepth,
		DispatcherTickDuration,
		JobStepsDispatched,
		ChildProcessDuration,
		ChildProcessFailures,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
