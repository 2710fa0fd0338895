// Package telemetry wires the search's periodic emission (spec.md §6:
// "(generation, best_fitness_vector, population_sizes, accepted,
// elapsed_ms, selected_operator)") into klog structured logs, Prometheus
// gauges/counters, and OpenTelemetry spans, in the style the teacher's
// multiobjective plugin uses klog (klog.FromContext/.WithValues) for its
// own generation logging.
package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/klog/v2"
)

// Snapshot is one generation's worth of reporting data, spec.md §6's tuple.
type Snapshot struct {
	Generation       int
	BestFitness      []float64
	PopulationSizes  []int
	Accepted         bool
	ElapsedMS        int64
	SelectedOperator string
}

// Recorder bundles a logger, a metrics registry and a tracer so
// pkg/evolution can report one Snapshot per generation through all three
// without depending on their construction details.
type Recorder struct {
	logger klog.Logger
	tracer trace.Tracer
	gens   prometheus.Counter
	popLen *prometheus.GaugeVec
	best   *prometheus.GaugeVec
}

// NewRecorder builds a Recorder registering its Prometheus collectors
// against registry (use prometheus.NewRegistry() for an isolated test
// registry, or prometheus.DefaultRegisterer in production).
func NewRecorder(ctx context.Context, registry prometheus.Registerer) *Recorder {
	r := &Recorder{
		logger: klog.FromContext(ctx).WithValues("component", "vrp-solver"),
		tracer: otel.Tracer("github.com/binyao-or/vrp-solver/pkg/telemetry"),
		gens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vrp_solver_generations_total",
			Help: "Total evolution generations executed.",
		}),
		popLen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vrp_solver_population_size",
			Help: "Number of solutions held in the archive, by front rank.",
		}, []string{"rank"}),
		best: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vrp_solver_best_fitness",
			Help: "Best known fitness value per objective index.",
		}, []string{"objective"}),
	}
	registry.MustRegister(r.gens, r.popLen, r.best)
	return r
}

// Record emits one Snapshot: a structured klog line, the Prometheus
// counters/gauges, and a completed OpenTelemetry span covering the
// generation's elapsed time.
func (r *Recorder) Record(ctx context.Context, snap Snapshot) {
	_, span := r.tracer.Start(ctx, "evolution.generation",
		trace.WithAttributes(
			attribute.Int("generation", snap.Generation),
			attribute.Bool("accepted", snap.Accepted),
			attribute.String("operator", snap.SelectedOperator),
		))
	defer span.End()

	r.gens.Inc()
	for i, v := range snap.BestFitness {
		r.best.WithLabelValues(objectiveLabel(i)).Set(v)
	}
	for rank, size := range snap.PopulationSizes {
		r.popLen.WithLabelValues(rankLabel(rank)).Set(float64(size))
	}

	r.logger.V(2).Info("generation complete",
		"generation", snap.Generation,
		"bestFitness", snap.BestFitness,
		"populationSizes", snap.PopulationSizes,
		"accepted", snap.Accepted,
		"elapsedMS", snap.ElapsedMS,
		"operator", snap.SelectedOperator,
	)
}

// Since returns the elapsed milliseconds since start, a small helper so
// callers don't hand-roll time.Since(start).Milliseconds() at every call
// site that builds a Snapshot.
func Since(start time.Time) int64 { return time.Since(start).Milliseconds() }

func objectiveLabel(i int) string { return strconv.Itoa(i) }
func rankLabel(i int) string      { return strconv.Itoa(i) }
