package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "devicehub"

// PrometheusRecorder exports Recorder events as Prometheus collectors.
type PrometheusRecorder struct {
	entityOps        *prometheus.CounterVec
	cascadeDeleted   prometheus.Counter
	credentialChecks *prometheus.CounterVec
	imageSize        *prometheus.HistogramVec
	blobFailures     *prometheus.CounterVec
}

// NewPrometheus creates a recorder and registers its collectors with reg.
func NewPrometheus(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	p := &PrometheusRecorder{
		entityOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_operations_total",
			Help:      "Entity writes by kind and operation.",
		}, []string{"kind", "op"}),
		cascadeDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_deleted_devices_total",
			Help:      "Devices removed because their brand was deleted.",
		}),
		credentialChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_checks_total",
			Help:      "Login and password verifications by outcome.",
		}, []string{"result"}),
		imageSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_size_bytes",
			Help:      "Size of stored images.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 10),
		}, []string{"kind"}),
		blobFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_failures_total",
			Help:      "Blob store operations that failed.",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{p.entityOps, p.cascadeDeleted, p.credentialChecks, p.imageSize, p.blobFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RegisterCollectionSizes exposes the current size of each collection as a
// gauge read on scrape.
func RegisterCollectionSizes(reg prometheus.Registerer, sizes func() map[string]int) error {
	for _, kind := range []string{KindUser, KindBrand, KindDevice} {
		kind := kind
		g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "entities",
			Help:        "Number of stored entities by kind.",
			ConstLabels: prometheus.Labels{"kind": kind},
		}, func() float64 { return float64(sizes()[kind]) })
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}

// IncEntityCreated increments the created counter for kind.
func (p *PrometheusRecorder) IncEntityCreated(kind string) {
	p.entityOps.WithLabelValues(kind, "create").Inc()
}

// IncEntityUpdated increments the updated counter for kind.
func (p *PrometheusRecorder) IncEntityUpdated(kind string) {
	p.entityOps.WithLabelValues(kind, "update").Inc()
}

// IncEntityDeleted increments the deleted counter for kind.
func (p *PrometheusRecorder) IncEntityDeleted(kind string) {
	p.entityOps.WithLabelValues(kind, "delete").Inc()
}

// AddCascadeDeleted adds devices removed by brand deletion.
func (p *PrometheusRecorder) AddCascadeDeleted(devices int) {
	if devices > 0 {
		p.cascadeDeleted.Add(float64(devices))
	}
}

// IncCredentialCheck increments the credential check counter for result.
func (p *PrometheusRecorder) IncCredentialCheck(result string) {
	p.credentialChecks.WithLabelValues(result).Inc()
}

// ObserveImageSize records the size of a stored image.
func (p *PrometheusRecorder) ObserveImageSize(kind string, bytes int) {
	p.imageSize.WithLabelValues(kind).Observe(float64(bytes))
}

// IncBlobFailure increments the blob failure counter for op.
func (p *PrometheusRecorder) IncBlobFailure(op string) {
	p.blobFailures.WithLabelValues(op).Inc()
}
