// Package metrics содержит prometheus метрики сервиса. Регистрируются в реестре по умолчанию.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaamwala_http_requests_total",
		Help: "Количество HTTP запросов",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kaamwala_http_request_duration_seconds",
		Help:    "Длительность HTTP запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	TaxonomyMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaamwala_taxonomy_mutations_total",
		Help: "Изменения таксономии по сущности, операции и результату",
	}, []string{"entity", "operation", "result"})

	CascadeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kaamwala_category_cascade_size",
		Help:    "Количество подкатегорий, деактивированных вместе с категорией",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	})

	SkillAssignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaamwala_skill_assignments_total",
		Help: "Операции над навыками исполнителей",
	}, []string{"operation", "result"})

	WorkerSearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kaamwala_worker_search_duration_seconds",
		Help:    "Длительность поиска исполнителей по точке входа",
		Buckets: prometheus.DefBuckets,
	}, []string{"entry"})

	WorkerSearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kaamwala_worker_search_total_elements",
		Help:    "Число найденных исполнителей на запрос",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)

// Result превращает ошибку в метку result.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveSince записывает длительность с момента start.
func ObserveSince(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}
