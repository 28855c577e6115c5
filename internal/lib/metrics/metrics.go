package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shop"

// Metrics хранит счётчики бизнес-операций магазина.
// У каждого экземпляра свой registry, поэтому в тестах можно создавать их сколько угодно.
type Metrics struct {
	registry *prometheus.Registry

	BasketLinesAdded  prometheus.Counter
	BasketsCleared    prometheus.Counter
	OrdersCreated     prometheus.Counter
	CheckoutFailures  prometheus.Counter
	PaymentsConfirmed prometheus.Counter
	// TotalMismatches считает заказы, у которых сумма клиента не сходится с позициями
	TotalMismatches prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		BasketLinesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "basket",
			Name:      "lines_added_total",
			Help:      "Total number of lines added to baskets.",
		}),
		BasketsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "basket",
			Name:      "cleared_total",
			Help:      "Total number of basket clear operations.",
		}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total number of committed checkouts.",
		}),
		CheckoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "checkout_failures_total",
			Help:      "Total number of checkouts rolled back.",
		}),
		PaymentsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "payments_confirmed_total",
			Help:      "Total number of orders moved to paid status.",
		}),
		TotalMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "total_mismatch_total",
			Help:      "Checkouts whose client total differs from the sum of their items.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.BasketLinesAdded,
		m.BasketsCleared,
		m.OrdersCreated,
		m.CheckoutFailures,
		m.PaymentsConfirmed,
		m.TotalMismatches,
	)

	return m
}

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
