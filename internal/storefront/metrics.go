package storefront

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cricnagar"

// Metrics counts storefront outcomes. A nil *Metrics records nothing.
type Metrics struct {
	CartOps  *prometheus.CounterVec
	Auth     *prometheus.CounterVec
	Orders   prometheus.Counter
	Revenue  prometheus.Counter
	Products *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer, clients *Contexts) *Metrics {
	m := &Metrics{
		CartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Cart mutations by operation",
		}, []string{"op"}),
		Auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Login and registration attempts by outcome",
		}, []string{"action", "outcome"}),
		Orders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed",
		}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_revenue_total",
			Help:      "Sum of order totals including tax",
		}),
		Products: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_product_changes_total",
			Help:      "Admin workspace changes by operation",
		}, []string{"op"}),
	}
	reg.MustRegister(m.CartOps, m.Auth, m.Orders, m.Revenue, m.Products)

	if clients != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_clients",
			Help:      "Client contexts held in memory",
		}, func() float64 { return float64(clients.Len()) }))
	}
	return m
}

func (m *Metrics) cartOp(op string) {
	if m == nil {
		return
	}
	m.CartOps.WithLabelValues(op).Inc()
}

func (m *Metrics) authAttempt(action, outcome string) {
	if m == nil {
		return
	}
	m.Auth.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) orderPlaced(total float64) {
	if m == nil {
		return
	}
	m.Orders.Inc()
	m.Revenue.Add(total)
}

func (m *Metrics) productChange(op string) {
	if m == nil {
		return
	}
	m.Products.WithLabelValues(op).Inc()
}
