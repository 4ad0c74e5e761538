package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	memberdomain "membership-admin/internal/domain/member"
)

const (
	outcomeSuccess  = "success"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

// InstrumentedGateway counts and times every call to the wrapped gateway.
type InstrumentedGateway struct {
	next    memberdomain.Gateway
	metrics *Metrics
}

func (m *Metrics) Gateway(next memberdomain.Gateway) *InstrumentedGateway {
	return &InstrumentedGateway{next: next, metrics: m}
}

func (g *InstrumentedGateway) List(ctx context.Context) ([]memberdomain.Member, error) {
	done := g.observe("list")
	members, err := g.next.List(ctx)
	done(err)
	return members, err
}

func (g *InstrumentedGateway) Get(ctx context.Context, id string) (*memberdomain.Member, error) {
	done := g.observe("get")
	m, err := g.next.Get(ctx, id)
	done(err)
	return m, err
}

func (g *InstrumentedGateway) Insert(ctx context.Context, fields memberdomain.Fields) (*memberdomain.Member, error) {
	done := g.observe("insert")
	m, err := g.next.Insert(ctx, fields)
	done(err)
	return m, err
}

func (g *InstrumentedGateway) Update(ctx context.Context, id string, fields memberdomain.Fields) (*memberdomain.Member, error) {
	done := g.observe("update")
	m, err := g.next.Update(ctx, id, fields)
	done(err)
	return m, err
}

func (g *InstrumentedGateway) Delete(ctx context.Context, id string) error {
	done := g.observe("delete")
	err := g.next.Delete(ctx, id)
	done(err)
	return err
}

func (g *InstrumentedGateway) observe(op string) func(error) {
	timer := prometheus.NewTimer(g.metrics.gatewayDuration.WithLabelValues(op))
	return func(err error) {
		timer.ObserveDuration()
		g.metrics.gatewayCalls.WithLabelValues(op, outcome(err)).Inc()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, memberdomain.ErrNotFound):
		return outcomeNotFound
	case memberdomain.IsValidation(err):
		return outcomeInvalid
	default:
		return outcomeError
	}
}
