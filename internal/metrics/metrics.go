// Package metrics defines the application-level instruments recorded by the
// HTTP layer on top of the standard request telemetry.
package metrics

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/verdant/storefront"

// Store holds the domain metric instruments.
type Store struct {
	cartMutations    metric.Int64Counter
	ordersCreated    metric.Int64Counter
	checkoutFailures metric.Int64Counter
	orderValue       metric.Float64Histogram
}

// New registers the storefront instruments on the given provider.
func New(mp metric.MeterProvider) (*Store, error) {
	meter := mp.Meter(meterName)

	cartMutations, err := meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Cart mutations by operation"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cart mutations counter")
	}

	ordersCreated, err := meter.Int64Counter("storefront.orders.created",
		metric.WithDescription("Orders successfully placed"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders created counter")
	}

	checkoutFailures, err := meter.Int64Counter("storefront.checkout.failures",
		metric.WithDescription("Failed checkout attempts by reason"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "checkout failures counter")
	}

	orderValue, err := meter.Float64Histogram("storefront.orders.value",
		metric.WithDescription("Distribution of order totals"),
		metric.WithUnit("{currency}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "order value histogram")
	}

	return &Store{
		cartMutations:    cartMutations,
		ordersCreated:    ordersCreated,
		checkoutFailures: checkoutFailures,
		orderValue:       orderValue,
	}, nil
}

// CartMutation records one cart operation (add, set, remove, clear).
func (s *Store) CartMutation(ctx context.Context, op string) {
	s.cartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// OrderPlaced records a successful checkout and its total.
func (s *Store) OrderPlaced(ctx context.Context, total decimal.Decimal) {
	s.ordersCreated.Add(ctx, 1)
	s.orderValue.Record(ctx, total.InexactFloat64())
}

// CheckoutFailed records a rejected checkout attempt.
func (s *Store) CheckoutFailed(ctx context.Context, reason string) {
	s.checkoutFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
