package tree

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	SetStatsName = "xtree"
)

type setStats struct {
	addCount       metric.Int64Counter
	removeCount    metric.Int64Counter
	length         metric.Int64UpDownCounter
	rotationCount  metric.Int64Counter
	violationCount metric.Int64Counter
	variantAttr    metric.MeasurementOption
	leftRotAttr    metric.MeasurementOption
	rightRotAttr   metric.MeasurementOption
	variant        string
}

func (stats *setStats) RecordAdd() {
	if stats == nil {
		return
	}
	stats.addCount.Add(context.Background(), 1, stats.variantAttr)
	stats.length.Add(context.Background(), 1, stats.variantAttr)
}

func (stats *setStats) RecordRemove() {
	if stats == nil {
		return
	}
	stats.removeCount.Add(context.Background(), 1, stats.variantAttr)
	stats.length.Add(context.Background(), -1, stats.variantAttr)
}

func (stats *setStats) RecordRotation(dir RBDirection) {
	if stats == nil {
		return
	}
	switch dir {
	case Left:
		stats.rotationCount.Add(context.Background(), 1, stats.leftRotAttr)
	case Right:
		stats.rotationCount.Add(context.Background(), 1, stats.rightRotAttr)
	default:
	}
}

func (stats *setStats) RecordViolation(rule ViolationRule) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("xtree.variant", stats.variant),
		attribute.String("xtree.check.rule", string(rule)),
	)
	stats.violationCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func newSetStats(provider metric.MeterProvider, variant string) *setStats {
	meter := provider.Meter(SetStatsName + "/" + variant)
	rotAttr := func(dir RBDirection) metric.MeasurementOption {
		return metric.WithAttributeSet(attribute.NewSet(
			attribute.String("xtree.variant", variant),
			attribute.String("xtree.rotation.direction", dir.String()),
		))
	}
	return &setStats{
		variant:      variant,
		variantAttr:  metric.WithAttributeSet(attribute.NewSet(attribute.String("xtree.variant", variant))),
		leftRotAttr:  rotAttr(Left),
		rightRotAttr: rotAttr(Right),
		addCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.add.count",
			metric.WithDescription("The number of keys newly added to the set."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.remove.count",
			metric.WithDescription("The number of keys removed from the set."),
		)),
		length: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"xtree.len",
			metric.WithDescription("The number of keys currently in the set."),
		)),
		rotationCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.rotation.count",
			metric.WithDescription("The number of single rotations applied while rebalancing."),
		)),
		violationCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.check.violation.count",
			metric.WithDescription("The number of failed balance checks."),
		)),
	}
}
