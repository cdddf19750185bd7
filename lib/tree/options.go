package tree

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

type setConfig[K any] struct {
	cmp            infra.Comparator[K]
	logger         xlog.XLogger
	meterProvider  metric.MeterProvider
	isDesc         bool
	isStats        bool
	isRmEnabled    bool
	isRmBorrowSucc bool
}

type SetOption[K any] func(*setConfig[K])

// WithComparator replaces the order given to the constructor.
func WithComparator[K any](cmp infra.Comparator[K]) SetOption[K] {
	return func(cfg *setConfig[K]) {
		if cmp != nil {
			cfg.cmp = cmp
		}
	}
}

func WithDescOrder[K any]() SetOption[K] {
	return func(cfg *setConfig[K]) {
		cfg.isDesc = true
	}
}

func WithLogger[K any](logger xlog.XLogger) SetOption[K] {
	return func(cfg *setConfig[K]) {
		cfg.logger = logger
	}
}

// WithStats enables the otel instruments of the tree.
// A nil provider falls back to the global one.
func WithStats[K any](provider metric.MeterProvider) SetOption[K] {
	return func(cfg *setConfig[K]) {
		cfg.isStats = true
		cfg.meterProvider = provider
	}
}

// WithRBTreeRemoval enables the red-black deletion.
// Without it RBTree.Remove always reports false.
// The AVL tree ignores it.
func WithRBTreeRemoval[K any]() SetOption[K] {
	return func(cfg *setConfig[K]) {
		cfg.isRmEnabled = true
	}
}

// WithRBTreeRemoveBorrowSucc makes the red-black deletion of a node
// with two children borrow the successor instead of the predecessor.
func WithRBTreeRemoveBorrowSucc[K any]() SetOption[K] {
	return func(cfg *setConfig[K]) {
		cfg.isRmBorrowSucc = true
	}
}

func newSetConfig[K any](cmp infra.Comparator[K], opts ...SetOption[K]) *setConfig[K] {
	cfg := &setConfig[K]{
		cmp: cmp,
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.cmp == nil {
		panic( /* debug assertion */ "[xtree] nil comparator")
	}
	if cfg.isDesc {
		cfg.cmp = infra.Reverse(cfg.cmp)
	}
	if cfg.logger == nil {
		cfg.logger = xlog.NewNopXLogger()
	}
	if cfg.isStats && cfg.meterProvider == nil {
		cfg.meterProvider = otel.GetMeterProvider()
	}
	return cfg
}

func (cfg *setConfig[K]) stats(variant string) *setStats {
	if !cfg.isStats {
		return nil
	}
	return newSetStats(cfg.meterProvider, variant)
}
