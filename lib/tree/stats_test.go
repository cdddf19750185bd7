package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader sdkmetric.Reader) map[string][]metricdata.DataPoint[int64] {
	t.Helper()
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	res := make(map[string][]metricdata.DataPoint[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				res[m.Name] = append(res[m.Name], sum.DataPoints...)
			}
		}
	}
	return res
}

func sumOf(points []metricdata.DataPoint[int64], kvs ...attribute.KeyValue) int64 {
	total := int64(0)
	for _, p := range points {
		matched := true
		for _, kv := range kvs {
			if v, ok := p.Attributes.Value(kv.Key); !ok || v.Emit() != kv.Value.Emit() {
				matched = false
				break
			}
		}
		if matched {
			total += p.Value
		}
	}
	return total
}

func TestAVLTreeStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	}()

	tree := NewAVLTree[int](WithStats[int](provider))
	for i := 0; i < 10; i++ {
		require.True(t, tree.Add(i))
	}
	require.False(t, tree.Add(3))
	require.True(t, tree.Remove(9))
	require.False(t, tree.Remove(9))

	sums := collectSums(t, reader)
	variant := attribute.String("xtree.variant", avlVariant)
	require.Equal(t, int64(10), sumOf(sums["xtree.add.count"], variant))
	require.Equal(t, int64(1), sumOf(sums["xtree.remove.count"], variant))
	require.Equal(t, int64(9), sumOf(sums["xtree.len"], variant))
	// Ascending inserts only ever rotate to the left.
	require.Equal(t, int64(6), sumOf(sums["xtree.rotation.count"], variant, attribute.String("xtree.rotation.direction", "left")))
	require.Equal(t, int64(0), sumOf(sums["xtree.rotation.count"], variant, attribute.String("xtree.rotation.direction", "right")))
	require.Empty(t, sums["xtree.check.violation.count"])

	tree.root.height = 100
	requireViolation(t, tree.CheckBalanced(), RuleHeightAttr)
	sums = collectSums(t, reader)
	require.Equal(t, int64(1), sumOf(sums["xtree.check.violation.count"], variant, attribute.String("xtree.check.rule", string(RuleHeightAttr))))
}

func TestRBTreeStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	}()

	tree := NewRBTree[uint64](WithStats[uint64](provider), WithRBTreeRemoval[uint64]())
	for _, key := range []uint64{52, 47, 3, 35, 24} {
		require.True(t, tree.Add(key))
	}
	require.True(t, tree.Remove(24))

	sums := collectSums(t, reader)
	variant := attribute.String("xtree.variant", rbVariant)
	require.Equal(t, int64(5), sumOf(sums["xtree.add.count"], variant))
	require.Equal(t, int64(1), sumOf(sums["xtree.remove.count"], variant))
	require.Equal(t, int64(4), sumOf(sums["xtree.len"], variant))
	// 3: right rotate 52, 24: right rotate 35 then left rotate 3.
	require.Equal(t, int64(1), sumOf(sums["xtree.rotation.count"], variant, attribute.String("xtree.rotation.direction", "left")))
	require.Equal(t, int64(2), sumOf(sums["xtree.rotation.count"], variant, attribute.String("xtree.rotation.direction", "right")))
}

func TestStatsDisabled(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	}()

	tree := NewRBTree[int]()
	require.Nil(t, tree.stats)
	tree.Add(1)
	tree.stats.RecordRotation(Left)
	tree.stats.RecordViolation(RuleSize)
	require.Empty(t, collectSums(t, reader))
}
