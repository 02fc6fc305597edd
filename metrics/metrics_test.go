package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWithRegistererRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegisterer(reg)
	require.NotNil(t, m.CacheHits)
	require.NotNil(t, m.QueueDepth)
	require.NotNil(t, m.WorkerPoolActive)
	require.NotNil(t, m.StageDurationSec)

	m.CacheHits.Inc()
	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestSeparateRegistriesDoNotConflict(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	require.NotPanics(t, func() {
		NewMetricsWithRegisterer(reg1)
		NewMetricsWithRegisterer(reg2)
	})
}
