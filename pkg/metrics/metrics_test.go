package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsCountersAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.TokenIssued("command")
	c.TokenIssued("command")
	c.TokenEvicted("ttl", 3)
	c.SetSessionCount(5)
	stop := c.ObserveDispatch("callback")
	stop()

	snap, err := c.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, float64(5), snap.GetGauge().GetValue())
}

func TestCollector_NilReceiverIsNoOp(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.TokenIssued("command")
		c.TokenEvicted("ttl", 1)
		c.SetSessionCount(1)
		c.ObserveDispatch("callback")()
	})
	snap, err := c.Snapshot()
	require.NoError(t, err)
	assert.NotNil(t, snap)
}
