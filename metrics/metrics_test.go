// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"testing"

	"github.com/33cn/raffle/types"
	"github.com/stretchr/testify/assert"
)

func TestCounterSnapshot(t *testing.T) {
	c := Counter("test.metrics.counter")
	before := c.Count()
	c.Inc(3)
	assert.Equal(t, before+3, Counter("test.metrics.counter").Count())

	m := Meter("test.metrics.meter")
	m.Mark(2)
	snap := Snapshot()
	assert.Equal(t, before+3, snap["test.metrics.counter"])
	assert.Equal(t, int64(2), snap["test.metrics.meter"])
}

func TestStartMetricsDisabled(t *testing.T) {
	StartMetrics(nil)
	StartMetrics(&types.Metrics{EnableMetrics: false})
}
