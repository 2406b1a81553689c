// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics 运行指标, 基于 go-metrics 默认注册表
package metrics

import (
	"fmt"
	"time"

	"github.com/33cn/raffle/types"
	log "github.com/inconshreveable/log15"
	go_metrics "github.com/rcrowley/go-metrics"
)

var mlog = log.New("module", "metrics")

// Registry 所有指标注册在这里
var Registry = go_metrics.DefaultRegistry

// logAdapter go-metrics 的 Logger 接口转到 log15
type logAdapter struct {
	l log.Logger
}

func (a logAdapter) Printf(format string, v ...interface{}) {
	a.l.Info(fmt.Sprintf(format, v...))
}

//StartMetrics 根据配置启动周期性的日志输出
func StartMetrics(cfg *types.Metrics) {
	if cfg == nil || !cfg.EnableMetrics {
		mlog.Info("Metrics data is not enabled to emit")
		return
	}
	duration := time.Duration(cfg.Duration) * time.Second
	if duration <= 0 {
		duration = time.Minute
	}
	mlog.Info("StartMetrics with log reporter", "duration", duration)
	go go_metrics.Log(Registry, duration, logAdapter{mlog})
}

// Counter registered counter
func Counter(name string) go_metrics.Counter {
	return go_metrics.GetOrRegisterCounter(name, Registry)
}

// Meter registered meter
func Meter(name string) go_metrics.Meter {
	return go_metrics.GetOrRegisterMeter(name, Registry)
}

// Snapshot counter values by name, meters report their total count
func Snapshot() map[string]int64 {
	out := make(map[string]int64)
	Registry.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case go_metrics.Counter:
			out[name] = m.Count()
		case go_metrics.Meter:
			out[name] = m.Count()
		}
	})
	return out
}
