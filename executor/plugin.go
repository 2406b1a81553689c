// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	rexec "github.com/33cn/raffle/dapp/raffle/executor"
	"github.com/33cn/raffle/types"
)

//plugin 主要用于处理 execlocal 时候的本地索引
//按注册顺序执行, 写入都在 LODB-raffle- 下

type plugin interface {
	ExecLocal(e *Executor, tx *types.Transaction, receipt *types.ReceiptData, index int64) ([]*types.KeyValue, error)
}

type namedPlugin struct {
	name   string
	plugin plugin
}

var globalPlugins []namedPlugin

// RegisterPlugin register plugin
func RegisterPlugin(name string, p plugin) {
	for _, np := range globalPlugins {
		if np.name == name {
			panic("plugin exist " + name)
		}
	}
	globalPlugins = append(globalPlugins, namedPlugin{name: name, plugin: p})
}

func init() {
	RegisterPlugin("raffle", &rafflePlugin{})
	RegisterPlugin("txindex", &txindexPlugin{})
}

// 抽奖自己的索引: 购票记录, 开奖结果
type rafflePlugin struct{}

func (p *rafflePlugin) ExecLocal(e *Executor, tx *types.Transaction, receipt *types.ReceiptData, index int64) ([]*types.KeyValue, error) {
	set, err := rexec.ExecLocal(receipt, e.block.Height, index, hashString(tx))
	if err != nil {
		return nil, err
	}
	return set.KV, nil
}
