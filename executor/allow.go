// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"bytes"

	"github.com/33cn/raffle/account"
	"github.com/33cn/raffle/dapp/raffle/factory"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/dapp/vrforacle"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// ErrKeyNotAllowed write outside the areas a raffle transaction may touch
var ErrKeyNotAllowed = errors.New("ErrKeyNotAllowed")

// 一笔抽奖交易只能写: 抽奖实例, 登记表, 预言机, 两个账本
func allowedPrefixes(e *Executor) [][]byte {
	return [][]byte{
		types.CalcStatePrefix(rty.RaffleX),
		types.CalcStatePrefix(factory.RegistryX),
		types.CalcStatePrefix(vrforacle.OracleX),
		[]byte(account.SymbolPrefix(TokenX, e.token.Symbol())),
		[]byte(account.SymbolPrefix(CoinsX, e.native.Symbol())),
	}
}

func isAllowKeyWrite(e *Executor, key []byte) bool {
	for _, prefix := range allowedPrefixes(e) {
		if bytes.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// checkWrites 回执里的 KV 和状态库实际写过的 key 都要检查
func checkWrites(e *Executor, receipt *types.Receipt) error {
	if receipt != nil {
		for _, kv := range receipt.KV {
			if !isAllowKeyWrite(e, kv.Key) {
				elog.Error("isAllowKeyWrite", "key", string(kv.Key))
				return errors.Wrap(ErrKeyNotAllowed, string(kv.Key))
			}
		}
	}
	for _, key := range e.state.GetSetKeys() {
		if !isAllowKeyWrite(e, []byte(key)) {
			elog.Error("isAllowKeyWrite statedb", "key", key)
			return errors.Wrap(ErrKeyNotAllowed, key)
		}
	}
	return nil
}

func isAllowLocalKey(key []byte) error {
	prefix := types.CalcLocalPrefix(rty.RaffleX)
	if len(key) <= len(prefix) {
		elog.Error("isAllowLocalKey too short", "key", string(key))
		return errors.Wrap(ErrKeyNotAllowed, "local key too short")
	}
	if !bytes.HasPrefix(key, prefix) {
		elog.Error("isAllowLocalKey prefix not match", "key", string(key))
		return errors.Wrap(ErrKeyNotAllowed, string(key))
	}
	return nil
}
