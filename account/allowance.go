// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/raffle/types"
)

// allowance 记录 owner 授权给 spender 的额度
type allowance struct {
	Amount int64 `cbor:"1,keyasint"`
}

// Allowance owner -> spender
func (acc *DB) Allowance(owner, spender string) int64 {
	value, err := acc.db.Get(acc.allowanceKey(owner, spender))
	if err != nil {
		return 0
	}
	var a allowance
	types.MustDecode(value, &a)
	return a.Amount
}

// Approve 覆盖设置额度, 0 表示取消授权
func (acc *DB) Approve(owner, spender string, amount int64) (*types.Receipt, error) {
	if amount < 0 {
		return nil, types.ErrAmount
	}
	if owner == "" || spender == "" || owner == spender {
		return nil, types.ErrInvalidParam
	}
	prev := acc.Allowance(owner, spender)
	receipt := types.NewReceipt()
	receipt.KV = append(receipt.KV, acc.saveAllowance(owner, spender, amount))
	receipt.AddLog(types.TyLogApprove, &types.ReceiptAccountApprove{
		Owner:   owner,
		Spender: spender,
		Prev:    prev,
		Current: amount,
	})
	return receipt, nil
}

// TransferFrom spender 代 from 转账, 消耗授权额度
func (acc *DB) TransferFrom(spender, from, to string, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	prev := acc.Allowance(from, spender)
	if spender != from && prev < amount {
		alog.Debug("TransferFrom", "spender", spender, "from", from, "allowance", prev, "amount", amount)
		return nil, types.ErrNoAllowance
	}
	receipt, err := acc.Transfer(from, to, amount)
	if err != nil {
		return nil, err
	}
	if spender == from {
		return receipt, nil
	}
	receipt.KV = append(receipt.KV, acc.saveAllowance(from, spender, prev-amount))
	receipt.AddLog(types.TyLogApprove, &types.ReceiptAccountApprove{
		Owner:   from,
		Spender: spender,
		Prev:    prev,
		Current: prev - amount,
	})
	return receipt, nil
}

func (acc *DB) saveAllowance(owner, spender string, amount int64) *types.KeyValue {
	kv := &types.KeyValue{Key: acc.allowanceKey(owner, spender)}
	if amount > 0 {
		kv.Value = types.Encode(&allowance{Amount: amount})
	}
	err := acc.db.Set(kv.Key, kv.Value)
	if err != nil {
		panic(err)
	}
	return kv
}

func (acc *DB) allowanceKey(owner, spender string) (key []byte) {
	key = make([]byte, 0, len(acc.allowanceKeyPerfix)+len(owner)+len(spender)+1)
	key = append(key, acc.allowanceKeyPerfix...)
	key = append(key, []byte(owner)...)
	key = append(key, ':')
	key = append(key, []byte(spender)...)
	return key
}
