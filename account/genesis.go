// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/raffle/types"
)

func safeAdd(balance, amount int64) (int64, error) {
	if balance+amount < amount || balance+amount > types.MaxTokenBalance {
		return balance, types.ErrAmount
	}
	return balance + amount, nil
}

// Mint 只有创世地址可以增发
func (acc *DB) Mint(caller, addr string, amount int64) (*types.Receipt, error) {
	if acc.genesis == "" || caller != acc.genesis {
		return nil, types.ErrNoPrivilege
	}
	return acc.GenesisInit(addr, amount)
}

// GenesisInit 生成创世地址账户收据
func (acc *DB) GenesisInit(addr string, amount int64) (receipt *types.Receipt, err error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	accTo := acc.LoadAccount(addr)
	copyto := *accTo
	accTo.Balance, err = safeAdd(accTo.Balance, amount)
	if err != nil {
		return nil, err
	}
	acc.SaveAccount(accTo)
	receipt = types.NewReceipt()
	receipt.KV = acc.GetKVSet(accTo)
	receipt.AddLog(types.TyLogGenesis, &types.ReceiptAccountTransfer{
		Prev:    &copyto,
		Current: accTo,
	})
	return receipt, nil
}
