// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package account 资产账户: 余额, 授权额度, 转账
同一套实现既用于押金代币, 也用于原生币
*/
package account

//package for account manger
//1. load from db
//2. save to db
//3. KVSet
//4. Transfer
//5. Approve / TransferFrom
//6. Mint (genesis only)

import (
	"fmt"
	"strings"

	dbm "github.com/33cn/raffle/common/db"
	"github.com/33cn/raffle/types"
	log "github.com/inconshreveable/log15"
)

var alog = log.New("module", "account")

// ReceiveHook 收款方可以拒收, 返回错误时转账不发生
type ReceiveHook func(to string, amount int64) error

// DB for account
type DB struct {
	db                 dbm.KV
	accountKeyPerfix   []byte
	allowanceKeyPerfix []byte
	execer             string
	symbol             string
	decimals           int32
	genesis            string
	hook               ReceiveHook
}

// NewAccountDB 账户数据库, execer 和 symbol 中不能含有 "-"
func NewAccountDB(execer string, symbol string, decimals int32, db dbm.KV) (*DB, error) {
	if strings.ContainsRune(execer, '-') || execer == "" {
		return nil, types.ErrExecNameNotAllow
	}
	if strings.ContainsRune(symbol, '-') || symbol == "" {
		return nil, types.ErrSymbolNameNotAllow
	}
	prefix := SymbolPrefix(execer, symbol)
	acc := &DB{
		accountKeyPerfix:   []byte(prefix),
		allowanceKeyPerfix: []byte(prefix + "allow-"),
		execer:             execer,
		symbol:             symbol,
		decimals:           decimals,
	}
	acc.SetDB(db)
	return acc, nil
}

// SetDB set state db
func (acc *DB) SetDB(db dbm.KV) *DB {
	acc.db = db
	return acc
}

// SetGenesis the only address allowed to mint
func (acc *DB) SetGenesis(addr string) *DB {
	acc.genesis = addr
	return acc
}

// SetReceiveHook installs a hook consulted before crediting a receiver
func (acc *DB) SetReceiveHook(hook ReceiveHook) *DB {
	acc.hook = hook
	return acc
}

// Symbol symbol
func (acc *DB) Symbol() string {
	return acc.symbol
}

// Decimals decimals
func (acc *DB) Decimals() int32 {
	return acc.decimals
}

// LoadAccount 不存在时返回空账户
func (acc *DB) LoadAccount(addr string) *types.Account {
	value, err := acc.db.Get(acc.AccountKey(addr))
	if err != nil {
		return &types.Account{Addr: addr}
	}
	var acc1 types.Account
	err = types.Decode(value, &acc1)
	if err != nil {
		panic(err) //数据库已经损坏
	}
	return &acc1
}

// BalanceOf balance of addr
func (acc *DB) BalanceOf(addr string) int64 {
	return acc.LoadAccount(addr).Balance
}

// CheckTransfer check balance
func (acc *DB) CheckTransfer(from, to string, amount int64) error {
	if !types.CheckAmount(amount) {
		return types.ErrAmount
	}
	if from == to {
		return types.ErrSendSameToRecv
	}
	accFrom := acc.LoadAccount(from)
	if accFrom.Balance-amount < 0 {
		return types.ErrNoBalance
	}
	accTo := acc.LoadAccount(to)
	if _, err := safeAdd(accTo.Balance, amount); err != nil {
		return err
	}
	if acc.hook != nil {
		if err := acc.hook(to, amount); err != nil {
			return err
		}
	}
	return nil
}

// Transfer 转账, 所有检查在写入之前完成, 失败时不留下任何修改
func (acc *DB) Transfer(from, to string, amount int64) (*types.Receipt, error) {
	if err := acc.CheckTransfer(from, to, amount); err != nil {
		return nil, err
	}
	accFrom := acc.LoadAccount(from)
	accTo := acc.LoadAccount(to)
	copyfrom := *accFrom
	copyto := *accTo

	accFrom.Balance -= amount
	accTo.Balance += amount

	receiptBalanceFrom := &types.ReceiptAccountTransfer{
		Prev:    &copyfrom,
		Current: accFrom,
	}
	receiptBalanceTo := &types.ReceiptAccountTransfer{
		Prev:    &copyto,
		Current: accTo,
	}
	acc.SaveAccount(accFrom)
	acc.SaveAccount(accTo)
	alog.Debug("Transfer", "symbol", acc.symbol, "from", from, "to", to, "amount", amount)
	return acc.transferReceipt(accFrom, accTo, receiptBalanceFrom, receiptBalanceTo), nil
}

func (acc *DB) transferReceipt(accFrom, accTo *types.Account, receiptFrom, receiptTo *types.ReceiptAccountTransfer) *types.Receipt {
	receipt := types.NewReceipt()
	receipt.AddLog(types.TyLogTransfer, receiptFrom)
	receipt.AddLog(types.TyLogTransfer, receiptTo)
	receipt.KV = append(acc.GetKVSet(accFrom), acc.GetKVSet(accTo)...)
	return receipt
}

// SaveAccount save
func (acc *DB) SaveAccount(acc1 *types.Account) {
	set := acc.GetKVSet(acc1)
	for i := 0; i < len(set); i++ {
		err := acc.db.Set(set[i].Key, set[i].Value)
		if err != nil {
			panic(err)
		}
	}
}

// GetKVSet account -> kv
func (acc *DB) GetKVSet(acc1 *types.Account) (kvset []*types.KeyValue) {
	value := types.Encode(acc1)
	kvset = append(kvset, &types.KeyValue{
		Key:   acc.AccountKey(acc1.Addr),
		Value: value,
	})
	return kvset
}

// AccountKey return the key of address in DB
func (acc *DB) AccountKey(address string) (key []byte) {
	key = make([]byte, 0, len(acc.accountKeyPerfix)+len(address))
	key = append(key, acc.accountKeyPerfix...)
	key = append(key, []byte(address)...)
	return key
}

// SymbolPrefix mavl-<execer>-<symbol>-
func SymbolPrefix(execer string, symbol string) string {
	return fmt.Sprintf("mavl-%s-%s-", execer, symbol)
}
