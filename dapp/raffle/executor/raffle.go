// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 单赢家抽奖实例: 区间账本, 售票, 开奖, 资金托管与生命周期
package executor

import (
	"sync"

	dbm "github.com/33cn/raffle/common/db"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var rlog = log.New("module", "execs.raffle")

// Token deposit token as seen by an instance
type Token interface {
	Symbol() string
	Decimals() int32
	BalanceOf(addr string) int64
	Transfer(from, to string, amount int64) (*types.Receipt, error)
	TransferFrom(spender, from, to string, amount int64) (*types.Receipt, error)
}

// NativeLedger native coin, used for draw fees
type NativeLedger interface {
	BalanceOf(addr string) int64
	Transfer(from, to string, amount int64) (*types.Receipt, error)
}

// RandomnessService external randomness oracle
type RandomnessService interface {
	Address() string
	QuoteFee(gasBudget uint32) int64
	HasProvider(name string) bool
	// Request pulls payment in native coin from consumer and returns the request id
	Request(consumer, provider string, seed []byte, gasBudget uint32, payment int64) (uint64, *types.Receipt, error)
}

// Env collaborators shared by all instances of one host
type Env struct {
	DB     dbm.KV
	Token  Token
	Native NativeLedger
	Oracle RandomnessService
	Block  *types.BlockContext
}

// Raffle one instance. All mutating entry points hold the guard for their
// whole duration; a nested call made by a collaborator fails with ErrReentrant.
type Raffle struct {
	guard    sync.Mutex
	env      *Env
	addr     string
	cfg      *rty.Config
	throttle EntryThrottle
}

// NewRaffle persists a new instance in FundingPending
func NewRaffle(env *Env, addr string, cfg *rty.Config) (*Raffle, *types.Receipt, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if env.Token.Decimals() != rty.DepositDecimals || env.Token.Symbol() != cfg.DepositToken {
		return nil, nil, errors.Wrapf(rty.ErrConfigDecimals, "token %s decimals %d", env.Token.Symbol(), env.Token.Decimals())
	}
	if env.Oracle.Address() != cfg.Oracle {
		return nil, nil, errors.Wrap(rty.ErrConfigAddress, "oracle")
	}
	// 未知 provider 的实例永远开不了奖, 资金会锁死在 Open 状态
	if !env.Oracle.HasProvider(cfg.Provider) {
		return nil, nil, errors.Wrapf(rty.ErrConfigProvider, "provider %s", cfg.Provider)
	}
	if _, err := env.DB.Get(calcRaffleConfigKey(addr)); err == nil {
		return nil, nil, rty.ErrRaffleExist
	}
	r := &Raffle{env: env, addr: addr, cfg: cfg, throttle: NewThrottle(cfg)}
	receipt := types.NewReceipt()
	r.setKV(receipt, calcRaffleConfigKey(addr), types.Encode(cfg))
	st := &rty.RaffleState{
		Address:    addr,
		Status:     rty.StatusFundingPending,
		CreateTime: env.Block.BlockTime,
	}
	r.saveState(receipt, st)
	receipt.AddLog(rty.TyLogRaffleCreate, &rty.ReceiptRaffleCreate{Address: addr, Config: cfg})
	rlog.Info("NewRaffle", "addr", addr, "creator", cfg.Creator, "name", cfg.Name, "pot", cfg.PotSize)
	return r, receipt, nil
}

// LoadRaffle instance from state
func LoadRaffle(env *Env, addr string) (*Raffle, error) {
	value, err := env.DB.Get(calcRaffleConfigKey(addr))
	if err != nil {
		if err == types.ErrNotFound {
			return nil, rty.ErrRaffleNotFound
		}
		return nil, err
	}
	var cfg rty.Config
	if err := types.Decode(value, &cfg); err != nil {
		return nil, errors.Wrap(err, "LoadRaffle.config")
	}
	return &Raffle{env: env, addr: addr, cfg: &cfg, throttle: NewThrottle(&cfg)}, nil
}

// Address instance address
func (r *Raffle) Address() string {
	return r.addr
}

// Config immutable configuration
func (r *Raffle) Config() *rty.Config {
	return r.cfg
}

func (r *Raffle) enter() error {
	if !r.guard.TryLock() {
		rlog.Warn("reentrant call rejected", "addr", r.addr)
		return rty.ErrReentrant
	}
	return nil
}

func (r *Raffle) exit() {
	r.guard.Unlock()
}

func (r *Raffle) now() int64 {
	return r.env.Block.BlockTime
}

func (r *Raffle) loadState() (*rty.RaffleState, error) {
	value, err := r.env.DB.Get(calcRaffleStateKey(r.addr))
	if err != nil {
		return nil, errors.Wrap(err, "loadState")
	}
	var st rty.RaffleState
	if err := types.Decode(value, &st); err != nil {
		return nil, errors.Wrap(err, "loadState.decode")
	}
	return &st, nil
}

func (r *Raffle) saveState(receipt *types.Receipt, st *rty.RaffleState) {
	r.setKV(receipt, calcRaffleStateKey(r.addr), types.Encode(st))
}

func (r *Raffle) setKV(receipt *types.Receipt, key, value []byte) {
	err := r.env.DB.Set(key, value)
	if err != nil {
		panic(err)
	}
	receipt.KV = append(receipt.KV, &types.KeyValue{Key: key, Value: value})
}

// int64 slots, zero deletes the key
func (r *Raffle) getInt(key []byte) int64 {
	value, err := r.env.DB.Get(key)
	if err != nil {
		return 0
	}
	var v int64
	types.MustDecode(value, &v)
	return v
}

func (r *Raffle) setInt(receipt *types.Receipt, key []byte, v int64) {
	if v == 0 {
		r.setKV(receipt, key, nil)
		return
	}
	r.setKV(receipt, key, types.Encode(v))
}

func invariant(format string, args ...interface{}) error {
	err := errors.Wrapf(rty.ErrAccountingInvariant, format, args...)
	rlog.Crit("accounting invariant violated", "err", err)
	return err
}

// State current header
func (r *Raffle) State() (*rty.RaffleState, error) {
	return r.loadState()
}
