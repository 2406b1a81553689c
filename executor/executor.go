// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 宿主执行器: 一笔交易一个状态事务, 调度抽奖, 预言机和代币
package executor

import (
	"sync"
	"time"

	"github.com/33cn/raffle/account"
	"github.com/33cn/raffle/common"
	dbm "github.com/33cn/raffle/common/db"
	"github.com/33cn/raffle/dapp/raffle/factory"
	rexec "github.com/33cn/raffle/dapp/raffle/executor"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/dapp/vrforacle"
	"github.com/33cn/raffle/metrics"
	"github.com/33cn/raffle/types"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var elog = log.New("module", "execs")

var (
	txExecuted  = metrics.Meter("execs.tx.executed")
	txFailed    = metrics.Meter("execs.tx.failed")
	localFailed = metrics.Meter("execs.local.failed")
)

// ledger names
const (
	TokenX         = "token"
	CoinsX         = "coins"
	NativeDecimals = 8
)

const instanceCacheSize = 1024

var blockKey = []byte("host-block")

// Executor 宿主. 所有入口串行执行
type Executor struct {
	mu       sync.Mutex
	cfg      *types.Config
	backend  dbm.DB
	state    *dbm.StateDB
	local    *dbm.LocalDB
	token    *account.DB
	native   *account.DB
	oracle   *vrforacle.Oracle
	registry *factory.Registry
	factory  *factory.Factory
	env      *rexec.Env
	block    *types.BlockContext
	// 同一个地址在一个进程里只对应一个实例对象, 重入保护依赖于此
	cache  *lru.Cache
	active map[string]*rexec.Raffle
}

// New opens the configured store and wires all ledgers
func New(cfg *types.Config) (*Executor, error) {
	if cfg == nil || cfg.Store == nil {
		return nil, types.ErrInvalidParam
	}
	backend, err := dbm.NewDB(cfg.Store.Name, cfg.Store.Driver, cfg.Store.DbPath, int(cfg.Store.DbCache))
	if err != nil {
		return nil, errors.Wrap(err, "New.db")
	}
	e, err := NewWithDB(cfg, backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return e, nil
}

// NewWithDB wires an executor over an opened backend
func NewWithDB(cfg *types.Config, backend dbm.DB) (*Executor, error) {
	if cfg.Token == nil || cfg.Oracle == nil || cfg.Raffle == nil {
		return nil, types.ErrInvalidParam
	}
	state := dbm.NewStateDB(backend)
	token, err := account.NewAccountDB(TokenX, cfg.Token.Symbol, cfg.Token.Decimals, state)
	if err != nil {
		return nil, errors.Wrap(err, "New.token")
	}
	token.SetGenesis(cfg.Token.Genesis)
	native, err := account.NewAccountDB(CoinsX, cfg.Token.NativeSymbol, NativeDecimals, state)
	if err != nil {
		return nil, errors.Wrap(err, "New.native")
	}
	native.SetGenesis(cfg.Token.Genesis)
	oracle, err := vrforacle.New(cfg.Oracle, state, native)
	if err != nil {
		return nil, errors.Wrap(err, "New.oracle")
	}
	policy, err := factory.NewPolicy(cfg.Raffle.RegistryPolicy, cfg.Raffle.RegistryOwner)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New(instanceCacheSize)
	if err != nil {
		return nil, err
	}
	e := &Executor{
		cfg:      cfg,
		backend:  backend,
		state:    state,
		local:    dbm.NewLocalDB(backend),
		token:    token,
		native:   native,
		oracle:   oracle,
		registry: factory.NewRegistry(state, policy),
		cache:    cache,
		active:   make(map[string]*rexec.Raffle),
	}
	e.block, err = e.loadBlock()
	if err != nil {
		return nil, err
	}
	e.env = &rexec.Env{DB: state, Token: token, Native: native, Oracle: oracle, Block: e.block}
	e.factory = factory.New(e.env, e.registry)
	oracle.SetResolver(e.consumer)
	if err := e.initRegistrar(); err != nil {
		return nil, err
	}
	elog.Info("executor ready", "title", cfg.Title, "height", e.block.Height, "registry", policy.Name(),
		"factory", e.factory.Address(), "oracle", oracle.Address())
	return e, nil
}

// 首次启动时把工厂登记为 registrar
func (e *Executor) initRegistrar() error {
	if e.registry.Registrar() != "" {
		return nil
	}
	caller := e.cfg.Raffle.RegistryOwner
	if _, err := e.registry.SetRegistrar(caller, e.factory.Address()); err != nil {
		if e.registry.Policy().Name() == factory.PolicyOwned {
			elog.Warn("registrar not set, waiting for the registry owner", "err", err)
			return nil
		}
		return err
	}
	return e.state.Flush()
}

func (e *Executor) loadBlock() (*types.BlockContext, error) {
	value, err := e.backend.Get(blockKey)
	if err == dbm.ErrNotFoundInDb {
		block := &types.BlockContext{
			BlockTime: time.Now().Unix(),
			Entropy:   common.Sha256([]byte(e.cfg.Title)),
		}
		return block, e.saveBlock(block)
	}
	if err != nil {
		return nil, err
	}
	var block types.BlockContext
	if err := types.Decode(value, &block); err != nil {
		return nil, errors.Wrap(err, "loadBlock")
	}
	return &block, nil
}

// Close the backend
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backend.Close()
}

// Block current block context
func (e *Executor) Block() types.BlockContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.block
}

// NextBlock seals the current block and moves time forward by delta seconds
func (e *Executor) NextBlock(delta int64) (types.BlockContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if delta < 0 {
		return *e.block, types.ErrInvalidParam
	}
	e.block.Height++
	e.block.BlockTime += delta
	e.block.Entropy = common.Sha256(append(common.CopyBytes(e.block.Entropy), common.Uint64Bytes(uint64(e.block.Height))...))
	e.block.TxCount = 0
	if err := e.saveBlock(e.block); err != nil {
		return *e.block, errors.Wrap(err, "NextBlock")
	}
	return *e.block, nil
}

func (e *Executor) saveBlock(block *types.BlockContext) error {
	return e.backend.Set(blockKey, types.Encode(block))
}

// Factory deployment factory
func (e *Executor) Factory() *factory.Factory {
	return e.factory
}

// Oracle randomness service
func (e *Executor) Oracle() *vrforacle.Oracle {
	return e.oracle
}

// load 实例对象: 本交易已用过的 -> lru -> 状态库
func (e *Executor) load(addr string) (*rexec.Raffle, error) {
	if r, ok := e.active[addr]; ok {
		return r, nil
	}
	if v, ok := e.cache.Get(addr); ok {
		r := v.(*rexec.Raffle)
		e.active[addr] = r
		return r, nil
	}
	r, err := rexec.LoadRaffle(e.env, addr)
	if err != nil {
		return nil, err
	}
	e.cache.Add(addr, r)
	e.active[addr] = r
	return r, nil
}

func (e *Executor) consumer(addr string) (vrforacle.Consumer, error) {
	r, err := e.load(addr)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (e *Executor) resetActive() {
	for k := range e.active {
		delete(e.active, k)
	}
}

// Exec 执行一笔交易. 任何一步出错, 本交易的所有写入都回滚.
// 状态写入成功后交易即生效, 本地索引写失败只记日志, 不再返回错误
func (e *Executor) Exec(tx *types.Transaction) (*types.Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.resetActive()
	receipt, err := e.exec(tx)
	if err != nil {
		txFailed.Mark(1)
		elog.Error("exec tx error", "err", err, "action", actionName(tx), "from", txFrom(tx))
		return nil, err
	}
	txExecuted.Mark(1)
	index := e.block.TxCount
	e.block.TxCount++
	if err := e.saveBlock(e.block); err != nil {
		localFailed.Mark(1)
		elog.Error("save block error", "err", err, "height", e.block.Height, "index", index)
	}
	if err := e.execLocal(tx, receipt, index); err != nil {
		localFailed.Mark(1)
		elog.Error("exec local error", "err", err, "hash", common.ToHex(tx.Hash()))
	}
	return receipt, nil
}

func (e *Executor) exec(tx *types.Transaction) (*types.Receipt, error) {
	if err := checkTx(tx); err != nil {
		return nil, err
	}
	action, err := rty.DecodePayload(tx)
	if err != nil {
		return nil, err
	}
	e.state.Begin()
	receipt, err := newAction(e, tx).exec(action)
	if err == nil {
		err = checkWrites(e, receipt)
	}
	if err != nil {
		e.state.Rollback()
		for addr := range e.active {
			e.cache.Remove(addr)
		}
		return nil, err
	}
	e.state.Commit()
	if err := e.state.Flush(); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (e *Executor) execLocal(tx *types.Transaction, receipt *types.Receipt, index int64) error {
	data := &types.ReceiptData{Ty: receipt.Ty, Logs: receipt.Logs}
	set := &types.LocalDBSet{}
	for _, p := range globalPlugins {
		kvs, err := p.plugin.ExecLocal(e, tx, data, index)
		if err != nil {
			return errors.Wrap(err, p.name)
		}
		set.KV = append(set.KV, kvs...)
	}
	for _, kv := range set.KV {
		if err := isAllowLocalKey(kv.Key); err != nil {
			return err
		}
	}
	return e.local.WriteSet(set)
}

func actionName(tx *types.Transaction) string {
	if tx == nil {
		return "nil"
	}
	return rty.ActionName(tx)
}

func txFrom(tx *types.Transaction) string {
	if tx == nil {
		return ""
	}
	return tx.From
}
