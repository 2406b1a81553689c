// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package factory 部署抽奖实例: 参数校验, 地址派生, 注入奖池, 登记
package factory

import (
	"github.com/33cn/raffle/common/address"
	rexec "github.com/33cn/raffle/dapp/raffle/executor"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	log "github.com/inconshreveable/log15"
	pkgerr "github.com/pkg/errors"
)

var flog = log.New("module", "execs.raffle.factory")

// FactoryX 执行器名字
const FactoryX = "raffle-factory"

// TypeID registry type of instances deployed here
const TypeID = "raffle.single-winner.v1"

// Factory deploys raffles. Creators approve the factory for the pot first.
type Factory struct {
	env      *rexec.Env
	addr     string
	registry *Registry
}

// New factory over env, registering into registry
func New(env *rexec.Env, registry *Registry) *Factory {
	return &Factory{env: env, addr: address.ExecAddress(FactoryX), registry: registry}
}

// Address deployer address, written into every config
func (f *Factory) Address() string {
	return f.addr
}

// Registry discovery registry
func (f *Factory) Registry() *Registry {
	return f.registry
}

// InstanceAddress deterministic from factory, creator and salt
func (f *Factory) InstanceAddress(creator, salt string) string {
	return address.Derive(f.addr, creator, salt)
}

// Create validates params, persists the instance, moves the pot in and opens it
func (f *Factory) Create(creator string, params *rty.Config, salt string) (*rexec.Raffle, *types.Receipt, error) {
	if params == nil || salt == "" {
		return nil, nil, types.ErrInvalidParam
	}
	cfg := *params
	cfg.Creator = creator
	cfg.Deployer = f.addr
	cfg.DepositToken = f.env.Token.Symbol()
	cfg.TokenDecimals = f.env.Token.Decimals()
	cfg.Oracle = f.env.Oracle.Address()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	addr := f.InstanceAddress(creator, salt)
	r, receipt, err := rexec.NewRaffle(f.env, addr, &cfg)
	if err != nil {
		return nil, nil, err
	}
	fund, err := f.env.Token.TransferFrom(f.addr, creator, addr, cfg.PotSize)
	if err != nil {
		return nil, nil, pkgerr.Wrap(err, "Create.pot")
	}
	receipt.Merge(fund)
	opened, err := r.ConfirmFunding(f.addr)
	if err != nil {
		return nil, nil, err
	}
	receipt.Merge(opened)
	reg, err := f.registry.Register(f.addr, TypeID, addr, creator)
	if err != nil {
		return nil, nil, pkgerr.Wrap(err, "Create.register")
	}
	receipt.Merge(reg)
	flog.Info("Create", "instance", addr, "creator", creator, "salt", salt)
	return r, receipt, nil
}
