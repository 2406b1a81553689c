// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/raffle/common/address"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

type action struct {
	e    *Executor
	tx   *types.Transaction
	from string
}

func newAction(e *Executor, tx *types.Transaction) *action {
	return &action{e: e, tx: tx, from: tx.From}
}

func checkTx(tx *types.Transaction) error {
	if tx == nil || len(tx.Payload) == 0 {
		return types.ErrEmptyTx
	}
	if tx.Execer != rty.RaffleX {
		return types.ErrExecNameNotAllow
	}
	if err := address.CheckAddress(tx.From); err != nil {
		return errors.Wrapf(types.ErrInvalidParam, "from: %v", err)
	}
	if tx.Value < 0 {
		return types.ErrAmount
	}
	return nil
}

func (a *action) exec(act *rty.RaffleAction) (*types.Receipt, error) {
	// 只有开奖交易携带原生币
	if a.tx.Value != 0 && act.Ty != rty.RaffleActionDraw {
		return nil, errors.Wrap(types.ErrAmount, "value only allowed on draw")
	}
	switch act.Ty {
	case rty.RaffleActionCreate:
		return a.create(act.Create)
	case rty.RaffleActionBuy:
		return a.buy(act.Buy)
	case rty.RaffleActionDraw:
		return a.draw(act.Draw)
	case rty.RaffleActionCancel:
		return a.cancel(act.Cancel)
	case rty.RaffleActionForceCancel:
		return a.forceCancel(act.ForceCancel)
	case rty.RaffleActionClaim:
		return a.claim(act.Claim)
	case rty.RaffleActionClaimNative:
		return a.claimNative(act.ClaimNative)
	case rty.RaffleActionDeliver:
		return a.e.oracle.Fulfill(a.from, act.Deliver.RequestID)
	case rty.RaffleActionApprove:
		return a.e.token.Approve(a.from, act.Approve.Spender, act.Approve.Amount)
	case rty.RaffleActionMint:
		return a.mint(act.Mint)
	}
	return nil, types.ErrActionNotSupport
}

// 未填写的参数使用节点配置
func (a *action) fillDefaults(cfg *rty.Config) {
	node := a.e.cfg
	if cfg.Provider == "" {
		cfg.Provider = node.Oracle.DefaultProvider
	}
	if cfg.CallbackGas == 0 {
		cfg.CallbackGas = node.Raffle.CallbackGas
	}
	if cfg.Throttle == "" {
		cfg.Throttle = node.Raffle.ThrottlePolicy
		cfg.MinNewEntryCost = node.Raffle.MinNewEntryCost
	}
	if cfg.FeeRecipient == "" {
		cfg.FeeRecipient = node.Raffle.FeeRecipient
		cfg.FeePercent = node.Raffle.FeePercent
	}
}

func (a *action) create(p *rty.RaffleCreate) (*types.Receipt, error) {
	if p.Config == nil {
		return nil, types.ErrInvalidParam
	}
	cfg := *p.Config
	a.fillDefaults(&cfg)
	r, receipt, err := a.e.factory.Create(a.from, &cfg, p.Salt)
	if err != nil {
		return nil, err
	}
	a.e.cache.Add(r.Address(), r)
	a.e.active[r.Address()] = r
	return receipt, nil
}

func (a *action) buy(p *rty.RaffleBuy) (*types.Receipt, error) {
	r, err := a.e.load(p.Address)
	if err != nil {
		return nil, err
	}
	return r.Buy(a.from, p.Count)
}

func (a *action) draw(p *rty.RaffleDraw) (*types.Receipt, error) {
	r, err := a.e.load(p.Address)
	if err != nil {
		return nil, err
	}
	return r.RequestDraw(a.from, a.tx.Value)
}

func (a *action) cancel(p *rty.RaffleCancel) (*types.Receipt, error) {
	r, err := a.e.load(p.Address)
	if err != nil {
		return nil, err
	}
	return r.Cancel(a.from)
}

func (a *action) forceCancel(p *rty.RaffleForceCancel) (*types.Receipt, error) {
	r, err := a.e.load(p.Address)
	if err != nil {
		return nil, err
	}
	return r.ForceCancelStuck(a.from)
}

func (a *action) claim(p *rty.RaffleClaim) (*types.Receipt, error) {
	r, err := a.e.load(p.Address)
	if err != nil {
		return nil, err
	}
	return r.Claim(a.from)
}

func (a *action) claimNative(p *rty.RaffleClaimNative) (*types.Receipt, error) {
	r, err := a.e.load(p.Address)
	if err != nil {
		return nil, err
	}
	return r.ClaimNative(a.from)
}

func (a *action) mint(p *rty.TokenMint) (*types.Receipt, error) {
	if err := address.CheckAddress(p.To); err != nil {
		return nil, errors.Wrapf(types.ErrInvalidParam, "to: %v", err)
	}
	if p.Native {
		return a.e.native.Mint(a.from, p.To, p.Amount)
	}
	return a.e.token.Mint(a.from, p.To, p.Amount)
}
