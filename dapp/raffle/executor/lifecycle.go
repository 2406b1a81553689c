// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// ConfirmFunding FundingPending -> Open, reserves the pot exactly once
func (r *Raffle) ConfirmFunding(caller string) (*types.Receipt, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.exit()

	if caller != r.cfg.Deployer {
		return nil, rty.ErrNoPrivilege
	}
	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	if st.PotReserved {
		return nil, rty.ErrAlreadyFunded
	}
	if st.Status != rty.StatusFundingPending {
		return nil, errors.Wrapf(rty.ErrRaffleStatus, "status %s", rty.StatusName[st.Status])
	}
	balance := r.env.Token.BalanceOf(r.addr)
	if balance < r.cfg.PotSize {
		return nil, errors.Wrapf(rty.ErrFundNotEnough, "balance %d pot %d", balance, r.cfg.PotSize)
	}
	reserved, err := addAmount(st.Reserved, r.cfg.PotSize)
	if err != nil {
		return nil, err
	}
	st.Reserved = reserved
	st.PotReserved = true
	st.Status = rty.StatusOpen
	st.OpenTime = r.now()
	st.Deadline = r.now() + r.cfg.Duration

	receipt := types.NewReceipt()
	r.saveState(receipt, st)
	receipt.AddLog(rty.TyLogRaffleFund, &rty.ReceiptRaffleFund{
		Address:  r.addr,
		Pot:      r.cfg.PotSize,
		Deadline: st.Deadline,
	})
	rlog.Info("ConfirmFunding", "addr", r.addr, "pot", r.cfg.PotSize, "deadline", st.Deadline)
	return receipt, nil
}

func (r *Raffle) expired(st *rty.RaffleState) bool {
	return r.now() >= st.Deadline
}

func (r *Raffle) undersubscribed(st *rty.RaffleState) bool {
	return r.expired(st) && st.Sold < r.cfg.MinTickets
}

// cancelAndRefund 幂等; 奖池只退给创建者一次
func (r *Raffle) cancelAndRefund(receipt *types.Receipt, st *rty.RaffleState, reason string) error {
	if st.Status == rty.StatusCanceled {
		return nil
	}
	st.CancelSold = st.Sold
	st.CancelTime = r.now()
	st.CancelReason = reason
	st.Status = rty.StatusCanceled
	st.Draw = nil
	var pot int64
	if st.PotReserved && !st.PotRefunded {
		st.PotRefunded = true
		pot = r.cfg.PotSize
		if err := r.credit(receipt, r.cfg.Creator, pot); err != nil {
			return err
		}
	}
	receipt.AddLog(rty.TyLogRaffleCancel, &rty.ReceiptRaffleCancel{
		Address:   r.addr,
		Reason:    reason,
		Sold:      st.Sold,
		PotRefund: pot,
		Time:      st.CancelTime,
	})
	cancelCount.Inc(1)
	rlog.Info("cancelAndRefund", "addr", r.addr, "reason", reason, "sold", st.Sold, "potRefund", pot)
	return nil
}

// Cancel explicit cancellation once the deadline passed below the minimum.
// Canceling an already canceled raffle is a no-op.
func (r *Raffle) Cancel(caller string) (*types.Receipt, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.exit()

	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	receipt := types.NewReceipt()
	if st.Status == rty.StatusCanceled {
		return receipt, nil
	}
	if st.Status != rty.StatusOpen {
		return nil, errors.Wrapf(rty.ErrRaffleStatus, "status %s", rty.StatusName[st.Status])
	}
	if !r.undersubscribed(st) {
		return nil, errors.Wrapf(rty.ErrCancelNotAllowed, "sold %d min %d deadline %d", st.Sold, r.cfg.MinTickets, st.Deadline)
	}
	if err := r.cancelAndRefund(receipt, st, rty.CancelUndersubscribed); err != nil {
		return nil, err
	}
	r.saveState(receipt, st)
	rlog.Debug("Cancel", "addr", r.addr, "caller", caller)
	return receipt, nil
}

// ForceCancelStuck emergency hatch while Drawing: the creator after the short
// delay, anyone after the long delay.
func (r *Raffle) ForceCancelStuck(caller string) (*types.Receipt, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.exit()

	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	if st.Status != rty.StatusDrawing || st.Draw == nil {
		return nil, errors.Wrapf(rty.ErrRaffleStatus, "status %s", rty.StatusName[st.Status])
	}
	if !r.hatchOpen(st, caller) {
		return nil, errors.Wrapf(rty.ErrHatchLocked, "requested %d now %d", st.Draw.RequestTime, r.now())
	}
	receipt := types.NewReceipt()
	if err := r.cancelAndRefund(receipt, st, rty.CancelStuckDraw); err != nil {
		return nil, err
	}
	r.saveState(receipt, st)
	rlog.Warn("ForceCancelStuck", "addr", r.addr, "caller", caller)
	return receipt, nil
}

func (r *Raffle) hatchOpen(st *rty.RaffleState, caller string) bool {
	if st.Draw == nil {
		return false
	}
	elapsed := r.now() - st.Draw.RequestTime
	if caller == r.cfg.Creator && elapsed > rty.CreatorHatchDelay {
		return true
	}
	return elapsed > rty.PublicHatchDelay
}
