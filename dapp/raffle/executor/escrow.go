// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// pullDeposit transferFrom buyer, checked against the instance balance delta
func (r *Raffle) pullDeposit(from string, amount int64) (*types.Receipt, error) {
	before := r.env.Token.BalanceOf(r.addr)
	receipt, err := r.env.Token.TransferFrom(r.addr, from, r.addr, amount)
	if err != nil {
		return nil, errors.Wrap(err, "pullDeposit.transferFrom")
	}
	after := r.env.Token.BalanceOf(r.addr)
	if after-before != amount {
		rlog.Error("pullDeposit delta mismatch", "addr", r.addr, "from", from, "want", amount, "got", after-before)
		return nil, errors.Wrapf(rty.ErrTransferDeltaMismatch, "pull want %d got %d", amount, after-before)
	}
	return receipt, nil
}

// pushDeposit transfer out, both sides checked
func (r *Raffle) pushDeposit(to string, amount int64) (*types.Receipt, error) {
	before := r.env.Token.BalanceOf(r.addr)
	beforeTo := r.env.Token.BalanceOf(to)
	receipt, err := r.env.Token.Transfer(r.addr, to, amount)
	if err != nil {
		return nil, errors.Wrap(err, "pushDeposit.transfer")
	}
	sent := before - r.env.Token.BalanceOf(r.addr)
	received := r.env.Token.BalanceOf(to) - beforeTo
	if sent != amount || received != amount {
		rlog.Error("pushDeposit delta mismatch", "addr", r.addr, "to", to, "want", amount, "sent", sent, "received", received)
		return nil, errors.Wrapf(rty.ErrTransferDeltaMismatch, "push want %d sent %d received %d", amount, sent, received)
	}
	return receipt, nil
}

// credit adds to the deposit token claimable balance of owner
func (r *Raffle) credit(receipt *types.Receipt, owner string, amount int64) error {
	if amount == 0 {
		return nil
	}
	key := calcClaimKey(r.addr, owner)
	v, err := addAmount(r.getInt(key), amount)
	if err != nil {
		return err
	}
	r.setInt(receipt, key, v)
	return nil
}

// pushNative 直接转账原生币, 失败时记入可领取余额而不是让整个操作失败
func (r *Raffle) pushNative(receipt *types.Receipt, st *rty.RaffleState, to string, amount int64, reason string) error {
	if amount <= 0 {
		return nil
	}
	rec, err := r.env.Native.Transfer(r.addr, to, amount)
	if err == nil {
		receipt.Merge(rec)
		return nil
	}
	rlog.Warn("pushNative failed, credited", "addr", r.addr, "to", to, "amount", amount, "err", err)
	key := calcNativeClaimKey(r.addr, to)
	v, err := addAmount(r.getInt(key), amount)
	if err != nil {
		return err
	}
	owed, err := addAmount(st.NativeOwed, amount)
	if err != nil {
		return err
	}
	r.setInt(receipt, key, v)
	st.NativeOwed = owed
	receipt.AddLog(rty.TyLogRaffleNativeCredit, &rty.ReceiptNativeCredit{
		Address: r.addr,
		To:      to,
		Amount:  amount,
		Reason:  reason,
	})
	return nil
}

// Claim pays the whole deposit token balance owed to claimer. On a canceled
// raffle the ticket refund is folded into the same payout.
func (r *Raffle) Claim(claimer string) (*types.Receipt, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.exit()

	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	receipt := types.NewReceipt()
	var refund int64
	if st.Status == rty.StatusCanceled {
		ticketsKey := calcTicketsKey(r.addr, claimer)
		if n := r.getInt(ticketsKey); n > 0 {
			refund, err = mulAmount(n, r.cfg.TicketPrice)
			if err != nil {
				return nil, err
			}
			r.setInt(receipt, ticketsKey, 0)
		}
	}
	claimKey := calcClaimKey(r.addr, claimer)
	allocated := r.getInt(claimKey)
	total, err := addAmount(allocated, refund)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, rty.ErrNothingToClaim
	}
	r.setInt(receipt, claimKey, 0)
	if st.Reserved-total < 0 {
		return nil, invariant("reserved %d claim %d", st.Reserved, total)
	}
	st.Reserved -= total
	r.saveState(receipt, st)
	receipt.AddLog(rty.TyLogRaffleClaim, &rty.ReceiptRaffleClaim{
		Address:   r.addr,
		Claimer:   claimer,
		Allocated: allocated,
		Refund:    refund,
		Amount:    total,
		Reserved:  st.Reserved,
	})

	push, err := r.pushDeposit(claimer, total)
	if err != nil {
		return nil, err
	}
	receipt.Merge(push)
	claimCount.Inc(1)
	rlog.Info("Claim", "addr", r.addr, "claimer", claimer, "amount", total, "refund", refund)
	return receipt, nil
}

// ClaimNative pays native coin credited by a failed push
func (r *Raffle) ClaimNative(claimer string) (*types.Receipt, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.exit()

	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	key := calcNativeClaimKey(r.addr, claimer)
	amount := r.getInt(key)
	if amount == 0 {
		return nil, rty.ErrNothingToClaim
	}
	if st.NativeOwed-amount < 0 {
		return nil, invariant("native owed %d claim %d", st.NativeOwed, amount)
	}
	receipt := types.NewReceipt()
	r.setInt(receipt, key, 0)
	st.NativeOwed -= amount
	r.saveState(receipt, st)
	receipt.AddLog(rty.TyLogRaffleNativeClaim, &rty.ReceiptNativeCredit{
		Address: r.addr,
		To:      claimer,
		Amount:  amount,
		Reason:  "claim",
	})
	rec, err := r.env.Native.Transfer(r.addr, claimer, amount)
	if err != nil {
		return nil, errors.Wrap(err, "ClaimNative.transfer")
	}
	receipt.Merge(rec)
	return receipt, nil
}
