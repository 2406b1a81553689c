// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"math/big"

	"github.com/33cn/raffle/common"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// feeShare pct*base/100 rounded down, without the intermediate product
func feeShare(pct, base int64) int64 {
	return pct*(base/100) + pct*(base%100)/100
}

// drawSeed public inputs only, the randomness comes from the provider
func (r *Raffle) drawSeed(st *rty.RaffleState) []byte {
	h := common.Keccak256(
		[]byte(r.addr),
		common.Uint64Bytes(uint64(st.Sold)),
		common.Uint64Bytes(uint64(st.Revenue)),
		common.Uint64Bytes(uint64(st.RequestCount)),
		r.env.Block.Entropy,
	)
	return h[:]
}

// RequestDraw Open -> Drawing. paidFee is taken from caller in native coin and
// whatever exceeds the quote is pushed back. An undersubscribed raffle past
// its deadline is canceled instead and the whole fee is returned.
func (r *Raffle) RequestDraw(caller string, paidFee int64) (*types.Receipt, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.exit()

	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	if st.Status != rty.StatusOpen {
		return nil, errors.Wrapf(rty.ErrRaffleStatus, "status %s", rty.StatusName[st.Status])
	}
	if st.Draw != nil {
		return nil, rty.ErrDrawPending
	}
	if paidFee < 0 {
		return nil, types.ErrAmount
	}
	sold, err := r.sold(st)
	if err != nil {
		return nil, err
	}
	if sold != st.Sold {
		return nil, invariant("ledger sold %d header sold %d", sold, st.Sold)
	}
	full := r.cfg.MaxTickets > 0 && sold >= r.cfg.MaxTickets
	if !full && !r.expired(st) {
		return nil, errors.Wrapf(rty.ErrDrawNotReady, "sold %d deadline %d now %d", sold, st.Deadline, r.now())
	}

	receipt := types.NewReceipt()
	if paidFee > 0 {
		pay, err := r.env.Native.Transfer(caller, r.addr, paidFee)
		if err != nil {
			return nil, errors.Wrap(err, "RequestDraw.fee")
		}
		receipt.Merge(pay)
	}

	if r.undersubscribed(st) {
		if err := r.cancelAndRefund(receipt, st, rty.CancelUndersubscribed); err != nil {
			return nil, err
		}
		if err := r.pushNative(receipt, st, caller, paidFee, "draw fee refund"); err != nil {
			return nil, err
		}
		r.saveState(receipt, st)
		rlog.Info("RequestDraw canceled undersubscribed raffle", "addr", r.addr, "sold", sold, "min", r.cfg.MinTickets)
		return receipt, nil
	}

	quote := r.env.Oracle.QuoteFee(r.cfg.CallbackGas)
	if paidFee < quote {
		return nil, errors.Wrapf(rty.ErrInsufficientFee, "paid %d quote %d", paidFee, quote)
	}
	st.RequestCount++
	seed := r.drawSeed(st)
	st.Status = rty.StatusDrawing
	st.Draw = &rty.DrawSession{
		SoldAtDraw:  sold,
		RequestTime: r.now(),
		Provider:    r.cfg.Provider,
	}
	r.saveState(receipt, st)

	id, req, err := r.env.Oracle.Request(r.addr, r.cfg.Provider, seed, r.cfg.CallbackGas, quote)
	if err != nil {
		return nil, errors.Wrapf(rty.ErrRequestFailed, "oracle: %v", err)
	}
	if id == 0 {
		return nil, errors.Wrap(rty.ErrRequestFailed, "no request id")
	}
	receipt.Merge(req)
	st.Draw.RequestID = id

	excess := paidFee - quote
	if err := r.pushNative(receipt, st, caller, excess, "draw fee excess"); err != nil {
		return nil, err
	}
	r.saveState(receipt, st)
	receipt.AddLog(rty.TyLogRaffleDraw, &rty.ReceiptRaffleDraw{
		Address:    r.addr,
		Caller:     caller,
		RequestID:  id,
		Provider:   r.cfg.Provider,
		Seed:       seed,
		SoldAtDraw: sold,
		Fee:        quote,
		Refund:     excess,
		Time:       r.now(),
	})
	drawRequested.Inc(1)
	rlog.Info("RequestDraw", "addr", r.addr, "caller", caller, "requestID", id, "sold", sold, "fee", quote)
	return receipt, nil
}

func (r *Raffle) rejectCallback(requestID uint64, provider, reason string) *types.Receipt {
	receipt := types.NewReceipt()
	receipt.AddLog(rty.TyLogRaffleCallbackRejected, &rty.ReceiptRaffleCallbackRejected{
		Address:   r.addr,
		RequestID: requestID,
		Provider:  provider,
		Reason:    reason,
	})
	callbackRejected.Inc(1)
	rlog.Warn("randomness callback rejected", "addr", r.addr, "requestID", requestID, "provider", provider, "reason", reason)
	return receipt
}

// OnRandomnessDelivered resolves the winner. Only the oracle may call it; a
// callback that does not match the outstanding request is logged and ignored.
func (r *Raffle) OnRandomnessDelivered(sender string, requestID uint64, provider string, value [32]byte) (*types.Receipt, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.exit()

	if sender != r.cfg.Oracle {
		rlog.Error("callback from unknown sender", "addr", r.addr, "sender", sender)
		return nil, rty.ErrUnauthorizedCallback
	}
	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	if st.Draw == nil || st.Draw.RequestID == 0 || st.Draw.RequestID != requestID {
		return r.rejectCallback(requestID, provider, rty.RejectUnmatched), nil
	}
	if st.Status != rty.StatusDrawing || st.Draw.Provider != provider {
		return r.rejectCallback(requestID, provider, rty.RejectMismatch), nil
	}

	soldAtDraw := st.Draw.SoldAtDraw
	sold, err := r.sold(st)
	if err != nil {
		return nil, err
	}
	if soldAtDraw <= 0 || soldAtDraw != sold || sold != st.Sold {
		return nil, invariant("sold at draw %d ledger %d header %d", soldAtDraw, sold, st.Sold)
	}
	index := new(big.Int).Mod(new(big.Int).SetBytes(value[:]), big.NewInt(soldAtDraw)).Int64()
	winner, err := r.findBuyer(st, index)
	if err != nil {
		return nil, err
	}

	pot := r.cfg.PotSize
	revenue := st.Revenue
	winnerFee := feeShare(r.cfg.FeePercent, pot)
	creatorFee := feeShare(r.cfg.FeePercent, revenue)
	winnerAmount := pot - winnerFee
	creatorAmount := revenue - creatorFee
	feeAmount := winnerFee + creatorFee
	if !st.PotReserved || st.Reserved != pot+revenue {
		return nil, invariant("reserved %d pot %d revenue %d", st.Reserved, pot, revenue)
	}
	if winnerAmount+creatorAmount+feeAmount != st.Reserved {
		return nil, invariant("allocations %d/%d/%d reserved %d", winnerAmount, creatorAmount, feeAmount, st.Reserved)
	}

	receipt := types.NewReceipt()
	if err := r.credit(receipt, winner, winnerAmount); err != nil {
		return nil, err
	}
	if err := r.credit(receipt, r.cfg.Creator, creatorAmount); err != nil {
		return nil, err
	}
	if err := r.credit(receipt, r.cfg.FeeRecipient, feeAmount); err != nil {
		return nil, err
	}
	st.Draw = nil
	st.Status = rty.StatusCompleted
	st.Winner = winner
	st.WinningIndex = index
	r.saveState(receipt, st)
	receipt.AddLog(rty.TyLogRaffleResolve, &rty.ReceiptRaffleResolve{
		Address:       r.addr,
		RequestID:     requestID,
		Random:        value[:],
		WinningIndex:  index,
		Winner:        winner,
		WinnerAmount:  winnerAmount,
		CreatorAmount: creatorAmount,
		FeeAmount:     feeAmount,
	})
	drawCompleted.Inc(1)
	rlog.Info("OnRandomnessDelivered", "addr", r.addr, "requestID", requestID, "index", index, "winner", winner)
	return receipt, nil
}
