// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"math"

	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	emath "github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

// mulAmount count * price without overflow
func mulAmount(count, price int64) (int64, error) {
	if count < 0 || price < 0 {
		return 0, types.ErrAmount
	}
	v, overflow := emath.SafeMul(uint64(count), uint64(price))
	if overflow || v > math.MaxInt64 {
		return 0, rty.ErrBoundOverflow
	}
	return int64(v), nil
}

func addAmount(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, types.ErrAmount
	}
	v, overflow := emath.SafeAdd(uint64(a), uint64(b))
	if overflow || v > math.MaxInt64 {
		return 0, rty.ErrBoundOverflow
	}
	return int64(v), nil
}

// Buy count tickets for buyer. The ledger and escrow are updated before the
// deposit token is pulled, so a reentrant observer sees the post-sale state.
func (r *Raffle) Buy(buyer string, count int64) (*types.Receipt, error) {
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
	if r.now() >= st.Deadline {
		return nil, rty.ErrRaffleExpired
	}
	if count <= 0 || count > rty.MaxBatchSize {
		return nil, errors.Wrapf(rty.ErrBuyCount, "count %d", count)
	}
	if buyer == r.cfg.Creator {
		return nil, rty.ErrCreatorBuy
	}
	if count < r.cfg.MinPurchase {
		return nil, errors.Wrapf(rty.ErrBelowMinimum, "count %d min %d", count, r.cfg.MinPurchase)
	}
	newSold := st.Sold + count
	if r.cfg.MaxTickets > 0 && newSold > r.cfg.MaxTickets {
		return nil, errors.Wrapf(rty.ErrTicketCap, "sold %d max %d", newSold, r.cfg.MaxTickets)
	}
	if newSold > rty.HardTicketCap {
		return nil, errors.Wrapf(rty.ErrTicketCap, "sold %d hard cap", newSold)
	}
	if newSold > rty.MaxBound {
		return nil, rty.ErrBoundOverflow
	}
	if st.Entries == 0 || st.LastBuyer != buyer {
		if st.Entries >= rty.MaxEntries {
			return nil, rty.ErrEntryCap
		}
		if n := r.minimumForNewEntry(st); count < n {
			return nil, errors.Wrapf(rty.ErrBelowThrottle, "count %d min %d entries %d", count, n, st.Entries)
		}
	}
	cost, err := mulAmount(count, r.cfg.TicketPrice)
	if err != nil {
		return nil, err
	}
	reserved, err := addAmount(st.Reserved, cost)
	if err != nil {
		return nil, err
	}
	revenue, err := addAmount(st.Revenue, cost)
	if err != nil {
		return nil, err
	}

	receipt := types.NewReceipt()
	first := st.Sold
	index, newEntry, err := r.extendOrAppend(receipt, st, buyer, count)
	if err != nil {
		return nil, err
	}
	st.Reserved = reserved
	st.Revenue = revenue
	ticketsKey := calcTicketsKey(r.addr, buyer)
	r.setInt(receipt, ticketsKey, r.getInt(ticketsKey)+count)
	r.saveState(receipt, st)
	receipt.AddLog(rty.TyLogRaffleBuy, &rty.ReceiptRaffleBuy{
		Address:     r.addr,
		Buyer:       buyer,
		Count:       count,
		Cost:        cost,
		EntryIndex:  index,
		NewEntry:    newEntry,
		FirstTicket: first,
		Sold:        st.Sold,
		Time:        r.now(),
	})

	pull, err := r.pullDeposit(buyer, cost)
	if err != nil {
		return nil, err
	}
	receipt.Merge(pull)
	buyTickets.Inc(count)
	rlog.Debug("Buy", "addr", r.addr, "buyer", buyer, "count", count, "sold", st.Sold, "entry", index)
	return receipt, nil
}
