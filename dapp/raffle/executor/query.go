// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	dbm "github.com/33cn/raffle/common/db"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
)

// 只读查询, 不需要持有 guard

// Info config and state
func (r *Raffle) Info() (*rty.Raffle, error) {
	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	return &rty.Raffle{Config: r.cfg, State: st}, nil
}

// GetRanges page of range entries starting at offset
func (r *Raffle) GetRanges(offset int64, limit int32) (*rty.ReplyRanges, error) {
	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, types.ErrInvalidParam
	}
	n := int64(dbm.NormalizeCount(limit))
	reply := &rty.ReplyRanges{Offset: offset, Total: st.Entries, Sold: st.Sold}
	for i := offset; i < st.Entries && i < offset+n; i++ {
		e, err := r.getEntry(i)
		if err != nil {
			return nil, err
		}
		reply.Entries = append(reply.Entries, e)
	}
	return reply, nil
}

// Solvency reserved liabilities against the token balances actually held
func (r *Raffle) Solvency() (*rty.ReplySolvency, error) {
	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	reply := &rty.ReplySolvency{
		Reserved:      st.Reserved,
		Balance:       r.env.Token.BalanceOf(r.addr),
		NativeOwed:    st.NativeOwed,
		NativeBalance: r.env.Native.BalanceOf(r.addr),
	}
	reply.Solvent = reply.Reserved <= reply.Balance && reply.NativeOwed <= reply.NativeBalance
	return reply, nil
}

// Eligibility lifecycle predicates at the current block time
func (r *Raffle) Eligibility(caller string) (*rty.ReplyEligibility, error) {
	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	reply := &rty.ReplyEligibility{Status: rty.StatusName[st.Status]}
	if st.Status == rty.StatusOpen {
		reply.IsOpen = !r.expired(st)
		reply.IsExpired = r.expired(st)
		if reply.IsOpen {
			reply.TimeRemaining = st.Deadline - r.now()
		}
		reply.IsSoldOut = r.cfg.MaxTickets > 0 && st.Sold >= r.cfg.MaxTickets
		reply.CanCancel = r.undersubscribed(st)
		reply.CanFinalize = st.Draw == nil && (reply.IsSoldOut || (reply.IsExpired && !reply.CanCancel))
	}
	if st.Status == rty.StatusDrawing {
		reply.IsExpired = r.expired(st)
		reply.CreatorHatchOpen = r.hatchOpen(st, r.cfg.Creator)
		reply.PublicHatchOpen = r.hatchOpen(st, "")
	}
	if caller == r.cfg.Creator {
		reply.CanCancel = reply.CanCancel || reply.CreatorHatchOpen
	} else {
		reply.CanCancel = reply.CanCancel || reply.PublicHatchOpen
	}
	return reply, nil
}

// BuyerInfo tickets and claimable balances of buyer
func (r *Raffle) BuyerInfo(buyer string) (*rty.ReplyBuyer, error) {
	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	reply := &rty.ReplyBuyer{
		Buyer:           buyer,
		Tickets:         r.getInt(calcTicketsKey(r.addr, buyer)),
		Claimable:       r.getInt(calcClaimKey(r.addr, buyer)),
		NativeClaimable: r.getInt(calcNativeClaimKey(r.addr, buyer)),
		MinPurchase:     r.minimumFor(st, buyer),
	}
	if st.Status == rty.StatusCanceled {
		refund, err := mulAmount(reply.Tickets, r.cfg.TicketPrice)
		if err != nil {
			return nil, err
		}
		reply.Claimable += refund
	}
	return reply, nil
}

// MinPurchaseNow smallest purchase buyer could make right now
func (r *Raffle) MinPurchaseNow(buyer string) (int64, error) {
	st, err := r.loadState()
	if err != nil {
		return 0, err
	}
	return r.minimumFor(st, buyer), nil
}

// WinnerOf owner of ticket index
func (r *Raffle) WinnerOf(index int64) (*rty.ReplyWinner, error) {
	st, err := r.loadState()
	if err != nil {
		return nil, err
	}
	buyer, err := r.findBuyer(st, index)
	if err != nil {
		return nil, err
	}
	return &rty.ReplyWinner{Index: index, Buyer: buyer}, nil
}
