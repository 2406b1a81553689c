// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"sort"

	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// 区间账本: 第 i 个条目覆盖 [bound(i-1), bound(i)), bound 严格递增
// 连续购买的同一买家只延长最后一个条目

func (r *Raffle) getEntry(index int64) (*rty.RangeEntry, error) {
	value, err := r.env.DB.Get(calcRangeKey(r.addr, index))
	if err != nil {
		return nil, errors.Wrapf(err, "getEntry %d", index)
	}
	var e rty.RangeEntry
	if err := types.Decode(value, &e); err != nil {
		return nil, errors.Wrapf(err, "getEntry.decode %d", index)
	}
	return &e, nil
}

func (r *Raffle) setEntry(receipt *types.Receipt, index int64, e *rty.RangeEntry) {
	r.setKV(receipt, calcRangeKey(r.addr, index), types.Encode(e))
}

// extendOrAppend 返回条目下标, 以及是否新开了条目
func (r *Raffle) extendOrAppend(receipt *types.Receipt, st *rty.RaffleState, buyer string, count int64) (int64, bool, error) {
	bound := st.Sold + count
	if bound > rty.MaxBound {
		return 0, false, rty.ErrBoundOverflow
	}
	if st.Entries > 0 && st.LastBuyer == buyer {
		last := st.Entries - 1
		e, err := r.getEntry(last)
		if err != nil {
			return 0, false, err
		}
		if int64(e.Bound) != st.Sold || e.Buyer != buyer {
			return 0, false, invariant("last entry %d bound %d sold %d", last, e.Bound, st.Sold)
		}
		e.Bound = uint32(bound)
		r.setEntry(receipt, last, e)
		st.Sold = bound
		return last, false, nil
	}
	if st.Entries >= rty.MaxEntries {
		return 0, false, rty.ErrEntryCap
	}
	index := st.Entries
	r.setEntry(receipt, index, &rty.RangeEntry{Buyer: buyer, Bound: uint32(bound)})
	st.Entries++
	st.Sold = bound
	st.LastBuyer = buyer
	return index, true, nil
}

// sold total tickets issued, read from the last entry
func (r *Raffle) sold(st *rty.RaffleState) (int64, error) {
	if st.Entries == 0 {
		return 0, nil
	}
	e, err := r.getEntry(st.Entries - 1)
	if err != nil {
		return 0, err
	}
	return int64(e.Bound), nil
}

// findBuyer leftmost entry whose bound exceeds index
func (r *Raffle) findBuyer(st *rty.RaffleState, index int64) (string, error) {
	if index < 0 || index >= st.Sold {
		return "", errors.Wrapf(rty.ErrTicketIndex, "index %d sold %d", index, st.Sold)
	}
	var ferr error
	i := sort.Search(int(st.Entries), func(i int) bool {
		if ferr != nil {
			return true
		}
		e, err := r.getEntry(int64(i))
		if err != nil {
			ferr = err
			return true
		}
		return int64(e.Bound) > index
	})
	if ferr != nil {
		return "", ferr
	}
	if i >= int(st.Entries) {
		return "", invariant("ticket %d not covered by %d entries", index, st.Entries)
	}
	e, err := r.getEntry(int64(i))
	if err != nil {
		return "", err
	}
	return e.Buyer, nil
}

// minimumForNewEntry throttle step, the configured minimum purchase wins when larger
func (r *Raffle) minimumForNewEntry(st *rty.RaffleState) int64 {
	n := r.throttle.MinForNewEntry(st.Entries)
	if r.cfg.MinPurchase > n {
		n = r.cfg.MinPurchase
	}
	if n < 1 {
		n = 1
	}
	return n
}

// minimumFor buyer at the current ledger state
func (r *Raffle) minimumFor(st *rty.RaffleState, buyer string) int64 {
	if st.Entries > 0 && st.LastBuyer == buyer {
		if r.cfg.MinPurchase > 1 {
			return r.cfg.MinPurchase
		}
		return 1
	}
	return r.minimumForNewEntry(st)
}
