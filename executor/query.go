// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"sort"

	"github.com/33cn/raffle/common"
	"github.com/33cn/raffle/dapp/raffle/factory"
	rexec "github.com/33cn/raffle/dapp/raffle/executor"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/metrics"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// ReplyRegistry a page of registry records
type ReplyRegistry struct {
	Registrar string            `json:"registrar"`
	Policy    string            `json:"policy"`
	Total     int64             `json:"total"`
	Records   []*factory.Record `json:"records"`
}

// ReplyVerify recomputed randomness of a fulfilled request
type ReplyVerify struct {
	RequestID uint64 `json:"requestId"`
	Value     string `json:"value"`
}

// ReplyOracle randomness service identity
type ReplyOracle struct {
	Address   string   `json:"address"`
	Operator  string   `json:"operator"`
	Providers []string `json:"providers"`
	BaseQuote int64    `json:"baseQuote"`
}

type queryFunc func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error)

var queries = map[string]queryFunc{
	"GetRaffle": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return withRaffle(e, req, func(r *rexec.Raffle) (interface{}, error) { return r.Info() })
	},
	"GetRanges": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return withRaffle(e, req, func(r *rexec.Raffle) (interface{}, error) { return r.GetRanges(req.Offset, req.Count) })
	},
	"GetBuyer": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return withRaffle(e, req, func(r *rexec.Raffle) (interface{}, error) { return r.BuyerInfo(req.Caller) })
	},
	"GetSolvency": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return withRaffle(e, req, func(r *rexec.Raffle) (interface{}, error) { return r.Solvency() })
	},
	"GetEligibility": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return withRaffle(e, req, func(r *rexec.Raffle) (interface{}, error) { return r.Eligibility(req.Caller) })
	},
	"GetMinPurchase": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return withRaffle(e, req, func(r *rexec.Raffle) (interface{}, error) {
			n, err := r.MinPurchaseNow(req.Caller)
			if err != nil {
				return nil, err
			}
			return &rty.ReplyMinPurchase{Buyer: req.Caller, Count: n}, nil
		})
	},
	"GetWinnerOf": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return withRaffle(e, req, func(r *rexec.Raffle) (interface{}, error) { return r.WinnerOf(req.Index) })
	},
	"GetBuyRecords": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return rexec.ListBuyRecords(e.local, &rty.ReqBuyRecords{
			Address:   req.Address,
			Buyer:     req.Caller,
			Cursor:    req.Cursor,
			Count:     req.Count,
			Direction: req.Direction,
		})
	},
	"GetDrawRecord": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return rexec.GetDrawRecord(e.local, req.Address)
	},
	"GetRegistry": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		recs, err := e.registry.List(req.Offset, req.Count)
		if err != nil {
			return nil, err
		}
		return &ReplyRegistry{
			Registrar: e.registry.Registrar(),
			Policy:    e.registry.Policy().Name(),
			Total:     e.registry.Count(),
			Records:   recs,
		}, nil
	},
	"GetOracle": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return &ReplyOracle{
			Address:   e.oracle.Address(),
			Operator:  e.oracle.Operator(),
			Providers: e.oracle.Providers(),
			BaseQuote: e.oracle.QuoteFee(e.cfg.Raffle.CallbackGas),
		}, nil
	},
	"GetOracleRequest": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return e.oracle.GetRequest(req.RequestID)
	},
	"VerifyRandomness": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		value, err := e.oracle.Verify(req.RequestID)
		if err != nil {
			return nil, err
		}
		return &ReplyVerify{RequestID: req.RequestID, Value: common.ToHex(value[:])}, nil
	},
	"GetBalance": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		if req.Caller == "" {
			return nil, types.ErrInvalidParam
		}
		return &rty.ReplyBalance{
			Addr:   req.Caller,
			Token:  e.token.BalanceOf(req.Caller),
			Native: e.native.BalanceOf(req.Caller),
		}, nil
	},
	"GetTxByHash": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return e.getTx(req.Hash)
	},
	"GetTxsByAddr": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return e.listTxs(req)
	},
	"GetMetrics": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		return metrics.Snapshot(), nil
	},
	"GetBlock": func(e *Executor, req *rty.ReqRaffleQuery) (interface{}, error) {
		block := *e.block
		return &block, nil
	},
}

func withRaffle(e *Executor, req *rty.ReqRaffleQuery, fn func(r *rexec.Raffle) (interface{}, error)) (interface{}, error) {
	if req.Address == "" {
		return nil, types.ErrInvalidParam
	}
	r, err := e.load(req.Address)
	if err != nil {
		return nil, err
	}
	return fn(r)
}

// Query 只读查询, params 为 ReqRaffleQuery 的编码, 可以为空
func (e *Executor) Query(funcName string, params []byte) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.resetActive()
	fn, ok := queries[funcName]
	if !ok {
		return nil, errors.Wrap(types.ErrActionNotSupport, funcName)
	}
	req := &rty.ReqRaffleQuery{}
	if len(params) > 0 {
		if err := types.Decode(params, req); err != nil {
			return nil, errors.Wrap(err, "Query.params")
		}
	}
	return fn(e, req)
}

// QueryNames registered query functions
func QueryNames() []string {
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
