// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/33cn/raffle/common/address"
	dbm "github.com/33cn/raffle/common/db"
	rexec "github.com/33cn/raffle/dapp/raffle/executor"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/dapp/vrforacle"
	"github.com/33cn/raffle/metrics"
	"github.com/33cn/raffle/types"
	pkgerr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creator = address.ExecAddress("exec-test-creator")
	buyerA  = address.ExecAddress("exec-test-buyer-a")
	buyerB  = address.ExecAddress("exec-test-buyer-b")
	buyerC  = address.ExecAddress("exec-test-buyer-c")
)

type testHost struct {
	t       *testing.T
	e       *Executor
	cfg     *types.Config
	backend dbm.DB
	nonce   int64
}

func newTestHost(t *testing.T) *testHost {
	cfg, err := types.InitCfgString(`
title="exec-test"
[store]
driver="memdb"
`)
	require.NoError(t, err)
	backend, err := dbm.NewGoMemDB("exec-test", "", 0)
	require.NoError(t, err)
	e, err := NewWithDB(cfg, backend)
	require.NoError(t, err)
	h := &testHost{t: t, e: e, cfg: cfg, backend: backend}
	for _, addr := range []string{creator, buyerA, buyerB, buyerC} {
		h.mustSend(cfg.Token.Genesis, &rty.RaffleAction{Ty: rty.RaffleActionMint, Mint: &rty.TokenMint{To: addr, Amount: 1000 * 1e6}}, 0)
		h.mustSend(cfg.Token.Genesis, &rty.RaffleAction{Ty: rty.RaffleActionMint, Mint: &rty.TokenMint{To: addr, Amount: 1e8, Native: true}}, 0)
	}
	return h
}

func (h *testHost) send(from string, action *rty.RaffleAction, value int64) (*types.Receipt, error) {
	h.nonce++
	return h.e.Exec(rty.CreateTx(from, action, value, h.nonce))
}

func (h *testHost) mustSend(from string, action *rty.RaffleAction, value int64) *types.Receipt {
	receipt, err := h.send(from, action, value)
	require.NoError(h.t, err)
	return receipt
}

func (h *testHost) query(name string, req *rty.ReqRaffleQuery) interface{} {
	var params []byte
	if req != nil {
		params = types.Encode(req)
	}
	reply, err := h.e.Query(name, params)
	require.NoError(h.t, err)
	return reply
}

func (h *testHost) info(addr string) *rty.Raffle {
	return h.query("GetRaffle", &rty.ReqRaffleQuery{Address: addr}).(*rty.Raffle)
}

func (h *testHost) balance(addr string) *rty.ReplyBalance {
	return h.query("GetBalance", &rty.ReqRaffleQuery{Caller: addr}).(*rty.ReplyBalance)
}

func (h *testHost) create(salt string, minTickets, maxTickets int64) string {
	h.mustSend(creator, &rty.RaffleAction{Ty: rty.RaffleActionApprove, Approve: &rty.TokenApprove{
		Spender: h.e.Factory().Address(),
		Amount:  100 * 1e6,
	}}, 0)
	h.mustSend(creator, &rty.RaffleAction{Ty: rty.RaffleActionCreate, Create: &rty.RaffleCreate{
		Config: &rty.Config{
			Name:        "weekly",
			TicketPrice: 1e6,
			PotSize:     100 * 1e6,
			MinTickets:  minTickets,
			MaxTickets:  maxTickets,
			Duration:    3600,
			MinPurchase: 1,
		},
		Salt: salt,
	}}, 0)
	return h.e.Factory().InstanceAddress(creator, salt)
}

func (h *testHost) buy(addr, buyer string, count int64) {
	h.mustSend(buyer, &rty.RaffleAction{Ty: rty.RaffleActionApprove, Approve: &rty.TokenApprove{Spender: addr, Amount: count * 1e6}}, 0)
	h.mustSend(buyer, &rty.RaffleAction{Ty: rty.RaffleActionBuy, Buy: &rty.RaffleBuy{Address: addr, Count: count}}, 0)
}

func TestExecutorInit(t *testing.T) {
	h := newTestHost(t)
	reg := h.query("GetRegistry", nil).(*ReplyRegistry)
	assert.Equal(t, h.e.Factory().Address(), reg.Registrar)
	assert.Equal(t, "locked", reg.Policy)
	assert.Equal(t, int64(0), reg.Total)
	assert.Equal(t, []string{"local"}, h.e.Oracle().Providers())
	oracle := h.query("GetOracle", nil).(*ReplyOracle)
	assert.Equal(t, h.cfg.Oracle.Operator, oracle.Operator)
	assert.Equal(t, int64(1000+250000), oracle.BaseQuote)

	b := h.balance(buyerA)
	assert.Equal(t, int64(1000*1e6), b.Token)
	assert.Equal(t, int64(1e8), b.Native)

	_, err := h.send(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionMint, Mint: &rty.TokenMint{To: buyerA, Amount: 1}}, 0)
	assert.Equal(t, types.ErrNoPrivilege, err)

	snap := h.query("GetMetrics", nil).(map[string]int64)
	assert.True(t, snap["execs.tx.executed"] >= 8)
	assert.True(t, snap["execs.tx.failed"] >= 1)

	_, err = h.e.Query("NoSuchQuery", nil)
	assert.Equal(t, types.ErrActionNotSupport, pkgerr.Cause(err))
	assert.Contains(t, QueryNames(), "GetRaffle")
}

func TestCheckTx(t *testing.T) {
	h := newTestHost(t)
	_, err := h.e.Exec(nil)
	assert.Equal(t, types.ErrEmptyTx, err)

	tx := rty.CreateTx(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: buyerB}}, 0, 1)
	tx.Execer = "coins"
	_, err = h.e.Exec(tx)
	assert.Equal(t, types.ErrExecNameNotAllow, err)

	_, err = h.send("not-an-address", &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: buyerB}}, 0)
	assert.Equal(t, types.ErrInvalidParam, pkgerr.Cause(err))

	_, err = h.send(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionBuy}, 0)
	assert.Equal(t, rty.ErrRaffleActionInvalid, err)

	_, err = h.send(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: buyerB}}, 5)
	assert.Equal(t, types.ErrAmount, pkgerr.Cause(err))

	_, err = h.send(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: buyerB}}, 0)
	assert.Equal(t, rty.ErrRaffleNotFound, err)
}

func TestExecRollback(t *testing.T) {
	h := newTestHost(t)
	addr := h.create("rollback", 2, 10)
	assert.Equal(t, rty.StatusOpen, h.info(addr).State.Status)

	// 没有授权, 账本和头部的写入都要回滚
	_, err := h.send(buyerC, &rty.RaffleAction{Ty: rty.RaffleActionBuy, Buy: &rty.RaffleBuy{Address: addr, Count: 3}}, 0)
	assert.Equal(t, types.ErrNoAllowance, pkgerr.Cause(err))
	r := h.info(addr)
	assert.Equal(t, int64(0), r.State.Sold)
	assert.Equal(t, int64(0), r.State.Entries)
	assert.Equal(t, int64(100*1e6), r.State.Reserved)
	buyer := h.query("GetBuyer", &rty.ReqRaffleQuery{Address: addr, Caller: buyerC}).(*rty.ReplyBuyer)
	assert.Equal(t, int64(0), buyer.Tickets)
	assert.Equal(t, int64(1000*1e6), h.balance(buyerC).Token)

	// 同一个 salt 不能重复部署, 失败的部署不留下登记
	_, err = h.send(creator, &rty.RaffleAction{Ty: rty.RaffleActionCreate, Create: &rty.RaffleCreate{
		Config: h.info(addr).Config,
		Salt:   "rollback",
	}}, 0)
	assert.Error(t, err)
	reg := h.query("GetRegistry", nil).(*ReplyRegistry)
	assert.Equal(t, int64(1), reg.Total)
}

func TestFullRound(t *testing.T) {
	h := newTestHost(t)
	addr := h.create("round", 2, 3)
	h.buy(addr, buyerA, 2)
	h.buy(addr, buyerB, 1)

	elig := h.query("GetEligibility", &rty.ReqRaffleQuery{Address: addr, Caller: buyerA}).(*rty.ReplyEligibility)
	assert.True(t, elig.IsSoldOut)
	assert.True(t, elig.CanFinalize)

	quote := h.e.Oracle().QuoteFee(h.cfg.Raffle.CallbackGas)
	_, err := h.send(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionDraw, Draw: &rty.RaffleDraw{Address: addr}}, quote-1)
	assert.Equal(t, rty.ErrInsufficientFee, pkgerr.Cause(err))
	assert.Equal(t, int64(1e8), h.balance(buyerA).Native)

	h.mustSend(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionDraw, Draw: &rty.RaffleDraw{Address: addr}}, quote+100)
	assert.Equal(t, int64(1e8)-quote, h.balance(buyerA).Native)
	r := h.info(addr)
	require.Equal(t, rty.StatusDrawing, r.State.Status)
	require.NotNil(t, r.State.Draw)
	id := r.State.Draw.RequestID

	req := h.query("GetOracleRequest", &rty.ReqRaffleQuery{RequestID: id}).(*vrforacle.Request)
	assert.Equal(t, addr, req.Consumer)
	assert.Equal(t, "local", req.Provider)

	_, err = h.send(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionDeliver, Deliver: &rty.OracleDeliver{RequestID: id}}, 0)
	assert.Equal(t, types.ErrNoPrivilege, err)
	h.mustSend(h.cfg.Oracle.Operator, &rty.RaffleAction{Ty: rty.RaffleActionDeliver, Deliver: &rty.OracleDeliver{RequestID: id}}, 0)

	r = h.info(addr)
	require.Equal(t, rty.StatusCompleted, r.State.Status)
	assert.Contains(t, []string{buyerA, buyerB}, r.State.Winner)
	winner := h.query("GetWinnerOf", &rty.ReqRaffleQuery{Address: addr, Index: r.State.WinningIndex}).(*rty.ReplyWinner)
	assert.Equal(t, r.State.Winner, winner.Buyer)

	verify := h.query("VerifyRandomness", &rty.ReqRaffleQuery{RequestID: id}).(*ReplyVerify)
	assert.NotEmpty(t, verify.Value)

	before := h.balance(r.State.Winner).Token
	h.mustSend(r.State.Winner, &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: addr}}, 0)
	assert.Equal(t, before+100*1e6, h.balance(r.State.Winner).Token)
	h.mustSend(creator, &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: addr}}, 0)
	assert.Equal(t, int64(900*1e6+3*1e6), h.balance(creator).Token)

	solvency := h.query("GetSolvency", &rty.ReqRaffleQuery{Address: addr}).(*rty.ReplySolvency)
	assert.True(t, solvency.Solvent)
	assert.Equal(t, int64(0), solvency.Reserved)

	// 本地索引
	records := h.query("GetBuyRecords", &rty.ReqRaffleQuery{Address: addr, Direction: dbm.ListASC}).(*rty.ReplyBuyRecords)
	require.Len(t, records.Records, 2)
	assert.Equal(t, buyerA, records.Records[0].Buyer)
	assert.Equal(t, int64(2), records.Records[0].Count)
	assert.Equal(t, int64(2), records.Records[1].First)
	draw := h.query("GetDrawRecord", &rty.ReqRaffleQuery{Address: addr}).(*rty.DrawRecord)
	assert.Equal(t, r.State.Winner, draw.Winner)
	assert.Equal(t, id, draw.RequestID)

	txs := h.query("GetTxsByAddr", &rty.ReqRaffleQuery{Caller: buyerA, Direction: dbm.ListASC}).(*ReplyTxList)
	require.True(t, len(txs.Txs) >= 3)
	assert.Equal(t, "approve", txs.Txs[0].ActionName)
	assert.Equal(t, "buy", txs.Txs[1].ActionName)
	assert.Equal(t, "draw", txs.Txs[2].ActionName)
	tx := h.query("GetTxByHash", &rty.ReqRaffleQuery{Hash: txs.Txs[2].Hash}).(*TxResult)
	assert.Equal(t, quote+100, tx.Tx.Value)
}

func TestCancelRound(t *testing.T) {
	h := newTestHost(t)
	addr := h.create("cancel", 5, 0)
	h.buy(addr, buyerA, 2)

	_, err := h.send(buyerB, &rty.RaffleAction{Ty: rty.RaffleActionCancel, Cancel: &rty.RaffleCancel{Address: addr}}, 0)
	assert.Equal(t, rty.ErrCancelNotAllowed, pkgerr.Cause(err))

	_, err = h.e.NextBlock(-1)
	assert.Equal(t, types.ErrInvalidParam, err)
	prev := h.e.Block()
	block, err := h.e.NextBlock(3600)
	require.NoError(t, err)
	assert.Equal(t, prev.Height+1, block.Height)
	assert.Equal(t, prev.BlockTime+3600, block.BlockTime)
	assert.NotEqual(t, prev.Entropy, block.Entropy)

	h.mustSend(buyerB, &rty.RaffleAction{Ty: rty.RaffleActionCancel, Cancel: &rty.RaffleCancel{Address: addr}}, 0)
	assert.Equal(t, rty.StatusCanceled, h.info(addr).State.Status)

	h.mustSend(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: addr}}, 0)
	assert.Equal(t, int64(1000*1e6), h.balance(buyerA).Token)
	h.mustSend(creator, &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: addr}}, 0)
	assert.Equal(t, int64(1000*1e6), h.balance(creator).Token)
	_, err = h.send(creator, &rty.RaffleAction{Ty: rty.RaffleActionClaim, Claim: &rty.RaffleClaim{Address: addr}}, 0)
	assert.Equal(t, rty.ErrNothingToClaim, err)
}

func TestCreateUnknownProvider(t *testing.T) {
	h := newTestHost(t)
	h.mustSend(creator, &rty.RaffleAction{Ty: rty.RaffleActionApprove, Approve: &rty.TokenApprove{
		Spender: h.e.Factory().Address(),
		Amount:  100 * 1e6,
	}}, 0)
	before := h.balance(creator).Token
	_, err := h.send(creator, &rty.RaffleAction{Ty: rty.RaffleActionCreate, Create: &rty.RaffleCreate{
		Config: &rty.Config{
			Name:        "weekly",
			Provider:    "no-such-provider",
			TicketPrice: 1e6,
			PotSize:     100 * 1e6,
			MinTickets:  2,
			Duration:    3600,
			MinPurchase: 1,
		},
		Salt: "unknown",
	}}, 0)
	assert.Equal(t, rty.ErrConfigProvider, pkgerr.Cause(err))
	assert.Equal(t, before, h.balance(creator).Token)
	assert.Equal(t, int64(0), h.query("GetRegistry", nil).(*ReplyRegistry).Total)
	_, err = h.e.Query("GetRaffle", types.Encode(&rty.ReqRaffleQuery{Address: h.e.Factory().InstanceAddress(creator, "unknown")}))
	assert.Equal(t, rty.ErrRaffleNotFound, pkgerr.Cause(err))
}

type failingPlugin struct{}

func (failingPlugin) ExecLocal(e *Executor, tx *types.Transaction, receipt *types.ReceiptData, index int64) ([]*types.KeyValue, error) {
	return nil, pkgerr.New("local index down")
}

func TestExecLocalFailure(t *testing.T) {
	h := newTestHost(t)
	addr := h.create("local", 2, 0)
	h.mustSend(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionApprove, Approve: &rty.TokenApprove{Spender: addr, Amount: 3 * 1e6}}, 0)

	old := globalPlugins
	defer func() { globalPlugins = old }()
	globalPlugins = append(append([]namedPlugin{}, old...), namedPlugin{name: "failing", plugin: failingPlugin{}})
	before := metrics.Snapshot()["execs.local.failed"]

	// 状态已经提交, 本地索引失败不影响交易结果
	receipt, err := h.send(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionBuy, Buy: &rty.RaffleBuy{Address: addr, Count: 2}}, 0)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, int64(2), h.info(addr).State.Sold)
	assert.Equal(t, int64(998*1e6), h.balance(buyerA).Token)
	assert.Equal(t, before+1, metrics.Snapshot()["execs.local.failed"])

	globalPlugins = old
	h.mustSend(buyerA, &rty.RaffleAction{Ty: rty.RaffleActionBuy, Buy: &rty.RaffleBuy{Address: addr, Count: 1}}, 0)
	assert.Equal(t, int64(3), h.info(addr).State.Sold)
	assert.Equal(t, before+1, metrics.Snapshot()["execs.local.failed"])
}

func TestReopen(t *testing.T) {
	h := newTestHost(t)
	addr := h.create("reopen", 2, 0)
	h.buy(addr, buyerA, 1)
	block, err := h.e.NextBlock(10)
	require.NoError(t, err)

	e2, err := NewWithDB(h.cfg, h.backend)
	require.NoError(t, err)
	assert.Equal(t, block.Height, e2.Block().Height)
	assert.Equal(t, block.BlockTime, e2.Block().BlockTime)
	assert.Equal(t, int64(0), e2.Block().TxCount)
	reply, err := e2.Query("GetRaffle", types.Encode(&rty.ReqRaffleQuery{Address: addr}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), reply.(*rty.Raffle).State.Sold)
	reg, err := e2.Query("GetRegistry", nil)
	require.NoError(t, err)
	assert.Equal(t, h.e.Factory().Address(), reg.(*ReplyRegistry).Registrar)
	assert.Equal(t, int64(1), reg.(*ReplyRegistry).Total)
}

func TestAllowKeys(t *testing.T) {
	h := newTestHost(t)
	assert.True(t, isAllowKeyWrite(h.e, []byte("mavl-raffle-x-state")))
	assert.True(t, isAllowKeyWrite(h.e, []byte("mavl-token-usdx-"+buyerA)))
	assert.False(t, isAllowKeyWrite(h.e, []byte("mavl-token-other-"+buyerA)))
	assert.False(t, isAllowKeyWrite(h.e, []byte("host-block")))
	err := checkWrites(h.e, &types.Receipt{KV: []*types.KeyValue{{Key: []byte("mavl-evil-key")}}})
	assert.Equal(t, ErrKeyNotAllowed, pkgerr.Cause(err))

	assert.NoError(t, isAllowLocalKey([]byte("LODB-raffle-tx:00")))
	assert.Error(t, isAllowLocalKey([]byte("LODB-raffle-")))
	assert.Error(t, isAllowLocalKey([]byte("LODB-coins-x")))
}

func TestInstanceIdentity(t *testing.T) {
	h := newTestHost(t)
	addr := h.create("identity", 2, 0)
	r1, err := h.e.load(addr)
	require.NoError(t, err)
	h.e.resetActive()
	r2, err := h.e.load(addr)
	require.NoError(t, err)
	assert.True(t, r1 == r2)
	var _ vrforacle.Consumer = (*rexec.Raffle)(nil)
}
