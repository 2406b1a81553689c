// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"

	"github.com/33cn/raffle/common"
	dbm "github.com/33cn/raffle/common/db"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// TxResult 已执行交易的本地记录
type TxResult struct {
	Height     int64              `cbor:"1,keyasint" json:"height"`
	Index      int64              `cbor:"2,keyasint" json:"index"`
	BlockTime  int64              `cbor:"3,keyasint" json:"blockTime"`
	ActionName string             `cbor:"4,keyasint" json:"actionName"`
	Hash       string             `cbor:"5,keyasint" json:"hash"`
	Tx         *types.Transaction `cbor:"6,keyasint" json:"tx"`
	Receipt    *types.ReceiptData `cbor:"7,keyasint" json:"receipt"`
}

// ReplyTxList a page of transactions sent from one address
type ReplyTxList struct {
	Txs  []*TxResult `json:"txs"`
	Next string      `json:"next,omitempty"`
}

func hashString(tx *types.Transaction) string {
	return common.ToHex(tx.Hash())
}

func calcTxKey(hash string) []byte {
	return []byte(fmt.Sprintf("%stx:%s", types.CalcLocalPrefix(rty.RaffleX), hash))
}

func calcAddrTxPrefix(addr string) []byte {
	return []byte(fmt.Sprintf("%saddr:%s:", types.CalcLocalPrefix(rty.RaffleX), addr))
}

func calcAddrTxKey(addr string, height, index int64) []byte {
	return []byte(fmt.Sprintf("%s%012d%06d", calcAddrTxPrefix(addr), height, index))
}

//交易本身以及 from 地址的索引
type txindexPlugin struct{}

func (p *txindexPlugin) ExecLocal(e *Executor, tx *types.Transaction, receipt *types.ReceiptData, index int64) ([]*types.KeyValue, error) {
	hash := hashString(tx)
	result := &TxResult{
		Height:     e.block.Height,
		Index:      index,
		BlockTime:  e.block.BlockTime,
		ActionName: rty.ActionName(tx),
		Hash:       hash,
		Tx:         tx,
		Receipt:    receipt,
	}
	return []*types.KeyValue{
		{Key: calcTxKey(hash), Value: types.Encode(result)},
		{Key: calcAddrTxKey(tx.From, e.block.Height, index), Value: []byte(hash)},
	}, nil
}

func (e *Executor) getTx(hash string) (*TxResult, error) {
	value, err := e.local.Get(calcTxKey(hash))
	if err != nil {
		return nil, err
	}
	var result TxResult
	if err := types.Decode(value, &result); err != nil {
		return nil, errors.Wrap(err, "getTx")
	}
	return &result, nil
}

func (e *Executor) listTxs(req *rty.ReqRaffleQuery) (*ReplyTxList, error) {
	if req.Caller == "" {
		return nil, types.ErrInvalidParam
	}
	var cursor []byte
	if req.Cursor != "" {
		cursor = []byte(req.Cursor)
	}
	hashes, err := e.local.List(calcAddrTxPrefix(req.Caller), cursor, req.Count, req.Direction)
	if err != nil {
		return nil, err
	}
	reply := &ReplyTxList{}
	for _, h := range hashes {
		result, err := e.getTx(string(h))
		if err != nil {
			return nil, err
		}
		reply.Txs = append(reply.Txs, result)
	}
	if len(reply.Txs) > 0 && int32(len(reply.Txs)) == dbm.NormalizeCount(req.Count) {
		last := reply.Txs[len(reply.Txs)-1]
		reply.Next = string(calcAddrTxKey(req.Caller, last.Height, last.Index))
	}
	return reply, nil
}
