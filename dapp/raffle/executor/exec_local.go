// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	dbm "github.com/33cn/raffle/common/db"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// Lister paginated local db reads
type Lister interface {
	List(prefix, key []byte, count, direction int32) ([][]byte, error)
}

// ExecLocal builds the local index for one executed transaction: every
// purchase under the instance and buyer prefixes, the resolved draw once.
func ExecLocal(receipt *types.ReceiptData, height, index int64, txHash string) (*types.LocalDBSet, error) {
	set := &types.LocalDBSet{}
	if receipt == nil || receipt.Ty != types.ExecOk {
		return set, nil
	}
	for _, item := range receipt.Logs {
		switch item.Ty {
		case rty.TyLogRaffleBuy:
			var l rty.ReceiptRaffleBuy
			if err := types.Decode(item.Log, &l); err != nil {
				return nil, errors.Wrap(err, "ExecLocal.buy")
			}
			rec := &rty.BuyRecord{
				Address: l.Address,
				Buyer:   l.Buyer,
				Count:   l.Count,
				Cost:    l.Cost,
				First:   l.FirstTicket,
				Height:  height,
				Index:   index,
				Time:    l.Time,
				TxHash:  txHash,
			}
			value := types.Encode(rec)
			set.KV = append(set.KV,
				&types.KeyValue{Key: calcBuyKey(l.Address, height, index), Value: value},
				&types.KeyValue{Key: calcBuyerKey(l.Address, l.Buyer, height, index), Value: value})
		case rty.TyLogRaffleResolve:
			var l rty.ReceiptRaffleResolve
			if err := types.Decode(item.Log, &l); err != nil {
				return nil, errors.Wrap(err, "ExecLocal.resolve")
			}
			rec := &rty.DrawRecord{
				Address:      l.Address,
				Winner:       l.Winner,
				WinningIndex: l.WinningIndex,
				RequestID:    l.RequestID,
				Height:       height,
				TxHash:       txHash,
			}
			set.KV = append(set.KV, &types.KeyValue{Key: calcDrawKey(l.Address), Value: types.Encode(rec)})
		}
	}
	return set, nil
}

// ListBuyRecords purchase history of an instance, or of one buyer in it.
// Next is set when the page is full and can be passed back as Cursor.
func ListBuyRecords(ldb Lister, req *rty.ReqBuyRecords) (*rty.ReplyBuyRecords, error) {
	if req == nil || req.Address == "" {
		return nil, types.ErrInvalidParam
	}
	prefix := calcBuyPrefix(req.Address)
	if req.Buyer != "" {
		prefix = calcBuyerPrefix(req.Address, req.Buyer)
	}
	var cursor []byte
	if req.Cursor != "" {
		cursor = []byte(req.Cursor)
	}
	values, err := ldb.List(prefix, cursor, req.Count, req.Direction)
	if err != nil {
		return nil, err
	}
	reply := &rty.ReplyBuyRecords{}
	for _, v := range values {
		var rec rty.BuyRecord
		if err := types.Decode(v, &rec); err != nil {
			return nil, errors.Wrap(err, "ListBuyRecords.decode")
		}
		reply.Records = append(reply.Records, &rec)
	}
	if int32(len(reply.Records)) == dbm.NormalizeCount(req.Count) {
		last := reply.Records[len(reply.Records)-1]
		if req.Buyer != "" {
			reply.Next = string(calcBuyerKey(req.Address, req.Buyer, last.Height, last.Index))
		} else {
			reply.Next = string(calcBuyKey(req.Address, last.Height, last.Index))
		}
	}
	return reply, nil
}

// GetDrawRecord resolved draw of an instance
func GetDrawRecord(ldb dbm.KVDB, addr string) (*rty.DrawRecord, error) {
	value, err := ldb.Get(calcDrawKey(addr))
	if err != nil {
		return nil, err
	}
	var rec rty.DrawRecord
	if err := types.Decode(value, &rec); err != nil {
		return nil, errors.Wrap(err, "GetDrawRecord.decode")
	}
	return &rec, nil
}
