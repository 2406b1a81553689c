// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrforacle

import (
	"errors"
	"fmt"

	"github.com/33cn/raffle/common"
	"github.com/33cn/raffle/types"
)

// OracleX 执行器名字
const OracleX = "vrforacle"

// log type
const (
	TyLogOracleRequest = 1901 + iota
	TyLogOracleFulfill
)

var (
	ErrUnknownProvider     = errors.New("ErrUnknownProvider")
	ErrInsufficientPayment = errors.New("ErrInsufficientPayment")
	ErrRequestNotFound     = errors.New("ErrRequestNotFound")
	ErrAlreadyFulfilled    = errors.New("ErrAlreadyFulfilled")
	ErrNotFulfilled        = errors.New("ErrNotFulfilled")
	ErrNoResolver          = errors.New("ErrNoResolver")
)

// Request one randomness request
type Request struct {
	ID        uint64 `cbor:"1,keyasint" json:"id"`
	Consumer  string `cbor:"2,keyasint" json:"consumer"`
	Provider  string `cbor:"3,keyasint" json:"provider"`
	Seed      []byte `cbor:"4,keyasint" json:"seed"`
	GasBudget uint32 `cbor:"5,keyasint" json:"gasBudget"`
	Payment   int64  `cbor:"6,keyasint" json:"payment"`
	Fulfilled bool   `cbor:"7,keyasint" json:"fulfilled"`
	Value     []byte `cbor:"8,keyasint" json:"value,omitempty"`
	Proof     []byte `cbor:"9,keyasint" json:"proof,omitempty"`
}

// ReceiptOracleRequest request accepted
type ReceiptOracleRequest struct {
	ID       uint64 `cbor:"1,keyasint" json:"id"`
	Consumer string `cbor:"2,keyasint" json:"consumer"`
	Provider string `cbor:"3,keyasint" json:"provider"`
	Payment  int64  `cbor:"4,keyasint" json:"payment"`
}

// ReceiptOracleFulfill randomness delivered
type ReceiptOracleFulfill struct {
	ID    uint64 `cbor:"1,keyasint" json:"id"`
	Value []byte `cbor:"2,keyasint" json:"value"`
	Proof []byte `cbor:"3,keyasint" json:"proof"`
}

func calcSeqKey() []byte {
	return []byte(string(types.CalcStatePrefix(OracleX)) + "seq")
}

func calcRequestKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%sreq-%020d", types.CalcStatePrefix(OracleX), id))
}

// message the provider evaluates for a request
func message(seed []byte, id uint64) []byte {
	m := make([]byte, 0, len(seed)+8)
	m = append(m, seed...)
	return append(m, common.Uint64Bytes(id)...)
}
