// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// Transaction 交易，From 由宿主在签名校验后填写
type Transaction struct {
	Execer  string `cbor:"1,keyasint" json:"execer"`
	From    string `cbor:"2,keyasint" json:"from"`
	To      string `cbor:"3,keyasint" json:"to,omitempty"`
	Value   int64  `cbor:"4,keyasint" json:"value,omitempty"`
	Payload []byte `cbor:"5,keyasint" json:"payload"`
	Nonce   int64  `cbor:"6,keyasint" json:"nonce"`
}

// Hash sha256 of the encoded transaction
func (tx *Transaction) Hash() []byte {
	return sha256(Encode(tx))
}

// KeyValue kv
type KeyValue struct {
	Key   []byte `cbor:"1,keyasint" json:"key"`
	Value []byte `cbor:"2,keyasint" json:"value"`
}

// ReceiptLog typed event emitted by an execution
type ReceiptLog struct {
	Ty  int32  `cbor:"1,keyasint" json:"ty"`
	Log []byte `cbor:"2,keyasint" json:"log"`
}

// Receipt execution result: state writes plus logs
type Receipt struct {
	Ty   int32         `cbor:"1,keyasint" json:"ty"`
	KV   []*KeyValue   `cbor:"2,keyasint" json:"kv"`
	Logs []*ReceiptLog `cbor:"3,keyasint" json:"logs"`
}

// NewReceipt ok receipt
func NewReceipt() *Receipt {
	return &Receipt{Ty: ExecOk}
}

// Merge appends kv and logs of other into r
func (r *Receipt) Merge(other *Receipt) *Receipt {
	if other == nil {
		return r
	}
	r.KV = append(r.KV, other.KV...)
	r.Logs = append(r.Logs, other.Logs...)
	return r
}

// AddLog encodes payload as a log of type ty
func (r *Receipt) AddLog(ty int32, payload interface{}) {
	r.Logs = append(r.Logs, &ReceiptLog{Ty: ty, Log: Encode(payload)})
}

// ReceiptData receipt as stored in a block
type ReceiptData struct {
	Ty   int32         `cbor:"1,keyasint" json:"ty"`
	Logs []*ReceiptLog `cbor:"2,keyasint" json:"logs"`
}

// LocalDBSet local index writes
type LocalDBSet struct {
	KV []*KeyValue `cbor:"1,keyasint" json:"kv"`
}

// Account token balance of one address
type Account struct {
	Balance int64  `cbor:"1,keyasint" json:"balance"`
	Frozen  int64  `cbor:"2,keyasint" json:"frozen"`
	Addr    string `cbor:"3,keyasint" json:"addr"`
}

// ReceiptAccountTransfer balance before and after
type ReceiptAccountTransfer struct {
	Prev    *Account `cbor:"1,keyasint" json:"prev"`
	Current *Account `cbor:"2,keyasint" json:"current"`
}

// ReceiptAccountApprove allowance change
type ReceiptAccountApprove struct {
	Owner   string `cbor:"1,keyasint" json:"owner"`
	Spender string `cbor:"2,keyasint" json:"spender"`
	Prev    int64  `cbor:"3,keyasint" json:"prev"`
	Current int64  `cbor:"4,keyasint" json:"current"`
}

// BlockContext block level environment visible to executors
type BlockContext struct {
	Height    int64  `cbor:"1,keyasint" json:"height"`
	BlockTime int64  `cbor:"2,keyasint" json:"blockTime"`
	Entropy   []byte `cbor:"3,keyasint" json:"entropy"`
	// TxCount transactions executed in this block, the index of the next one
	TxCount int64 `cbor:"4,keyasint" json:"txCount"`
}
