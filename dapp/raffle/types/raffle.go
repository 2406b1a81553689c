// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// RaffleState 实例头部, 每个交易读写一次
type RaffleState struct {
	Address string `cbor:"1,keyasint" json:"address"`
	Status  int32  `cbor:"2,keyasint" json:"status"`
	// Entries number of range entries, Sold equals the last entry bound
	Entries   int64  `cbor:"3,keyasint" json:"entries"`
	Sold      int64  `cbor:"4,keyasint" json:"sold"`
	LastBuyer string `cbor:"5,keyasint" json:"lastBuyer,omitempty"`
	Revenue   int64  `cbor:"6,keyasint" json:"revenue"`
	// Reserved deposit token liabilities not yet paid out
	Reserved    int64 `cbor:"7,keyasint" json:"reserved"`
	PotReserved bool  `cbor:"8,keyasint" json:"potReserved"`
	PotRefunded bool  `cbor:"9,keyasint" json:"potRefunded"`
	// NativeOwed outstanding native claimable total
	NativeOwed   int64        `cbor:"10,keyasint" json:"nativeOwed"`
	CreateTime   int64        `cbor:"11,keyasint" json:"createTime"`
	OpenTime     int64        `cbor:"12,keyasint" json:"openTime,omitempty"`
	Deadline     int64        `cbor:"13,keyasint" json:"deadline,omitempty"`
	Draw         *DrawSession `cbor:"14,keyasint" json:"draw,omitempty"`
	Winner       string       `cbor:"15,keyasint" json:"winner,omitempty"`
	WinningIndex int64        `cbor:"16,keyasint" json:"winningIndex,omitempty"`
	CancelSold   int64        `cbor:"17,keyasint" json:"cancelSold,omitempty"`
	CancelTime   int64        `cbor:"18,keyasint" json:"cancelTime,omitempty"`
	CancelReason string       `cbor:"19,keyasint" json:"cancelReason,omitempty"`
	// RequestCount draws requested so far, part of the seed
	RequestCount int64 `cbor:"20,keyasint" json:"requestCount"`
}

// DrawSession 只在 Drawing 状态存在
type DrawSession struct {
	SoldAtDraw  int64  `cbor:"1,keyasint" json:"soldAtDraw"`
	RequestTime int64  `cbor:"2,keyasint" json:"requestTime"`
	RequestID   uint64 `cbor:"3,keyasint" json:"requestId"`
	Provider    string `cbor:"4,keyasint" json:"provider"`
}

// RangeEntry tickets [previous bound, Bound) belong to Buyer
type RangeEntry struct {
	Buyer string `cbor:"1,keyasint" json:"buyer"`
	Bound uint32 `cbor:"2,keyasint" json:"bound"`
}

// Raffle config and state together
type Raffle struct {
	Config *Config      `cbor:"1,keyasint" json:"config"`
	State  *RaffleState `cbor:"2,keyasint" json:"state"`
}

// receipt logs

// ReceiptRaffleCreate instance persisted
type ReceiptRaffleCreate struct {
	Address string  `cbor:"1,keyasint" json:"address"`
	Config  *Config `cbor:"2,keyasint" json:"config"`
}

// ReceiptRaffleFund funding confirmed
type ReceiptRaffleFund struct {
	Address  string `cbor:"1,keyasint" json:"address"`
	Pot      int64  `cbor:"2,keyasint" json:"pot"`
	Deadline int64  `cbor:"3,keyasint" json:"deadline"`
}

// ReceiptRaffleBuy purchase record
type ReceiptRaffleBuy struct {
	Address     string `cbor:"1,keyasint" json:"address"`
	Buyer       string `cbor:"2,keyasint" json:"buyer"`
	Count       int64  `cbor:"3,keyasint" json:"count"`
	Cost        int64  `cbor:"4,keyasint" json:"cost"`
	EntryIndex  int64  `cbor:"5,keyasint" json:"entryIndex"`
	NewEntry    bool   `cbor:"6,keyasint" json:"newEntry"`
	FirstTicket int64  `cbor:"7,keyasint" json:"firstTicket"`
	Sold        int64  `cbor:"8,keyasint" json:"sold"`
	Time        int64  `cbor:"9,keyasint" json:"time"`
}

// ReceiptRaffleDraw randomness requested
type ReceiptRaffleDraw struct {
	Address    string `cbor:"1,keyasint" json:"address"`
	Caller     string `cbor:"2,keyasint" json:"caller"`
	RequestID  uint64 `cbor:"3,keyasint" json:"requestId"`
	Provider   string `cbor:"4,keyasint" json:"provider"`
	Seed       []byte `cbor:"5,keyasint" json:"seed"`
	SoldAtDraw int64  `cbor:"6,keyasint" json:"soldAtDraw"`
	Fee        int64  `cbor:"7,keyasint" json:"fee"`
	Refund     int64  `cbor:"8,keyasint" json:"refund"`
	Time       int64  `cbor:"9,keyasint" json:"time"`
}

// ReceiptRaffleResolve winner selected
type ReceiptRaffleResolve struct {
	Address       string `cbor:"1,keyasint" json:"address"`
	RequestID     uint64 `cbor:"2,keyasint" json:"requestId"`
	Random        []byte `cbor:"3,keyasint" json:"random"`
	WinningIndex  int64  `cbor:"4,keyasint" json:"winningIndex"`
	Winner        string `cbor:"5,keyasint" json:"winner"`
	WinnerAmount  int64  `cbor:"6,keyasint" json:"winnerAmount"`
	CreatorAmount int64  `cbor:"7,keyasint" json:"creatorAmount"`
	FeeAmount     int64  `cbor:"8,keyasint" json:"feeAmount"`
}

// ReceiptRaffleCallbackRejected soft rejected callback
type ReceiptRaffleCallbackRejected struct {
	Address   string `cbor:"1,keyasint" json:"address"`
	RequestID uint64 `cbor:"2,keyasint" json:"requestId"`
	Provider  string `cbor:"3,keyasint" json:"provider"`
	Reason    string `cbor:"4,keyasint" json:"reason"`
}

// ReceiptRaffleCancel canceled
type ReceiptRaffleCancel struct {
	Address   string `cbor:"1,keyasint" json:"address"`
	Reason    string `cbor:"2,keyasint" json:"reason"`
	Sold      int64  `cbor:"3,keyasint" json:"sold"`
	PotRefund int64  `cbor:"4,keyasint" json:"potRefund"`
	Time      int64  `cbor:"5,keyasint" json:"time"`
}

// ReceiptRaffleClaim deposit token payout
type ReceiptRaffleClaim struct {
	Address   string `cbor:"1,keyasint" json:"address"`
	Claimer   string `cbor:"2,keyasint" json:"claimer"`
	Allocated int64  `cbor:"3,keyasint" json:"allocated"`
	Refund    int64  `cbor:"4,keyasint" json:"refund"`
	Amount    int64  `cbor:"5,keyasint" json:"amount"`
	Reserved  int64  `cbor:"6,keyasint" json:"reserved"`
}

// ReceiptNativeCredit failed native push turned into a claimable credit
type ReceiptNativeCredit struct {
	Address string `cbor:"1,keyasint" json:"address"`
	To      string `cbor:"2,keyasint" json:"to"`
	Amount  int64  `cbor:"3,keyasint" json:"amount"`
	Reason  string `cbor:"4,keyasint" json:"reason"`
}

// ReceiptRaffleRegister registry record written
type ReceiptRaffleRegister struct {
	TypeID   string `cbor:"1,keyasint" json:"typeId"`
	Instance string `cbor:"2,keyasint" json:"instance"`
	Creator  string `cbor:"3,keyasint" json:"creator"`
	Seq      int64  `cbor:"4,keyasint" json:"seq"`
}

// query replies

// ReplySolvency reserved liabilities vs actual holdings
type ReplySolvency struct {
	Reserved      int64 `json:"reserved"`
	Balance       int64 `json:"balance"`
	NativeOwed    int64 `json:"nativeOwed"`
	NativeBalance int64 `json:"nativeBalance"`
	Solvent       bool  `json:"solvent"`
}

// ReplyEligibility predicates at the current block time
type ReplyEligibility struct {
	Status           string `json:"status"`
	TimeRemaining    int64  `json:"timeRemaining"`
	IsOpen           bool   `json:"isOpen"`
	IsExpired        bool   `json:"isExpired"`
	IsSoldOut        bool   `json:"isSoldOut"`
	CanCancel        bool   `json:"canCancel"`
	CanFinalize      bool   `json:"canFinalize"`
	CreatorHatchOpen bool   `json:"creatorHatchOpen"`
	PublicHatchOpen  bool   `json:"publicHatchOpen"`
}

// ReplyBuyer per buyer balances
type ReplyBuyer struct {
	Buyer           string `json:"buyer"`
	Tickets         int64  `json:"tickets"`
	Claimable       int64  `json:"claimable"`
	NativeClaimable int64  `json:"nativeClaimable"`
	MinPurchase     int64  `json:"minPurchase"`
}

// ReplyRanges a page of range entries
type ReplyRanges struct {
	Offset  int64         `json:"offset"`
	Total   int64         `json:"total"`
	Sold    int64         `json:"sold"`
	Entries []*RangeEntry `json:"entries"`
}

// ReplyWinner buyer of one ticket index
type ReplyWinner struct {
	Index int64  `json:"index"`
	Buyer string `json:"buyer"`
}

// BuyRecord local index value
type BuyRecord struct {
	Address string `cbor:"1,keyasint" json:"address"`
	Buyer   string `cbor:"2,keyasint" json:"buyer"`
	Count   int64  `cbor:"3,keyasint" json:"count"`
	Cost    int64  `cbor:"4,keyasint" json:"cost"`
	First   int64  `cbor:"5,keyasint" json:"firstTicket"`
	Height  int64  `cbor:"6,keyasint" json:"height"`
	Index   int64  `cbor:"7,keyasint" json:"index"`
	Time    int64  `cbor:"8,keyasint" json:"time"`
	TxHash  string `cbor:"9,keyasint" json:"txHash"`
}

// DrawRecord local index value
type DrawRecord struct {
	Address      string `cbor:"1,keyasint" json:"address"`
	Winner       string `cbor:"2,keyasint" json:"winner"`
	WinningIndex int64  `cbor:"3,keyasint" json:"winningIndex"`
	RequestID    uint64 `cbor:"4,keyasint" json:"requestId"`
	Height       int64  `cbor:"5,keyasint" json:"height"`
	TxHash       string `cbor:"6,keyasint" json:"txHash"`
}

// ReqBuyRecords paging request; Cursor is the key returned as Next
type ReqBuyRecords struct {
	Address   string `json:"address"`
	Buyer     string `json:"buyer,omitempty"`
	Cursor    string `json:"cursor,omitempty"`
	Count     int32  `json:"count,omitempty"`
	Direction int32  `json:"direction,omitempty"`
}

// ReplyBuyRecords a page of purchase records
type ReplyBuyRecords struct {
	Records []*BuyRecord `json:"records"`
	Next    string       `json:"next,omitempty"`
}

// ReqRaffleQuery query parameters, each query reads the members it needs
type ReqRaffleQuery struct {
	Address   string `cbor:"1,keyasint" json:"address,omitempty"`
	Caller    string `cbor:"2,keyasint" json:"caller,omitempty"`
	Offset    int64  `cbor:"3,keyasint" json:"offset,omitempty"`
	Count     int32  `cbor:"4,keyasint" json:"count,omitempty"`
	Index     int64  `cbor:"5,keyasint" json:"index,omitempty"`
	Cursor    string `cbor:"6,keyasint" json:"cursor,omitempty"`
	Direction int32  `cbor:"7,keyasint" json:"direction,omitempty"`
	RequestID uint64 `cbor:"8,keyasint" json:"requestId,omitempty"`
	Hash      string `cbor:"9,keyasint" json:"hash,omitempty"`
}

// ReplyMinPurchase smallest batch buyer may buy right now
type ReplyMinPurchase struct {
	Buyer string `json:"buyer"`
	Count int64  `json:"count"`
}

// ReplyBalance deposit token and native balances of one address
type ReplyBalance struct {
	Addr   string `json:"addr"`
	Token  int64  `json:"token"`
	Native int64  `json:"native"`
}
