// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// RaffleX 执行器名字
const RaffleX = "raffle"

// action type
const (
	RaffleActionCreate = 1 + iota
	RaffleActionBuy
	RaffleActionDraw
	RaffleActionCancel
	RaffleActionForceCancel
	RaffleActionClaim
	RaffleActionClaimNative
	RaffleActionDeliver
	RaffleActionApprove
	RaffleActionMint
)

// log type
const (
	TyLogRaffleCreate = 1801 + iota
	TyLogRaffleFund
	TyLogRaffleBuy
	TyLogRaffleDraw
	TyLogRaffleResolve
	TyLogRaffleCallbackRejected
	TyLogRaffleCancel
	TyLogRaffleClaim
	TyLogRaffleNativeCredit
	TyLogRaffleNativeClaim
	TyLogRaffleRegister
)

// lifecycle status
const (
	StatusFundingPending = int32(iota)
	StatusOpen
	StatusDrawing
	StatusCompleted
	StatusCanceled
)

// StatusName readable status
var StatusName = map[int32]string{
	StatusFundingPending: "FundingPending",
	StatusOpen:           "Open",
	StatusDrawing:        "Drawing",
	StatusCompleted:      "Completed",
	StatusCanceled:       "Canceled",
}

// throttle policies
const (
	ThrottleTiered = "tiered"
	ThrottleCost   = "cost"
)

// cancel reasons
const (
	CancelUndersubscribed = "undersubscribed"
	CancelStuckDraw       = "stuck draw"
)

// callback reject reasons
const (
	RejectUnmatched = "unmatched/stale request"
	RejectMismatch  = "provider/state mismatch"
)

// limits
const (
	MaxFeePercent   = 20
	DepositDecimals = 6

	MaxEntries    = 100000
	HardTicketCap = 10000000
	MaxBound      = int64(^uint32(0))
	MaxBatchSize  = 1000

	MinDuration = int64(3600)
	MaxDuration = int64(90 * 24 * 3600)

	MinTicketPrice = int64(10000)
	MaxTicketPrice = int64(100000 * 1e6)
	MinPot         = int64(1e6)
	MaxPot         = int64(1e9 * 1e6)

	CreatorHatchDelay = int64(24 * 3600)
	PublicHatchDelay  = int64(7 * 24 * 3600)

	MaxNameLength  = 64
	MinCallbackGas = uint32(20000)
	MaxCallbackGas = uint32(2500000)
)

// ThrottleTier 条目数达到 Entries 之后, 新开条目至少购买 MinCount 张
type ThrottleTier struct {
	Entries  int64
	MinCount int64
}

// ThrottleTiers 由高到低
var ThrottleTiers = []ThrottleTier{
	{Entries: 75000, MinCount: 20},
	{Entries: 50000, MinCount: 10},
	{Entries: 25000, MinCount: 5},
	{Entries: 10000, MinCount: 2},
}
