// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

// configuration
var (
	ErrConfigAddress     = errors.New("ErrConfigAddress")
	ErrConfigFee         = errors.New("ErrConfigFee")
	ErrConfigDecimals    = errors.New("ErrConfigDecimals")
	ErrConfigName        = errors.New("ErrConfigName")
	ErrConfigDuration    = errors.New("ErrConfigDuration")
	ErrConfigPrice       = errors.New("ErrConfigPrice")
	ErrConfigPot         = errors.New("ErrConfigPot")
	ErrConfigTicketRange = errors.New("ErrConfigTicketRange")
	ErrConfigMinPurchase = errors.New("ErrConfigMinPurchase")
	ErrConfigThrottle    = errors.New("ErrConfigThrottle")
	ErrConfigCallbackGas = errors.New("ErrConfigCallbackGas")
	ErrConfigProvider    = errors.New("ErrConfigProvider")
)

// lifecycle, input and capacity
var (
	ErrRaffleStatus        = errors.New("ErrRaffleStatus")
	ErrRaffleNotFound      = errors.New("ErrRaffleNotFound")
	ErrRaffleExist         = errors.New("ErrRaffleExist")
	ErrRaffleExpired       = errors.New("ErrRaffleExpired")
	ErrAlreadyFunded       = errors.New("ErrAlreadyFunded")
	ErrFundNotEnough       = errors.New("ErrFundNotEnough")
	ErrBuyCount            = errors.New("ErrBuyCount")
	ErrCreatorBuy          = errors.New("ErrCreatorBuy")
	ErrBelowMinimum        = errors.New("ErrBelowMinimum")
	ErrBelowThrottle       = errors.New("ErrBelowThrottle")
	ErrTicketCap           = errors.New("ErrTicketCap")
	ErrEntryCap            = errors.New("ErrEntryCap")
	ErrBoundOverflow       = errors.New("ErrBoundOverflow")
	ErrTicketIndex         = errors.New("ErrTicketIndex")
	ErrDrawNotReady        = errors.New("ErrDrawNotReady")
	ErrDrawPending         = errors.New("ErrDrawPending")
	ErrInsufficientFee     = errors.New("ErrInsufficientFee")
	ErrCancelNotAllowed    = errors.New("ErrCancelNotAllowed")
	ErrHatchLocked         = errors.New("ErrHatchLocked")
	ErrNothingToClaim      = errors.New("ErrNothingToClaim")
	ErrReentrant           = errors.New("ErrReentrant")
	ErrRaffleActionInvalid = errors.New("ErrRaffleActionInvalid")
)

// external interaction, invariants and authorization
var (
	ErrTransferDeltaMismatch = errors.New("ErrTransferDeltaMismatch")
	ErrRequestFailed         = errors.New("ErrRequestFailed")
	ErrAccountingInvariant   = errors.New("ErrAccountingInvariant")
	ErrUnauthorizedCallback  = errors.New("ErrUnauthorizedCallback")
	ErrNoPrivilege           = errors.New("ErrNoPrivilege")
)
