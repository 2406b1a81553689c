// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/33cn/raffle/types"
)

// RaffleAction transaction payload, exactly one member matches Ty
type RaffleAction struct {
	Ty          int32              `cbor:"1,keyasint" json:"ty"`
	Create      *RaffleCreate      `cbor:"2,keyasint,omitempty" json:"create,omitempty"`
	Buy         *RaffleBuy         `cbor:"3,keyasint,omitempty" json:"buy,omitempty"`
	Draw        *RaffleDraw        `cbor:"4,keyasint,omitempty" json:"draw,omitempty"`
	Cancel      *RaffleCancel      `cbor:"5,keyasint,omitempty" json:"cancel,omitempty"`
	ForceCancel *RaffleForceCancel `cbor:"6,keyasint,omitempty" json:"forceCancel,omitempty"`
	Claim       *RaffleClaim       `cbor:"7,keyasint,omitempty" json:"claim,omitempty"`
	ClaimNative *RaffleClaimNative `cbor:"8,keyasint,omitempty" json:"claimNative,omitempty"`
	Deliver     *OracleDeliver     `cbor:"9,keyasint,omitempty" json:"deliver,omitempty"`
	Approve     *TokenApprove      `cbor:"10,keyasint,omitempty" json:"approve,omitempty"`
	Mint        *TokenMint         `cbor:"11,keyasint,omitempty" json:"mint,omitempty"`
}

// RaffleCreate factory deployment; Config.Creator and Deployer are filled by the executor
type RaffleCreate struct {
	Config *Config `cbor:"1,keyasint" json:"config"`
	Salt   string  `cbor:"2,keyasint" json:"salt"`
}

// RaffleBuy buy tickets
type RaffleBuy struct {
	Address string `cbor:"1,keyasint" json:"address"`
	Count   int64  `cbor:"2,keyasint" json:"count"`
}

// RaffleDraw request the draw, the fee is the transaction value
type RaffleDraw struct {
	Address string `cbor:"1,keyasint" json:"address"`
}

// RaffleCancel explicit cancellation after an undersubscribed deadline
type RaffleCancel struct {
	Address string `cbor:"1,keyasint" json:"address"`
}

// RaffleForceCancel emergency hatch for a stalled draw
type RaffleForceCancel struct {
	Address string `cbor:"1,keyasint" json:"address"`
}

// RaffleClaim deposit token claim
type RaffleClaim struct {
	Address string `cbor:"1,keyasint" json:"address"`
}

// RaffleClaimNative native fallback claim
type RaffleClaimNative struct {
	Address string `cbor:"1,keyasint" json:"address"`
}

// OracleDeliver operator fulfils a pending randomness request
type OracleDeliver struct {
	RequestID uint64 `cbor:"1,keyasint" json:"requestId"`
}

// TokenApprove deposit token allowance
type TokenApprove struct {
	Spender string `cbor:"1,keyasint" json:"spender"`
	Amount  int64  `cbor:"2,keyasint" json:"amount"`
}

// TokenMint genesis only
type TokenMint struct {
	To     string `cbor:"1,keyasint" json:"to"`
	Amount int64  `cbor:"2,keyasint" json:"amount"`
	// Native mint the native coin instead of the deposit token
	Native bool `cbor:"3,keyasint" json:"native,omitempty"`
}

var actionName = map[int32]string{
	RaffleActionCreate:      "create",
	RaffleActionBuy:         "buy",
	RaffleActionDraw:        "draw",
	RaffleActionCancel:      "cancel",
	RaffleActionForceCancel: "forceCancel",
	RaffleActionClaim:       "claim",
	RaffleActionClaimNative: "claimNative",
	RaffleActionDeliver:     "deliver",
	RaffleActionApprove:     "approve",
	RaffleActionMint:        "mint",
}

// ActionName 交易名称
func ActionName(tx *types.Transaction) string {
	var action RaffleAction
	err := types.Decode(tx.Payload, &action)
	if err != nil {
		return "unknow-err"
	}
	if action.payload() == nil {
		return "unknow"
	}
	return actionName[action.Ty]
}

func (a *RaffleAction) payload() interface{} {
	switch a.Ty {
	case RaffleActionCreate:
		if a.Create != nil {
			return a.Create
		}
	case RaffleActionBuy:
		if a.Buy != nil {
			return a.Buy
		}
	case RaffleActionDraw:
		if a.Draw != nil {
			return a.Draw
		}
	case RaffleActionCancel:
		if a.Cancel != nil {
			return a.Cancel
		}
	case RaffleActionForceCancel:
		if a.ForceCancel != nil {
			return a.ForceCancel
		}
	case RaffleActionClaim:
		if a.Claim != nil {
			return a.Claim
		}
	case RaffleActionClaimNative:
		if a.ClaimNative != nil {
			return a.ClaimNative
		}
	case RaffleActionDeliver:
		if a.Deliver != nil {
			return a.Deliver
		}
	case RaffleActionApprove:
		if a.Approve != nil {
			return a.Approve
		}
	case RaffleActionMint:
		if a.Mint != nil {
			return a.Mint
		}
	}
	return nil
}

// DecodePayload decode and check that the member named by Ty is present
func DecodePayload(tx *types.Transaction) (*RaffleAction, error) {
	var action RaffleAction
	if err := types.Decode(tx.Payload, &action); err != nil {
		return nil, err
	}
	if action.payload() == nil {
		return nil, ErrRaffleActionInvalid
	}
	return &action, nil
}

// CreateTx build an unsigned transaction carrying action
func CreateTx(from string, action *RaffleAction, value int64, nonce int64) *types.Transaction {
	return &types.Transaction{
		Execer:  RaffleX,
		From:    from,
		Value:   value,
		Payload: types.Encode(action),
		Nonce:   nonce,
	}
}
