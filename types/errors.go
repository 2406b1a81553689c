// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

var (
	ErrNotFound           = errors.New("ErrNotFound")
	ErrInvalidParam       = errors.New("ErrInvalidParam")
	ErrActionNotSupport   = errors.New("ErrActionNotSupport")
	ErrAmount             = errors.New("ErrAmount")
	ErrNoBalance          = errors.New("ErrNoBalance")
	ErrNoAllowance        = errors.New("ErrNoAllowance")
	ErrSendSameToRecv     = errors.New("ErrSendSameToRecv")
	ErrExecNameNotAllow   = errors.New("ErrExecNameNotAllow")
	ErrSymbolNameNotAllow = errors.New("ErrSymbolNameNotAllow")
	ErrNoPrivilege        = errors.New("ErrNoPrivilege")
	ErrEmptyTx            = errors.New("ErrEmptyTx")
	ErrReceiveRejected    = errors.New("ErrReceiveRejected")
	ErrReRunGenesis       = errors.New("ErrReRunGenesis")
)

// CheckAmount amount must be positive
func CheckAmount(amount int64) bool {
	return amount > 0
}
