// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParseAmount "1.5" with 6 decimals -> 1500000
func ParseAmount(s string, decimals int32) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(types.ErrAmount, "amount %q: %v", s, err)
	}
	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, errors.Wrapf(types.ErrAmount, "amount %s has more than %d decimals", s, decimals)
	}
	if shifted.Sign() < 0 || shifted.GreaterThan(decimal.New(types.MaxTokenBalance, 0)) {
		return 0, errors.Wrapf(types.ErrAmount, "amount %s out of range", s)
	}
	return shifted.IntPart(), nil
}

// FormatAmount inverse of ParseAmount
func FormatAmount(v int64, decimals int32) string {
	return decimal.New(v, -decimals).String()
}
