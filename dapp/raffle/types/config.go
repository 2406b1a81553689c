// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"unicode/utf8"

	"github.com/33cn/raffle/common/address"
	"github.com/pkg/errors"
)

// Config 抽奖实例配置, 创建时校验一次, 之后不再修改
type Config struct {
	// DepositToken symbol of the deposit token ledger
	DepositToken  string `cbor:"1,keyasint" json:"depositToken"`
	TokenDecimals int32  `cbor:"2,keyasint" json:"tokenDecimals"`
	// Oracle address of the randomness service allowed to call back
	Oracle       string `cbor:"3,keyasint" json:"oracle"`
	Provider     string `cbor:"4,keyasint" json:"provider"`
	CallbackGas  uint32 `cbor:"5,keyasint" json:"callbackGas"`
	FeeRecipient string `cbor:"6,keyasint" json:"feeRecipient"`
	FeePercent   int64  `cbor:"7,keyasint" json:"feePercent"`
	Creator      string `cbor:"8,keyasint" json:"creator"`
	Name         string `cbor:"9,keyasint" json:"name"`
	TicketPrice  int64  `cbor:"10,keyasint" json:"ticketPrice"`
	PotSize      int64  `cbor:"11,keyasint" json:"potSize"`
	MinTickets   int64  `cbor:"12,keyasint" json:"minTickets"`
	// MaxTickets 0 means uncapped (hard cap still applies)
	MaxTickets int64 `cbor:"13,keyasint" json:"maxTickets"`
	// Duration seconds from funding to deadline
	Duration    int64 `cbor:"14,keyasint" json:"duration"`
	MinPurchase int64 `cbor:"15,keyasint" json:"minPurchase"`
	// Throttle "tiered" or "cost"
	Throttle        string `cbor:"16,keyasint" json:"throttle"`
	MinNewEntryCost int64  `cbor:"17,keyasint" json:"minNewEntryCost,omitempty"`
	// Deployer the only address allowed to confirm funding
	Deployer string `cbor:"18,keyasint" json:"deployer"`
}

func checkAddr(name, addr string) error {
	if err := address.CheckAddress(addr); err != nil {
		return errors.Wrapf(ErrConfigAddress, "%s: %v", name, err)
	}
	return nil
}

// Validate 校验所有参数
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigAddress
	}
	for _, a := range []struct{ name, addr string }{
		{"oracle", c.Oracle},
		{"feeRecipient", c.FeeRecipient},
		{"creator", c.Creator},
		{"deployer", c.Deployer},
	} {
		if err := checkAddr(a.name, a.addr); err != nil {
			return err
		}
	}
	if c.DepositToken == "" || c.Provider == "" {
		return errors.Wrap(ErrConfigAddress, "token and provider are required")
	}
	if c.TokenDecimals != DepositDecimals {
		return errors.Wrapf(ErrConfigDecimals, "decimals %d", c.TokenDecimals)
	}
	if c.FeePercent < 0 || c.FeePercent > MaxFeePercent {
		return errors.Wrapf(ErrConfigFee, "fee %d%%", c.FeePercent)
	}
	if c.Name == "" || utf8.RuneCountInString(c.Name) > MaxNameLength {
		return ErrConfigName
	}
	if c.Duration < MinDuration || c.Duration > MaxDuration {
		return errors.Wrapf(ErrConfigDuration, "duration %d", c.Duration)
	}
	if c.TicketPrice < MinTicketPrice || c.TicketPrice > MaxTicketPrice {
		return errors.Wrapf(ErrConfigPrice, "price %d", c.TicketPrice)
	}
	if c.PotSize < MinPot || c.PotSize > MaxPot {
		return errors.Wrapf(ErrConfigPot, "pot %d", c.PotSize)
	}
	if c.MinTickets < 1 || c.MinTickets > HardTicketCap {
		return errors.Wrapf(ErrConfigTicketRange, "min %d", c.MinTickets)
	}
	if c.MaxTickets != 0 && (c.MaxTickets < c.MinTickets || c.MaxTickets > HardTicketCap) {
		return errors.Wrapf(ErrConfigTicketRange, "min %d max %d", c.MinTickets, c.MaxTickets)
	}
	if c.MinPurchase < 0 || c.MinPurchase > MaxBatchSize {
		return errors.Wrapf(ErrConfigMinPurchase, "min purchase %d", c.MinPurchase)
	}
	if c.CallbackGas < MinCallbackGas || c.CallbackGas > MaxCallbackGas {
		return errors.Wrapf(ErrConfigCallbackGas, "gas %d", c.CallbackGas)
	}
	switch c.Throttle {
	case ThrottleTiered:
	case ThrottleCost:
		if c.MinNewEntryCost < 0 || c.MinNewEntryCost > MaxPot ||
			(c.MinNewEntryCost+c.TicketPrice-1)/c.TicketPrice > MaxBatchSize {
			return errors.Wrapf(ErrConfigThrottle, "min new entry cost %d", c.MinNewEntryCost)
		}
	default:
		return errors.Wrapf(ErrConfigThrottle, "policy %q", c.Throttle)
	}
	return nil
}
