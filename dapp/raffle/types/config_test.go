// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/33cn/raffle/common/address"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DepositToken:  "usdx",
		TokenDecimals: 6,
		Oracle:        address.ExecAddress("vrforacle"),
		Provider:      "p1",
		CallbackGas:   250000,
		FeeRecipient:  address.ExecAddress("fee"),
		FeePercent:    5,
		Creator:       address.ExecAddress("creator"),
		Name:          "weekly",
		TicketPrice:   10 * 1e6,
		PotSize:       1000 * 1e6,
		MinTickets:    5,
		MaxTickets:    100,
		Duration:      86400,
		MinPurchase:   1,
		Throttle:      ThrottleTiered,
		Deployer:      address.ExecAddress("factory"),
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := []struct {
		name   string
		modify func(c *Config)
		err    error
	}{
		{"empty creator", func(c *Config) { c.Creator = "" }, ErrConfigAddress},
		{"bad oracle", func(c *Config) { c.Oracle = "notanaddress" }, ErrConfigAddress},
		{"no provider", func(c *Config) { c.Provider = "" }, ErrConfigAddress},
		{"decimals", func(c *Config) { c.TokenDecimals = 18 }, ErrConfigDecimals},
		{"fee cap", func(c *Config) { c.FeePercent = 21 }, ErrConfigFee},
		{"negative fee", func(c *Config) { c.FeePercent = -1 }, ErrConfigFee},
		{"empty name", func(c *Config) { c.Name = "" }, ErrConfigName},
		{"long name", func(c *Config) {
			c.Name = "0123456789012345678901234567890123456789012345678901234567890123456789"
		}, ErrConfigName},
		{"short duration", func(c *Config) { c.Duration = 60 }, ErrConfigDuration},
		{"long duration", func(c *Config) { c.Duration = MaxDuration + 1 }, ErrConfigDuration},
		{"cheap ticket", func(c *Config) { c.TicketPrice = 1 }, ErrConfigPrice},
		{"small pot", func(c *Config) { c.PotSize = 1 }, ErrConfigPot},
		{"zero min", func(c *Config) { c.MinTickets = 0 }, ErrConfigTicketRange},
		{"max below min", func(c *Config) { c.MaxTickets = 4 }, ErrConfigTicketRange},
		{"max above cap", func(c *Config) { c.MaxTickets = HardTicketCap + 1 }, ErrConfigTicketRange},
		{"min purchase", func(c *Config) { c.MinPurchase = MaxBatchSize + 1 }, ErrConfigMinPurchase},
		{"gas", func(c *Config) { c.CallbackGas = 1 }, ErrConfigCallbackGas},
		{"throttle", func(c *Config) { c.Throttle = "none" }, ErrConfigThrottle},
		{"cost throttle too high", func(c *Config) {
			c.Throttle = ThrottleCost
			c.MinNewEntryCost = c.TicketPrice*MaxBatchSize + 1
		}, ErrConfigThrottle},
	}
	for _, tc := range cases {
		c := validConfig()
		tc.modify(c)
		err := c.Validate()
		assert.Equal(t, tc.err, errors.Cause(err), tc.name)
	}

	c := validConfig()
	c.MaxTickets = 0
	c.Throttle = ThrottleCost
	c.MinNewEntryCost = 25 * 1e6
	assert.NoError(t, c.Validate())
}

func TestDecodePayload(t *testing.T) {
	tx := CreateTx(address.ExecAddress("a"), &RaffleAction{
		Ty:  RaffleActionBuy,
		Buy: &RaffleBuy{Address: "x", Count: 2},
	}, 0, 1)
	action, err := DecodePayload(tx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), action.Buy.Count)
	assert.Equal(t, "buy", ActionName(tx))

	tx = CreateTx("a", &RaffleAction{Ty: RaffleActionDraw, Buy: &RaffleBuy{}}, 0, 2)
	_, err = DecodePayload(tx)
	assert.Equal(t, ErrRaffleActionInvalid, err)
	assert.Equal(t, "unknow", ActionName(tx))
}
