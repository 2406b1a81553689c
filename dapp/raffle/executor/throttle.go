// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	rty "github.com/33cn/raffle/dapp/raffle/types"
)

// EntryThrottle minimum ticket count needed to open a new range entry
type EntryThrottle interface {
	MinForNewEntry(entries int64) int64
}

// TieredThrottle step function of the entry count
type TieredThrottle struct {
	Tiers []rty.ThrottleTier
}

// MinForNewEntry tiers are sorted by Entries descending
func (t *TieredThrottle) MinForNewEntry(entries int64) int64 {
	for _, tier := range t.Tiers {
		if entries >= tier.Entries {
			return tier.MinCount
		}
	}
	return 1
}

// CostThrottle every new entry must cost at least MinCost
type CostThrottle struct {
	MinCost int64
	Price   int64
}

// MinForNewEntry ceil(MinCost / Price), at least one
func (t *CostThrottle) MinForNewEntry(entries int64) int64 {
	if t.MinCost <= 0 || t.Price <= 0 {
		return 1
	}
	n := (t.MinCost + t.Price - 1) / t.Price
	if n < 1 {
		return 1
	}
	return n
}

// NewThrottle policy named by the configuration
func NewThrottle(cfg *rty.Config) EntryThrottle {
	if cfg.Throttle == rty.ThrottleCost {
		return &CostThrottle{MinCost: cfg.MinNewEntryCost, Price: cfg.TicketPrice}
	}
	return &TieredThrottle{Tiers: rty.ThrottleTiers}
}
