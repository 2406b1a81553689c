// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"

	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/types"
)

// state keys, one instance per prefix
func calcRafflePrefix(addr string) string {
	return string(types.CalcStatePrefix(rty.RaffleX)) + addr + "-"
}

func calcRaffleConfigKey(addr string) []byte {
	return []byte(calcRafflePrefix(addr) + "config")
}

func calcRaffleStateKey(addr string) []byte {
	return []byte(calcRafflePrefix(addr) + "state")
}

func calcRangeKey(addr string, index int64) []byte {
	return []byte(fmt.Sprintf("%srange-%010d", calcRafflePrefix(addr), index))
}

func calcTicketsKey(addr, buyer string) []byte {
	return []byte(calcRafflePrefix(addr) + "tickets-" + buyer)
}

func calcClaimKey(addr, owner string) []byte {
	return []byte(calcRafflePrefix(addr) + "claim-" + owner)
}

func calcNativeClaimKey(addr, owner string) []byte {
	return []byte(calcRafflePrefix(addr) + "native-" + owner)
}

// local index keys
func calcBuyPrefix(addr string) []byte {
	return []byte(fmt.Sprintf("%sbuy:%s:", types.CalcLocalPrefix(rty.RaffleX), addr))
}

func calcBuyKey(addr string, height, index int64) []byte {
	return []byte(fmt.Sprintf("%s%012d%06d", calcBuyPrefix(addr), height, index))
}

func calcBuyerPrefix(addr, buyer string) []byte {
	return []byte(fmt.Sprintf("%sbuyer:%s:%s:", types.CalcLocalPrefix(rty.RaffleX), addr, buyer))
}

func calcBuyerKey(addr, buyer string, height, index int64) []byte {
	return []byte(fmt.Sprintf("%s%012d%06d", calcBuyerPrefix(addr, buyer), height, index))
}

func calcDrawKey(addr string) []byte {
	return []byte(fmt.Sprintf("%sdraw:%s", types.CalcLocalPrefix(rty.RaffleX), addr))
}
