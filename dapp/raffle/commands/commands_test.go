// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/33cn/raffle/common/address"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/executor"
	"github.com/33cn/raffle/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T) (string, *types.Config) {
	dir := t.TempDir()
	conf := fmt.Sprintf(`title="cli-test"
[store]
driver="leveldb"
name="raffle"
dbPath=%q
[log]
logFile=%q
`, filepath.Join(dir, "datadir"), filepath.Join(dir, "raffle.log"))
	path := filepath.Join(dir, "raffle.toml")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0600))
	cfg, err := types.InitCfgString(conf)
	require.NoError(t, err)
	return path, cfg
}

func execute(t *testing.T, conf string, args ...string) {
	root := &cobra.Command{Use: "raffle"}
	AddFlags(root)
	root.AddCommand(Commands()...)
	root.SetArgs(append(args, "--conf", conf))
	require.NoError(t, root.Execute())
}

func withExecutor(t *testing.T, cfg *types.Config, fn func(e *executor.Executor)) {
	e, err := executor.New(cfg)
	require.NoError(t, err)
	defer e.Close()
	fn(e)
}

func TestCommandRound(t *testing.T) {
	conf, cfg := writeConf(t)
	creator := address.ExecAddress("cli-test-creator")
	buyer := address.ExecAddress("cli-test-buyer")

	execute(t, conf, "token", "mint", "--from", cfg.Token.Genesis, "--to", creator, "--amount", "1000")
	execute(t, conf, "token", "mint", "--from", cfg.Token.Genesis, "--to", buyer, "--amount", "50")

	var factoryAddr string
	withExecutor(t, cfg, func(e *executor.Executor) {
		factoryAddr = e.Factory().Address()
		reply, err := e.Query("GetBalance", types.Encode(&rty.ReqRaffleQuery{Caller: creator}))
		require.NoError(t, err)
		assert.Equal(t, int64(1000*1e6), reply.(*rty.ReplyBalance).Token)
	})

	execute(t, conf, "token", "approve", "--from", creator, "--spender", factoryAddr, "--amount", "100")
	execute(t, conf, "raffle", "create", "--from", creator, "--name", "cli", "--price", "1.5", "--pot", "100", "--salt", "s1")

	var raffleAddr string
	withExecutor(t, cfg, func(e *executor.Executor) {
		raffleAddr = e.Factory().InstanceAddress(creator, "s1")
		reply, err := e.Query("GetRaffle", types.Encode(&rty.ReqRaffleQuery{Address: raffleAddr}))
		require.NoError(t, err)
		info := reply.(*rty.Raffle)
		assert.Equal(t, rty.StatusOpen, info.State.Status)
		assert.Equal(t, int64(1500000), info.Config.TicketPrice)
		assert.Equal(t, cfg.Oracle.DefaultProvider, info.Config.Provider)
		assert.Equal(t, cfg.Raffle.CallbackGas, info.Config.CallbackGas)
	})

	execute(t, conf, "token", "approve", "--from", buyer, "--spender", raffleAddr, "--amount", "3")
	execute(t, conf, "raffle", "buy", "--from", buyer, "--addr", raffleAddr, "--count", "2")
	execute(t, conf, "advance", "--seconds", "10")

	withExecutor(t, cfg, func(e *executor.Executor) {
		reply, err := e.Query("GetRaffle", types.Encode(&rty.ReqRaffleQuery{Address: raffleAddr}))
		require.NoError(t, err)
		assert.Equal(t, int64(2), reply.(*rty.Raffle).State.Sold)
		assert.Equal(t, int64(1), e.Block().Height)

		reply, err = e.Query("GetBalance", types.Encode(&rty.ReqRaffleQuery{Caller: buyer}))
		require.NoError(t, err)
		assert.Equal(t, int64(47*1e6), reply.(*rty.ReplyBalance).Token)

		// approve 和 buy 在两次进程里执行, 索引不能互相覆盖
		reply, err = e.Query("GetTxsByAddr", types.Encode(&rty.ReqRaffleQuery{Caller: buyer}))
		require.NoError(t, err)
		txs := reply.(*executor.ReplyTxList).Txs
		require.Len(t, txs, 2)
		assert.NotEqual(t, txs[0].Hash, txs[1].Hash)
	})
}

func TestQueryFlags(t *testing.T) {
	cmd := queryCmd("ranges", "", "GetRanges", "addr", "offset", "count")
	assert.NotNil(t, cmd.Flags().Lookup("addr"))
	assert.NotNil(t, cmd.Flags().Lookup("offset"))
	assert.Nil(t, cmd.Flags().Lookup("hash"))

	for _, name := range []string{"GetRaffle", "GetRanges", "GetBuyRecords", "GetTxsByAddr", "GetBlock"} {
		assert.Contains(t, executor.QueryNames(), name)
	}
}
