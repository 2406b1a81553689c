// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands 抽奖命令行: 交易, 查询, 推进区块
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/33cn/raffle/common/address"
	clog "github.com/33cn/raffle/common/log"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/executor"
	"github.com/33cn/raffle/metrics"
	"github.com/33cn/raffle/types"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Commands every raffle sub command, mounted on the root by main
func Commands() []*cobra.Command {
	return []*cobra.Command{
		AddrCmd(),
		TokenCmd(),
		RaffleCmd(),
		OracleCmd(),
		AdvanceCmd(),
		QueryCmd(),
	}
}

// AddFlags persistent root flags
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("conf", "raffle.toml", "config file, built-in defaults when missing")
	cmd.PersistentFlags().String("from", "", "sender address of the transaction")
}

func loadConfig(cmd *cobra.Command) (*types.Config, error) {
	path, _ := cmd.Flags().GetString("conf")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return types.InitCfgString("")
	}
	return types.InitCfg(path)
}

func run(cmd *cobra.Command, fn func(e *executor.Executor, cfg *types.Config) (interface{}, error)) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	clog.SetFileLog(cfg.Log)
	metrics.StartMetrics(cfg.Metrics)
	e, err := executor.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer e.Close()
	res, err := fn(e, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	printJSON(res)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(data))
}

// ReceiptResult printable receipt
type ReceiptResult struct {
	Hash   string   `json:"hash"`
	Height int64    `json:"height"`
	Logs   []string `json:"logs"`
}

func send(cmd *cobra.Command, action *rty.RaffleAction, value int64) {
	run(cmd, func(e *executor.Executor, cfg *types.Config) (interface{}, error) {
		return sendTx(e, cmd, action, value)
	})
}

func sendTx(e *executor.Executor, cmd *cobra.Command, action *rty.RaffleAction, value int64) (interface{}, error) {
	from, _ := cmd.Flags().GetString("from")
	tx := rty.CreateTx(from, action, value, time.Now().UnixNano())
	receipt, err := e.Exec(tx)
	if err != nil {
		return nil, err
	}
	res := &ReceiptResult{Hash: fmt.Sprintf("%x", tx.Hash()), Height: e.Block().Height}
	for _, l := range receipt.Logs {
		res.Logs = append(res.Logs, logName(l.Ty))
	}
	return res, nil
}

var logNames = map[int32]string{
	types.TyLogTransfer:             "LogTransfer",
	types.TyLogGenesis:              "LogGenesis",
	types.TyLogApprove:              "LogApprove",
	rty.TyLogRaffleCreate:           "LogRaffleCreate",
	rty.TyLogRaffleFund:             "LogRaffleFund",
	rty.TyLogRaffleBuy:              "LogRaffleBuy",
	rty.TyLogRaffleDraw:             "LogRaffleDraw",
	rty.TyLogRaffleResolve:          "LogRaffleResolve",
	rty.TyLogRaffleCallbackRejected: "LogRaffleCallbackRejected",
	rty.TyLogRaffleCancel:           "LogRaffleCancel",
	rty.TyLogRaffleClaim:            "LogRaffleClaim",
	rty.TyLogRaffleNativeCredit:     "LogRaffleNativeCredit",
	rty.TyLogRaffleNativeClaim:      "LogRaffleNativeClaim",
	rty.TyLogRaffleRegister:         "LogRaffleRegister",
}

func logName(ty int32) string {
	if name, ok := logNames[ty]; ok {
		return name
	}
	return fmt.Sprintf("Log%d", ty)
}

// AddrCmd derive the address of a name
func AddrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addr [name]",
		Short: "Address derived from a name",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(address.ExecAddress(args[0]))
		},
	}
}

// TokenCmd deposit token and native coin
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Deposit token and native coin operations",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		mintCmd(),
		approveCmd(),
		balanceCmd(),
	)
	return cmd
}

func mintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint to an address, genesis only",
		Run: func(cmd *cobra.Command, args []string) {
			to, _ := cmd.Flags().GetString("to")
			amount, _ := cmd.Flags().GetString("amount")
			native, _ := cmd.Flags().GetBool("native")
			run(cmd, func(e *executor.Executor, cfg *types.Config) (interface{}, error) {
				decimals := cfg.Token.Decimals
				if native {
					decimals = executor.NativeDecimals
				}
				v, err := ParseAmount(amount, decimals)
				if err != nil {
					return nil, err
				}
				return sendTx(e, cmd, &rty.RaffleAction{Ty: rty.RaffleActionMint, Mint: &rty.TokenMint{To: to, Amount: v, Native: native}}, 0)
			})
		},
	}
	cmd.Flags().StringP("to", "t", "", "receiver address")
	cmd.MarkFlagRequired("to")
	cmd.Flags().StringP("amount", "m", "", "amount")
	cmd.MarkFlagRequired("amount")
	cmd.Flags().Bool("native", false, "mint native coin instead of the deposit token")
	return cmd
}

func approveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a spender for the deposit token",
		Run: func(cmd *cobra.Command, args []string) {
			spender, _ := cmd.Flags().GetString("spender")
			amount, _ := cmd.Flags().GetString("amount")
			run(cmd, func(e *executor.Executor, cfg *types.Config) (interface{}, error) {
				v, err := ParseAmount(amount, cfg.Token.Decimals)
				if err != nil {
					return nil, err
				}
				return sendTx(e, cmd, &rty.RaffleAction{Ty: rty.RaffleActionApprove, Approve: &rty.TokenApprove{Spender: spender, Amount: v}}, 0)
			})
		},
	}
	cmd.Flags().StringP("spender", "s", "", "spender address, a raffle or the factory")
	cmd.MarkFlagRequired("spender")
	cmd.Flags().StringP("amount", "m", "", "allowance")
	cmd.MarkFlagRequired("amount")
	return cmd
}

// BalanceResult printable balances
type BalanceResult struct {
	Addr   string `json:"addr"`
	Token  string `json:"token"`
	Native string `json:"native"`
}

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Deposit token and native balance",
		Run: func(cmd *cobra.Command, args []string) {
			addr, _ := cmd.Flags().GetString("addr")
			run(cmd, func(e *executor.Executor, cfg *types.Config) (interface{}, error) {
				res, err := e.Query("GetBalance", types.Encode(&rty.ReqRaffleQuery{Caller: addr}))
				if err != nil {
					return nil, err
				}
				b := res.(*rty.ReplyBalance)
				return &BalanceResult{
					Addr:   b.Addr,
					Token:  FormatAmount(b.Token, cfg.Token.Decimals),
					Native: FormatAmount(b.Native, executor.NativeDecimals),
				}, nil
			})
		},
	}
	cmd.Flags().StringP("addr", "a", "", "address")
	cmd.MarkFlagRequired("addr")
	return cmd
}

// RaffleCmd raffle transactions
func RaffleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Raffle transactions",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		createCmd(),
		addrActionCmd("buy", "Buy tickets", rty.RaffleActionBuy),
		drawCmd(),
		addrActionCmd("cancel", "Cancel an undersubscribed raffle after the deadline", rty.RaffleActionCancel),
		addrActionCmd("hatch", "Cancel a stalled draw", rty.RaffleActionForceCancel),
		addrActionCmd("claim", "Claim deposit token owed", rty.RaffleActionClaim),
		addrActionCmd("claim-native", "Claim native coin owed", rty.RaffleActionClaimNative),
	)
	return cmd
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Deploy and fund a raffle, approve the factory for the pot first",
		Run:   createRaffle,
	}
	cmd.Flags().StringP("name", "n", "", "raffle name")
	cmd.MarkFlagRequired("name")
	cmd.Flags().StringP("price", "p", "", "ticket price")
	cmd.MarkFlagRequired("price")
	cmd.Flags().String("pot", "", "prize pot")
	cmd.MarkFlagRequired("pot")
	cmd.Flags().Int64("min", 1, "minimum tickets sold for a draw")
	cmd.Flags().Int64("max", 0, "maximum tickets, 0 for no cap")
	cmd.Flags().Int64P("duration", "d", 24*3600, "seconds from funding to the deadline")
	cmd.Flags().Int64("min-purchase", 1, "minimum tickets per purchase")
	cmd.Flags().String("fee-recipient", "", "protocol fee recipient, node default when empty")
	cmd.Flags().Int64("fee-percent", 0, "protocol fee percent of revenue")
	cmd.Flags().String("throttle", "", "tiered or cost, node default when empty")
	cmd.Flags().String("min-entry-cost", "0", "minimum cost of a new entry under the cost throttle")
	cmd.Flags().String("provider", "", "randomness provider, node default when empty")
	cmd.Flags().Uint32("gas", 0, "callback gas budget, node default when 0")
	cmd.Flags().String("salt", "", "deployment salt, random when empty")
	return cmd
}

// CreateResult printable deployment
type CreateResult struct {
	*ReceiptResult
	Address string `json:"address"`
	Salt    string `json:"salt"`
}

func createRaffle(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	price, _ := cmd.Flags().GetString("price")
	pot, _ := cmd.Flags().GetString("pot")
	minTickets, _ := cmd.Flags().GetInt64("min")
	maxTickets, _ := cmd.Flags().GetInt64("max")
	duration, _ := cmd.Flags().GetInt64("duration")
	minPurchase, _ := cmd.Flags().GetInt64("min-purchase")
	feeRecipient, _ := cmd.Flags().GetString("fee-recipient")
	feePercent, _ := cmd.Flags().GetInt64("fee-percent")
	throttle, _ := cmd.Flags().GetString("throttle")
	minEntryCost, _ := cmd.Flags().GetString("min-entry-cost")
	provider, _ := cmd.Flags().GetString("provider")
	gas, _ := cmd.Flags().GetUint32("gas")
	salt, _ := cmd.Flags().GetString("salt")
	if salt == "" {
		salt = uuid.New().String()
	}
	run(cmd, func(e *executor.Executor, cfg *types.Config) (interface{}, error) {
		decimals := cfg.Token.Decimals
		priceV, err := ParseAmount(price, decimals)
		if err != nil {
			return nil, err
		}
		potV, err := ParseAmount(pot, decimals)
		if err != nil {
			return nil, err
		}
		entryCost, err := ParseAmount(minEntryCost, decimals)
		if err != nil {
			return nil, err
		}
		config := &rty.Config{
			Provider:        provider,
			CallbackGas:     gas,
			FeeRecipient:    feeRecipient,
			FeePercent:      feePercent,
			Name:            name,
			TicketPrice:     priceV,
			PotSize:         potV,
			MinTickets:      minTickets,
			MaxTickets:      maxTickets,
			Duration:        duration,
			MinPurchase:     minPurchase,
			Throttle:        throttle,
			MinNewEntryCost: entryCost,
		}
		res, err := sendTx(e, cmd, &rty.RaffleAction{Ty: rty.RaffleActionCreate, Create: &rty.RaffleCreate{Config: config, Salt: salt}}, 0)
		if err != nil {
			return nil, err
		}
		from, _ := cmd.Flags().GetString("from")
		return &CreateResult{
			ReceiptResult: res.(*ReceiptResult),
			Address:       e.Factory().InstanceAddress(from, salt),
			Salt:          salt,
		}, nil
	})
}

func addrActionCmd(use, short string, ty int32) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			addr, _ := cmd.Flags().GetString("addr")
			action := &rty.RaffleAction{Ty: ty}
			switch ty {
			case rty.RaffleActionBuy:
				count, _ := cmd.Flags().GetInt64("count")
				action.Buy = &rty.RaffleBuy{Address: addr, Count: count}
			case rty.RaffleActionCancel:
				action.Cancel = &rty.RaffleCancel{Address: addr}
			case rty.RaffleActionForceCancel:
				action.ForceCancel = &rty.RaffleForceCancel{Address: addr}
			case rty.RaffleActionClaim:
				action.Claim = &rty.RaffleClaim{Address: addr}
			case rty.RaffleActionClaimNative:
				action.ClaimNative = &rty.RaffleClaimNative{Address: addr}
			}
			send(cmd, action, 0)
		},
	}
	cmd.Flags().StringP("addr", "a", "", "raffle address")
	cmd.MarkFlagRequired("addr")
	if ty == rty.RaffleActionBuy {
		cmd.Flags().Int64P("count", "c", 1, "tickets to buy")
	}
	return cmd
}

func drawCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Request the draw, paying the randomness fee in native coin",
		Run: func(cmd *cobra.Command, args []string) {
			addr, _ := cmd.Flags().GetString("addr")
			fee, _ := cmd.Flags().GetString("fee")
			run(cmd, func(e *executor.Executor, cfg *types.Config) (interface{}, error) {
				var value int64
				if fee == "" {
					res, err := e.Query("GetRaffle", types.Encode(&rty.ReqRaffleQuery{Address: addr}))
					if err != nil {
						return nil, err
					}
					value = e.Oracle().QuoteFee(res.(*rty.Raffle).Config.CallbackGas)
				} else {
					v, err := ParseAmount(fee, executor.NativeDecimals)
					if err != nil {
						return nil, err
					}
					value = v
				}
				return sendTx(e, cmd, &rty.RaffleAction{Ty: rty.RaffleActionDraw, Draw: &rty.RaffleDraw{Address: addr}}, value)
			})
		},
	}
	cmd.Flags().StringP("addr", "a", "", "raffle address")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("fee", "f", "", "native fee, the current quote when empty")
	return cmd
}

// OracleCmd randomness oracle
func OracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Randomness oracle operations",
		Args:  cobra.MinimumNArgs(1),
	}
	deliver := &cobra.Command{
		Use:   "deliver",
		Short: "Fulfil a pending request, operator only",
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := cmd.Flags().GetUint64("id")
			send(cmd, &rty.RaffleAction{Ty: rty.RaffleActionDeliver, Deliver: &rty.OracleDeliver{RequestID: id}}, 0)
		},
	}
	deliver.Flags().Uint64("id", 0, "request id")
	deliver.MarkFlagRequired("id")
	cmd.AddCommand(
		deliver,
		queryCmd("info", "Oracle address, operator and providers", "GetOracle"),
		queryCmd("request", "Show a randomness request", "GetOracleRequest", "id"),
		queryCmd("verify", "Recompute and check delivered randomness", "VerifyRandomness", "id"),
	)
	return cmd
}

// AdvanceCmd moves the local chain to the next block
func AdvanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Seal the block and move time forward",
		Run: func(cmd *cobra.Command, args []string) {
			seconds, _ := cmd.Flags().GetInt64("seconds")
			run(cmd, func(e *executor.Executor, cfg *types.Config) (interface{}, error) {
				return e.NextBlock(seconds)
			})
		},
	}
	cmd.Flags().Int64P("seconds", "s", 1, "seconds to advance")
	return cmd
}

// QueryCmd read only queries
func QueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query raffle, registry and transaction state",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		queryCmd("info", "Config and state of a raffle", "GetRaffle", "addr"),
		queryCmd("ranges", "Page through the range ledger", "GetRanges", "addr", "offset", "count"),
		queryCmd("buyer", "Tickets and claimable balances of a buyer", "GetBuyer", "addr", "caller"),
		queryCmd("solvency", "Reserved liabilities against holdings", "GetSolvency", "addr"),
		queryCmd("eligibility", "Lifecycle predicates at the current block", "GetEligibility", "addr", "caller"),
		queryCmd("min-purchase", "Smallest purchase accepted now", "GetMinPurchase", "addr", "caller"),
		queryCmd("winner", "Buyer of a ticket index", "GetWinnerOf", "addr", "index"),
		queryCmd("history", "Purchase history", "GetBuyRecords", "addr", "caller", "cursor", "count", "direction"),
		queryCmd("result", "Resolved draw", "GetDrawRecord", "addr"),
		queryCmd("registry", "Deployed instances", "GetRegistry", "offset", "count"),
		queryCmd("txs", "Transactions sent by an address", "GetTxsByAddr", "caller", "cursor", "count", "direction"),
		queryCmd("tx", "Transaction by hash", "GetTxByHash", "hash"),
		queryCmd("block", "Current block", "GetBlock"),
		queryCmd("metrics", "Operation counters of this process", "GetMetrics"),
	)
	return cmd
}

var queryFlagUsage = map[string]string{
	"addr":      "raffle address",
	"caller":    "buyer or caller address",
	"offset":    "first item",
	"count":     "page size",
	"index":     "ticket index",
	"cursor":    "next key of the previous page",
	"direction": "0 newest first, 1 oldest first",
	"id":        "request id",
	"hash":      "transaction hash",
}

func queryCmd(use, short, funcName string, flags ...string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			req := &rty.ReqRaffleQuery{}
			req.Address, _ = cmd.Flags().GetString("addr")
			req.Caller, _ = cmd.Flags().GetString("caller")
			req.Offset, _ = cmd.Flags().GetInt64("offset")
			req.Count, _ = cmd.Flags().GetInt32("count")
			req.Index, _ = cmd.Flags().GetInt64("index")
			req.Cursor, _ = cmd.Flags().GetString("cursor")
			req.Direction, _ = cmd.Flags().GetInt32("direction")
			req.RequestID, _ = cmd.Flags().GetUint64("id")
			req.Hash, _ = cmd.Flags().GetString("hash")
			run(cmd, func(e *executor.Executor, cfg *types.Config) (interface{}, error) {
				return e.Query(funcName, types.Encode(req))
			})
		},
	}
	for _, f := range flags {
		switch f {
		case "addr", "caller", "cursor", "hash":
			cmd.Flags().String(f, "", queryFlagUsage[f])
		case "offset", "index":
			cmd.Flags().Int64(f, 0, queryFlagUsage[f])
		case "count", "direction":
			cmd.Flags().Int32(f, 0, queryFlagUsage[f])
		case "id":
			cmd.Flags().Uint64(f, 0, queryFlagUsage[f])
		}
		if f == "addr" || f == "id" || f == "hash" {
			cmd.MarkFlagRequired(f)
		}
	}
	return cmd
}
