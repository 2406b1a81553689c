// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package factory

import (
	"testing"

	"github.com/33cn/raffle/account"
	"github.com/33cn/raffle/common/address"
	dbm "github.com/33cn/raffle/common/db"
	rexec "github.com/33cn/raffle/dapp/raffle/executor"
	rty "github.com/33cn/raffle/dapp/raffle/types"
	"github.com/33cn/raffle/dapp/vrforacle"
	"github.com/33cn/raffle/types"
	pkgerr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providerHex = "0x1f2e3d4c5b6a79880102030405060708090a0b0c0d0e0f101112131415161718"

var (
	owner   = address.ExecAddress("factory-test-owner")
	creator = address.ExecAddress("factory-test-creator")
	feeAddr = address.ExecAddress("factory-test-fee")
)

func newEnv(t *testing.T) (*dbm.StateDB, *account.DB, *rexec.Env) {
	backend, err := dbm.NewGoMemDB("factory-test", "", 0)
	require.NoError(t, err)
	state := dbm.NewStateDB(backend)
	token, err := account.NewAccountDB("token", "usdx", 6, state)
	require.NoError(t, err)
	native, err := account.NewAccountDB("coins", "coin", 8, state)
	require.NoError(t, err)
	oracle, err := vrforacle.New(&types.Oracle{
		BaseFee:   1000,
		GasPrice:  1,
		Providers: map[string]string{"p1": providerHex},
	}, state, native)
	require.NoError(t, err)
	_, err = token.GenesisInit(creator, 10000*1e6)
	require.NoError(t, err)
	env := &rexec.Env{
		DB:     state,
		Token:  token,
		Native: native,
		Oracle: oracle,
		Block:  &types.BlockContext{Height: 1, BlockTime: 1600000000},
	}
	return state, token, env
}

func params() *rty.Config {
	return &rty.Config{
		Provider:     "p1",
		CallbackGas:  100000,
		FeeRecipient: feeAddr,
		FeePercent:   2,
		Name:         "daily",
		TicketPrice:  1e6,
		PotSize:      500 * 1e6,
		MinTickets:   10,
		MaxTickets:   1000,
		Duration:     3600,
		MinPurchase:  1,
		Throttle:     rty.ThrottleTiered,
	}
}

func TestPolicies(t *testing.T) {
	state, _, _ := newEnv(t)

	locked := NewRegistry(state, &LockedPolicy{})
	_, err := locked.SetRegistrar(creator, "")
	assert.Equal(t, types.ErrInvalidParam, err)
	_, err = locked.SetRegistrar(creator, feeAddr)
	require.NoError(t, err)
	assert.Equal(t, feeAddr, locked.Registrar())
	_, err = locked.SetRegistrar(creator, owner)
	assert.Equal(t, ErrRegistrarLocked, err)

	backend, _ := dbm.NewGoMemDB("factory-test-owned", "", 0)
	owned := NewRegistry(dbm.NewStateDB(backend), &OwnedPolicy{Owner: owner})
	_, err = owned.SetRegistrar(creator, feeAddr)
	assert.Equal(t, types.ErrNoPrivilege, err)
	_, err = owned.SetRegistrar(owner, feeAddr)
	require.NoError(t, err)
	_, err = owned.SetRegistrar(owner, creator)
	require.NoError(t, err)
	assert.Equal(t, creator, owned.Registrar())

	p, err := NewPolicy(PolicyOwned, owner)
	require.NoError(t, err)
	assert.Equal(t, PolicyOwned, p.Name())
	p, err = NewPolicy("", "")
	require.NoError(t, err)
	assert.Equal(t, PolicyLocked, p.Name())
	_, err = NewPolicy("open", "")
	assert.Equal(t, ErrPolicy, pkgerr.Cause(err))
}

func TestRegistry(t *testing.T) {
	state, _, _ := newEnv(t)
	reg := NewRegistry(state, &LockedPolicy{})
	_, err := reg.Register(owner, TypeID, "i1", creator)
	assert.Equal(t, types.ErrNoPrivilege, err)

	_, err = reg.SetRegistrar(owner, owner)
	require.NoError(t, err)
	for _, inst := range []string{"i1", "i2", "i3"} {
		receipt, err := reg.Register(owner, TypeID, inst, creator)
		require.NoError(t, err)
		require.Len(t, receipt.Logs, 1)
		assert.Equal(t, int32(rty.TyLogRaffleRegister), receipt.Logs[0].Ty)
	}
	_, err = reg.Register(owner, TypeID, "i2", creator)
	assert.Equal(t, ErrAlreadyRegistered, err)
	assert.Equal(t, int64(3), reg.Count())

	recs, err := reg.List(2, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "i2", recs[0].Instance)
	assert.Equal(t, int64(3), recs[1].Seq)

	rec, err := reg.Get("i1")
	require.NoError(t, err)
	assert.Equal(t, creator, rec.Creator)
}

func TestCreate(t *testing.T) {
	state, token, env := newEnv(t)
	reg := NewRegistry(state, &LockedPolicy{})
	f := New(env, reg)
	_, err := reg.SetRegistrar(owner, f.Address())
	require.NoError(t, err)

	state.Begin()
	_, _, err = f.Create(creator, params(), "salt-1")
	assert.Equal(t, types.ErrNoAllowance, pkgerr.Cause(err))
	state.Rollback()

	_, err = token.Approve(creator, f.Address(), 1000*1e6)
	require.NoError(t, err)

	bad := params()
	bad.FeePercent = 50
	_, _, err = f.Create(creator, bad, "salt-1")
	assert.Equal(t, rty.ErrConfigFee, pkgerr.Cause(err))
	_, _, err = f.Create(creator, params(), "")
	assert.Equal(t, types.ErrInvalidParam, err)

	unknown := params()
	unknown.Provider = "no-such-provider"
	_, _, err = f.Create(creator, unknown, "salt-1")
	assert.Equal(t, rty.ErrConfigProvider, pkgerr.Cause(err))
	assert.Equal(t, int64(10000*1e6), token.BalanceOf(creator))
	assert.Equal(t, int64(0), reg.Count())

	r, receipt, err := f.Create(creator, params(), "salt-1")
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Logs)
	assert.Equal(t, f.InstanceAddress(creator, "salt-1"), r.Address())
	assert.NoError(t, address.CheckAddress(r.Address()))
	st, err := r.State()
	require.NoError(t, err)
	assert.Equal(t, rty.StatusOpen, st.Status)
	assert.Equal(t, int64(500*1e6), token.BalanceOf(r.Address()))
	assert.Equal(t, creator, r.Config().Creator)
	assert.Equal(t, f.Address(), r.Config().Deployer)
	assert.Equal(t, env.Oracle.Address(), r.Config().Oracle)

	rec, err := reg.Get(r.Address())
	require.NoError(t, err)
	assert.Equal(t, TypeID, rec.TypeID)

	_, _, err = f.Create(creator, params(), "salt-1")
	assert.Equal(t, rty.ErrRaffleExist, err)

	r2, _, err := f.Create(creator, params(), "salt-2")
	require.NoError(t, err)
	assert.NotEqual(t, r.Address(), r2.Address())
	assert.Equal(t, int64(2), reg.Count())
}
