// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCfgStringDefaults(t *testing.T) {
	cfg, err := InitCfgString("")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Title)
	require.NotNil(t, cfg.Store)
	assert.Equal(t, "leveldb", cfg.Store.Driver)
	require.NotNil(t, cfg.Token)
	assert.Equal(t, int32(6), cfg.Token.Decimals)
	require.NotNil(t, cfg.Raffle)
	assert.Equal(t, "tiered", cfg.Raffle.ThrottlePolicy)
}

func TestInitCfgStringOverride(t *testing.T) {
	cfg, err := InitCfgString(`
title="test"
[store]
driver="memdb"
[oracle]
baseFee=5
[oracle.providers]
p1="01"
`)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Title)
	assert.Equal(t, "memdb", cfg.Store.Driver)
	// untouched keys of a partially configured section keep their defaults
	assert.Equal(t, "raffle", cfg.Store.Name)
	assert.Equal(t, int64(5), cfg.Oracle.BaseFee)
	assert.Equal(t, int64(1), cfg.Oracle.GasPrice)
	assert.Equal(t, "01", cfg.Oracle.Providers["p1"])
}

func TestInitCfgBadToml(t *testing.T) {
	_, err := InitCfgString("title=")
	assert.Error(t, err)
}

func TestInitCfgFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raffle.toml")
	require.NoError(t, os.WriteFile(path, []byte(`title="file"`), 0600))
	cfg, err := InitCfg(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Title)

	_, err = InitCfg(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEncodeDeterministic(t *testing.T) {
	r := NewReceipt()
	r.AddLog(TyLogTransfer, &ReceiptAccountTransfer{
		Prev:    &Account{Addr: "a", Balance: 1},
		Current: &Account{Addr: "a", Balance: 2},
	})
	b1 := Encode(r)
	b2 := Encode(r)
	assert.Equal(t, b1, b2)

	var out Receipt
	require.NoError(t, Decode(b1, &out))
	require.Len(t, out.Logs, 1)
	var tr ReceiptAccountTransfer
	require.NoError(t, Decode(out.Logs[0].Log, &tr))
	assert.Equal(t, int64(2), tr.Current.Balance)
}
