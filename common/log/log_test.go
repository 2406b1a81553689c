// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/33cn/raffle/types"
	log15 "github.com/inconshreveable/log15"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, log15.LvlDebug, getLevel("debug"))
	assert.Equal(t, log15.LvlInfo, getLevel("info"))
	assert.Equal(t, log15.LvlError, getLevel("bogus"))
}

func TestFillDefaultValue(t *testing.T) {
	cfg := &types.Log{}
	fillDefaultValue(cfg)
	assert.Equal(t, "eror", cfg.Loglevel)
	assert.Equal(t, "eror", cfg.LogConsoleLevel)
}

func TestSetFileLog(t *testing.T) {
	defer SetLogLevel("crit")
	dir := t.TempDir()
	file := filepath.Join(dir, "raffle.log")
	SetFileLog(&types.Log{
		Loglevel:        "info",
		LogConsoleLevel: "crit",
		LogFile:         file,
		MaxFileSize:     1,
		MaxBackups:      1,
	})
	New("module", "logtest").Info("hello", "k", "v")
	_, err := os.Stat(file)
	require.NoError(t, err)
}

func TestModuleFilter(t *testing.T) {
	var buf bytes.Buffer
	h := moduleFilter(log15.LvlError, map[string]string{"raffle": "debug"}, log15.StreamHandler(&buf, log15.LogfmtFormat()))
	l := log15.New()
	l.SetHandler(h)

	l.New("module", "raffle").Debug("kept")
	l.New("module", "factory").Info("dropped")
	l.Info("dropped too")
	l.Error("error kept")

	out := buf.String()
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "error kept")
	assert.NotContains(t, out, "dropped")
}

func TestConsoleToStderrWriter(t *testing.T) {
	old := consoleWriter
	defer func() { consoleWriter = old }()
	var buf bytes.Buffer
	consoleWriter = &buf
	defer SetLogLevel("crit")

	SetLogLevel("warn")
	New("module", "logtest").Warn("warned")
	New("module", "logtest").Info("quiet")
	assert.Contains(t, buf.String(), "warned")
	assert.NotContains(t, buf.String(), "quiet")
}
