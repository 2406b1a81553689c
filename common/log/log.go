// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log 日志配置: 控制台输出到 stderr, 文件日志按大小滚动, 可按模块单独设置级别
package log

import (
	"io"
	"os"

	"github.com/33cn/raffle/types"
	log15 "github.com/inconshreveable/log15"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 控制台默认写 stderr, stdout 留给命令行的 json 输出
var consoleWriter io.Writer = os.Stderr

// SetLogLevel 只保留控制台日志
func SetLogLevel(logLevel string) {
	log15.Root().SetHandler(consoleHandler(logLevel))
}

// SetFileLog 根据配置重建控制台和文件日志, 可重复调用
func SetFileLog(cfg *types.Log) {
	if cfg == nil {
		cfg = &types.Log{LogFile: "logs/raffle.log"}
	}
	if cfg.LogFile == "" {
		SetLogLevel(cfg.LogConsoleLevel)
		return
	}
	fillDefaultValue(cfg)
	log15.Root().SetHandler(log15.MultiHandler(consoleHandler(cfg.LogConsoleLevel), fileHandler(cfg)))
}

// 默认 error 级别
func fillDefaultValue(cfg *types.Log) {
	if cfg.Loglevel == "" {
		cfg.Loglevel = log15.LvlError.String()
	}
	if cfg.LogConsoleLevel == "" {
		cfg.LogConsoleLevel = log15.LvlError.String()
	}
}

func isWindows() bool {
	return os.PathSeparator == '\\' && os.PathListSeparator == ';'
}

func consoleHandler(logLevel string) log15.Handler {
	format := log15.TerminalFormat()
	if isWindows() {
		format = log15.LogfmtFormat()
	}
	return log15.LvlFilterHandler(getLevel(logLevel), log15.StreamHandler(consoleWriter, format))
}

func fileHandler(cfg *types.Log) log15.Handler {
	w := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    int(cfg.MaxFileSize),
		MaxBackups: int(cfg.MaxBackups),
		MaxAge:     int(cfg.MaxAge),
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
	h := log15.StreamHandler(w, log15.LogfmtFormat())
	if cfg.CallerFile {
		h = log15.CallerFileHandler(h)
	}
	if cfg.CallerFunction {
		h = log15.CallerFuncHandler(h)
	}
	return moduleFilter(getLevel(cfg.Loglevel), cfg.Modules, h)
}

// moduleFilter records carrying "module" use the level configured for that
// module, everything else uses lvl
func moduleFilter(lvl log15.Lvl, modules map[string]string, h log15.Handler) log15.Handler {
	if len(modules) == 0 {
		return log15.LvlFilterHandler(lvl, h)
	}
	levels := make(map[string]log15.Lvl, len(modules))
	for name, l := range modules {
		levels[name] = getLevel(l)
	}
	return log15.FilterHandler(func(r *log15.Record) bool {
		limit := lvl
		if name, ok := moduleOf(r); ok {
			if ml, ok := levels[name]; ok {
				limit = ml
			}
		}
		return r.Lvl <= limit
	}, h)
}

func moduleOf(r *log15.Record) (string, bool) {
	for i := 0; i+1 < len(r.Ctx); i += 2 {
		if k, ok := r.Ctx[i].(string); ok && k == "module" {
			name, ok := r.Ctx[i+1].(string)
			return name, ok
		}
	}
	return "", false
}

func getLevel(lvlString string) log15.Lvl {
	lvl, err := log15.LvlFromString(lvlString)
	if err != nil {
		return log15.LvlError
	}
	return lvl
}

// New new
func New(ctx ...interface{}) log15.Logger {
	return log15.Root().New(ctx...)
}
