// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"bytes"
	"os"

	tml "github.com/BurntSushi/toml"
)

// Config 节点配置
type Config struct {
	Title   string   `toml:"title" json:"title,omitempty"`
	Log     *Log     `toml:"log" json:"log,omitempty"`
	Store   *Store   `toml:"store" json:"store,omitempty"`
	Token   *Token   `toml:"token" json:"token,omitempty"`
	Oracle  *Oracle  `toml:"oracle" json:"oracle,omitempty"`
	Raffle  *Raffle  `toml:"raffle" json:"raffle,omitempty"`
	Metrics *Metrics `toml:"metrics" json:"metrics,omitempty"`
}

// Log 日志配置
type Log struct {
	// 日志级别，支持debug(dbug)/info/warn/error(eror)/crit
	Loglevel        string `toml:"loglevel" json:"loglevel,omitempty"`
	LogConsoleLevel string `toml:"logConsoleLevel" json:"logConsoleLevel,omitempty"`
	// 日志文件名，可带目录，所有生成的日志文件都放到此目录下
	LogFile string `toml:"logFile" json:"logFile,omitempty"`
	// 单个日志文件的最大值（单位：兆）
	MaxFileSize uint32 `toml:"maxFileSize" json:"maxFileSize,omitempty"`
	// 最多保存的历史日志文件个数
	MaxBackups uint32 `toml:"maxBackups" json:"maxBackups,omitempty"`
	// 最多保存的历史日志消息（单位：天）
	MaxAge uint32 `toml:"maxAge" json:"maxAge,omitempty"`
	// 日志文件名是否使用本地时间（否则使用UTC时间）
	LocalTime bool `toml:"localTime" json:"localTime,omitempty"`
	// 历史日志文件是否压缩（压缩格式为gz）
	Compress bool `toml:"compress" json:"compress,omitempty"`
	// 是否打印调用源文件和行号
	CallerFile bool `toml:"callerFile" json:"callerFile,omitempty"`
	// 是否打印调用方法
	CallerFunction bool `toml:"callerFunction" json:"callerFunction,omitempty"`
	// 按模块覆盖文件日志级别, 例如 raffle = "debug"
	Modules map[string]string `toml:"modules" json:"modules,omitempty"`
}

// Store 存储配置
type Store struct {
	// 数据存储格式名称，目前支持 memdb, leveldb, goleveldb
	Driver  string `toml:"driver" json:"driver,omitempty"`
	Name    string `toml:"name" json:"name,omitempty"`
	DbPath  string `toml:"dbPath" json:"dbPath,omitempty"`
	DbCache int32  `toml:"dbCache" json:"dbCache,omitempty"`
}

// Token deposit token and native coin settings
type Token struct {
	Symbol       string `toml:"symbol" json:"symbol,omitempty"`
	Decimals     int32  `toml:"decimals" json:"decimals,omitempty"`
	NativeSymbol string `toml:"nativeSymbol" json:"nativeSymbol,omitempty"`
	// Genesis address allowed to mint, empty disables minting
	Genesis string `toml:"genesis" json:"genesis,omitempty"`
}

// Oracle randomness service settings
type Oracle struct {
	// Operator address allowed to fulfil requests
	Operator string `toml:"operator" json:"operator,omitempty"`
	BaseFee  int64  `toml:"baseFee" json:"baseFee,omitempty"`
	GasPrice int64  `toml:"gasPrice" json:"gasPrice,omitempty"`
	// Providers identity -> hex encoded P-256 private scalar
	Providers map[string]string `toml:"providers" json:"providers,omitempty"`
	// DefaultProvider identity configured into new raffles
	DefaultProvider string `toml:"defaultProvider" json:"defaultProvider,omitempty"`
}

// Raffle node wide defaults applied to new raffles
type Raffle struct {
	// ThrottlePolicy "tiered" or "cost"
	ThrottlePolicy  string `toml:"throttlePolicy" json:"throttlePolicy,omitempty"`
	MinNewEntryCost int64  `toml:"minNewEntryCost" json:"minNewEntryCost,omitempty"`
	CallbackGas     uint32 `toml:"callbackGas" json:"callbackGas,omitempty"`
	FeeRecipient    string `toml:"feeRecipient" json:"feeRecipient,omitempty"`
	FeePercent      int64  `toml:"feePercent" json:"feePercent,omitempty"`
	// RegistryPolicy "owned" or "locked"
	RegistryPolicy string `toml:"registryPolicy" json:"registryPolicy,omitempty"`
	RegistryOwner  string `toml:"registryOwner" json:"registryOwner,omitempty"`
}

// Metrics 度量配置
type Metrics struct {
	EnableMetrics bool `toml:"enableMetrics" json:"enableMetrics,omitempty"`
	// 日志输出间隔（秒）
	Duration int64 `toml:"duration" json:"duration,omitempty"`
}

var defaultCfg = `
title="local"

[log]
loglevel = "info"
logConsoleLevel = "error"
logFile = "logs/raffle.log"
maxFileSize = 300
maxBackups = 100
maxAge = 28
localTime = true
compress = true
callerFile = false
callerFunction = false

[store]
driver = "leveldb"
name = "raffle"
dbPath = "datadir"
dbCache = 128

[token]
symbol = "usdx"
decimals = 6
nativeSymbol = "coin"
genesis = "1366MBuqv1Wb6VYspDvq3qHvvBVpWPD2vu"

[oracle]
operator = "1NWCJGmjhMXs83Nnx5UXcLUaFYh2jgwNeP"
baseFee = 1000
gasPrice = 1
defaultProvider = "local"

# 仅用于本地测试, 生产环境必须替换
[oracle.providers]
local = "0x1f2e3d4c5b6a79880102030405060708090a0b0c0d0e0f101112131415161718"

[raffle]
throttlePolicy = "tiered"
minNewEntryCost = 0
callbackGas = 250000
feeRecipient = "1GXVzzgpszuWwhCSrc3jNXLmgfQD6wRyBM"
feePercent = 0
registryPolicy = "locked"

[metrics]
enableMetrics = false
duration = 60
`

// DefaultCfgString built-in defaults
func DefaultCfgString() string {
	return defaultCfg
}

// MergeConfig fills keys missing in conf from def, recursing into tables.
func MergeConfig(conf map[string]interface{}, def map[string]interface{}) {
	for key, value := range def {
		cur, ok := conf[key]
		if !ok {
			conf[key] = value
			continue
		}
		sub, ok1 := cur.(map[string]interface{})
		subdef, ok2 := value.(map[string]interface{})
		if ok1 && ok2 {
			MergeConfig(sub, subdef)
		}
	}
}

func mergeCfgString(cfgstring, cfgdefault string) (string, error) {
	def := make(map[string]interface{})
	if _, err := tml.Decode(cfgdefault, &def); err != nil {
		return "", err
	}
	conf := make(map[string]interface{})
	if _, err := tml.Decode(cfgstring, &conf); err != nil {
		return "", err
	}
	MergeConfig(conf, def)
	buf := new(bytes.Buffer)
	if err := tml.NewEncoder(buf).Encode(conf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func initCfgString(cfgstring string) (*Config, error) {
	var cfg Config
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// InitCfgString 初始化配置, 未配置的段落使用默认值
func InitCfgString(cfgstring string) (*Config, error) {
	merged, err := mergeCfgString(cfgstring, defaultCfg)
	if err != nil {
		return nil, err
	}
	return initCfgString(merged)
}

// InitCfg 初始化配置
func InitCfg(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return InitCfgString(string(data))
}
