// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package address base58check 地址. 账户, 合约实例, 预言机和工厂都没有私钥,
// 地址统一由名字或者派生参数计算
package address

import (
	"bytes"
	"errors"
	"strings"

	"github.com/33cn/raffle/common"
	"github.com/decred/base58"
	lru "github.com/hashicorp/golang-lru"
)

// MaxNameLength 派生名字的最大长度
const MaxNameLength = 100

const (
	addrLen     = 25
	checksumLen = 4
)

var addrSeed = []byte("address seed bytes for public key")

var (
	// ErrDecode base58 decode failed
	ErrDecode = errors.New("ErrAddressDecode")
	// ErrTooShort decoded payload shorter than 25 bytes
	ErrTooShort = errors.New("ErrAddressTooShort")
	// ErrChecksum checksum mismatch
	ErrChecksum = errors.New("ErrAddressChecksum")
	// ErrEmpty empty address string
	ErrEmpty = errors.New("ErrAddressEmpty")
	// ErrNameTooLong derivation name over MaxNameLength
	ErrNameTooLong = errors.New("ErrAddressNameTooLong")
)

var (
	nameCache, _  = lru.New(10240)
	checkCache, _ = lru.New(10240)
)

// Address version byte + hash160
type Address struct {
	Version byte
	Hash160 [20]byte
}

// FromPubKey hash160(sha256(pubkey)), version 0
func FromPubKey(pub []byte) *Address {
	return &Address{Hash160: common.Rimp160AfterSha256(pub)}
}

func (a *Address) String() string {
	var raw [addrLen]byte
	raw[0] = a.Version
	copy(raw[1:21], a.Hash160[:])
	sum := common.Sha2Sum(raw[:21])
	copy(raw[21:], sum[:checksumLen])
	return base58.Encode(raw[:])
}

// Parse base58check decode
func Parse(s string) (*Address, error) {
	if s == "" {
		return nil, ErrEmpty
	}
	raw := base58.Decode(s)
	if len(raw) == 0 {
		return nil, ErrDecode
	}
	if len(raw) < addrLen {
		alog.Debug("Parse", "addr", s, "len", len(raw))
		return nil, ErrTooShort
	}
	sum := common.Sha2Sum(raw[:21])
	if !bytes.Equal(sum[:checksumLen], raw[21:addrLen]) {
		return nil, ErrChecksum
	}
	a := &Address{Version: raw[0]}
	copy(a.Hash160[:], raw[1:21])
	return a, nil
}

// ExecAddress 名字派生的地址, 结果缓存
func ExecAddress(name string) string {
	if v, ok := nameCache.Get(name); ok {
		return v.(string)
	}
	if len(name) > MaxNameLength {
		panic(ErrNameTooLong)
	}
	pub := common.Sha2Sum(append(append([]byte{}, addrSeed...), name...))
	addr := FromPubKey(pub[:]).String()
	nameCache.Add(name, addr)
	return addr
}

// Derive 由若干参数派生地址, 例如 (工厂, 创建者, salt) 决定实例地址
func Derive(parts ...string) string {
	h := common.Sha256([]byte(strings.Join(parts, ":")))
	return FromPubKey(h).String()
}

// CheckAddress nil when addr is a valid base58check address
func CheckAddress(addr string) error {
	if addr == "" {
		return ErrEmpty
	}
	if v, ok := checkCache.Get(addr); ok {
		if v == nil {
			return nil
		}
		return v.(error)
	}
	_, err := Parse(addr)
	checkCache.Add(addr, err)
	return err
}
