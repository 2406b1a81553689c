// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db 存储后端(memdb, goleveldb)以及状态数据库的事务封装
package db

import (
	"errors"
	"fmt"
)

// ErrNotFoundInDb key 不存在
var ErrNotFoundInDb = errors.New("ErrNotFoundInDb")

// KV 状态读写接口，在一个交易内可以回滚
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
	Begin()
	Rollback()
	Commit()
}

// KVDB 简单的 key value 读写
type KVDB interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
}

// IteratorDB 支持前缀迭代
type IteratorDB interface {
	Iterator(prefix []byte, reverse bool) Iterator
}

// DB 存储后端
type DB interface {
	KVDB
	IteratorDB
	Delete(key []byte) error
	NewBatch(sync bool) Batch
	Close()
}

// Batch 批量写
type Batch interface {
	Set(key, value []byte)
	Delete(key []byte)
	Write() error
}

// Iterator 前缀迭代器
type Iterator interface {
	Rewind() bool
	Seek(key []byte) bool
	Next() bool
	Valid() bool
	Key() []byte
	Value() []byte
	ValueCopy() []byte
	Error() error
	Close()
}

//-----------------------------------------------------------------------------

// backend names
const (
	LevelDBBackendStr   = "leveldb" // legacy, defaults to goleveldb.
	GoLevelDBBackendStr = "goleveldb"
	MemDBBackendStr     = "memdb"
)

type dbCreator func(name string, dir string, cache int) (DB, error)

var backends = map[string]dbCreator{}

func registerDBCreator(backend string, creator dbCreator, force bool) {
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

// NewDB open a backend by name
func NewDB(name string, backend string, dir string, cache int) (DB, error) {
	creator, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown db backend %s", backend)
	}
	return creator(name, dir, cache)
}

// CopyBytes copy
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return copiedBytes
}
