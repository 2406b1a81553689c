// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"sort"

	"github.com/33cn/raffle/types"
	"github.com/pkg/errors"
)

// StateDB 状态数据库: 交易缓存(txcache) -> 已提交缓存(cache) -> 后端存储
// 一个交易内的写入在 Rollback 时全部丢弃
type StateDB struct {
	cache   map[string][]byte
	txcache map[string][]byte
	keys    []string
	intx    bool
	backend DB
}

// NewStateDB new state db
func NewStateDB(backend DB) *StateDB {
	return &StateDB{
		cache:   make(map[string][]byte),
		backend: backend,
	}
}

// Begin 开启内存事务处理
func (s *StateDB) Begin() {
	s.intx = true
	s.keys = nil
	s.txcache = nil
}

// Rollback reset tx
func (s *StateDB) Rollback() {
	s.resetTx()
}

// Commit canche tx
func (s *StateDB) Commit() {
	for k, v := range s.txcache {
		s.cache[k] = v
	}
	s.resetTx()
}

func (s *StateDB) resetTx() {
	s.intx = false
	s.txcache = nil
	s.keys = nil
}

// Get get value from state db
func (s *StateDB) Get(key []byte) ([]byte, error) {
	skey := string(key)
	if s.intx && s.txcache != nil {
		if value, ok := s.txcache[skey]; ok {
			return notNil(value)
		}
	}
	if value, ok := s.cache[skey]; ok {
		return notNil(value)
	}
	if s.backend == nil {
		return nil, types.ErrNotFound
	}
	value, err := s.backend.Get(key)
	if err == ErrNotFoundInDb {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "StateDB.Get")
	}
	//get 的值可以写入cache，因为没有对系统的值做修改
	s.cache[skey] = value
	return value, nil
}

// nil 表示已删除
func notNil(value []byte) ([]byte, error) {
	if value == nil {
		return nil, types.ErrNotFound
	}
	return value, nil
}

// Set set key value to state db, nil value deletes
func (s *StateDB) Set(key []byte, value []byte) error {
	skey := string(key)
	if s.intx {
		if s.txcache == nil {
			s.txcache = make(map[string][]byte)
		}
		s.keys = append(s.keys, skey)
		s.txcache[skey] = value
	} else {
		s.cache[skey] = value
	}
	return nil
}

// GetSetKeys get state db set keys, de-duplicated in write order
func (s *StateDB) GetSetKeys() (keys []string) {
	seen := make(map[string]bool, len(s.keys))
	for _, k := range s.keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// Flush writes committed cache into the backend in one batch
func (s *StateDB) Flush() error {
	if s.intx {
		return errors.New("StateDB.Flush: transaction in progress")
	}
	if s.backend == nil || len(s.cache) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	batch := s.backend.NewBatch(true)
	for _, k := range keys {
		v := s.cache[k]
		if v == nil {
			batch.Delete([]byte(k))
			continue
		}
		batch.Set([]byte(k), v)
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "StateDB.Flush")
	}
	s.cache = make(map[string][]byte)
	return nil
}

// LocalDB local index writes go straight to the backend after a commit
type LocalDB struct {
	DB
}

// NewLocalDB new local db
func NewLocalDB(backend DB) *LocalDB {
	return &LocalDB{DB: backend}
}

// Get not found maps to types.ErrNotFound
func (l *LocalDB) Get(key []byte) ([]byte, error) {
	v, err := l.DB.Get(key)
	if err == ErrNotFoundInDb {
		return nil, types.ErrNotFound
	}
	return v, err
}

// WriteSet applies a local db set in one batch
func (l *LocalDB) WriteSet(set *types.LocalDBSet) error {
	if set == nil || len(set.KV) == 0 {
		return nil
	}
	batch := l.NewBatch(true)
	for _, kv := range set.KV {
		if kv.Value == nil {
			batch.Delete(kv.Key)
			continue
		}
		batch.Set(kv.Key, kv.Value)
	}
	return batch.Write()
}

// List 分页查询
func (l *LocalDB) List(prefix, key []byte, count, direction int32) ([][]byte, error) {
	values := NewListHelper(l.DB).List(prefix, key, count, direction)
	if values == nil {
		return nil, types.ErrNotFound
	}
	return values, nil
}
