// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"sort"
	"strings"
	"sync"

	log "github.com/inconshreveable/log15"
)

var mlog = log.New("module", "db.memdb")

// memdb 应该无需区分同步与异步操作

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoMemDB(name, dir, cache)
	}
	registerDBCreator(MemDBBackendStr, dbCreator, false)
}

// GoMemDB map backed db
type GoMemDB struct {
	db   map[string][]byte
	lock sync.RWMutex
}

// NewGoMemDB memdb 不需要创建文件
func NewGoMemDB(name string, dir string, cache int) (*GoMemDB, error) {
	return &GoMemDB{
		db: make(map[string][]byte),
	}, nil
}

// Get get
func (db *GoMemDB) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if entry, ok := db.db[string(key)]; ok {
		return CopyBytes(entry), nil
	}
	return nil, ErrNotFoundInDb
}

// Set nil value deletes the key
func (db *GoMemDB) Set(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	db.set(key, value)
	return nil
}

func (db *GoMemDB) set(key []byte, value []byte) {
	if value == nil {
		delete(db.db, string(key))
		return
	}
	db.db[string(key)] = CopyBytes(value)
}

// Delete delete
func (db *GoMemDB) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	delete(db.db, string(key))
	return nil
}

// Close nothing to release
func (db *GoMemDB) Close() {
	mlog.Debug("Close", "keys", len(db.db))
}

// Iterator snapshot of the keys with prefix, sorted
func (db *GoMemDB) Iterator(prefix []byte, reverse bool) Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	var keys []string
	for k := range db.db {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	return &goMemDBIt{index: 0, keys: keys, goMemDb: db, reverse: reverse}
}

type goMemDBIt struct {
	index   int      // 记录当前索引
	keys    []string // 按迭代方向排好序的 keys
	goMemDb *GoMemDB
	reverse bool
}

// Seek 正向指向第一个 >= key 的位置, 反向指向第一个 <= key 的位置
func (dbit *goMemDBIt) Seek(key []byte) bool {
	k := string(key)
	if dbit.reverse {
		dbit.index = sort.Search(len(dbit.keys), func(i int) bool { return dbit.keys[i] <= k })
	} else {
		dbit.index = sort.Search(len(dbit.keys), func(i int) bool { return dbit.keys[i] >= k })
	}
	return dbit.Valid()
}

func (dbit *goMemDBIt) Close() {}

func (dbit *goMemDBIt) Next() bool {
	dbit.index++
	return dbit.Valid()
}

func (dbit *goMemDBIt) Rewind() bool {
	dbit.index = 0
	return dbit.Valid()
}

func (dbit *goMemDBIt) Key() []byte {
	return []byte(dbit.keys[dbit.index])
}

func (dbit *goMemDBIt) Value() []byte {
	v, _ := dbit.goMemDb.Get([]byte(dbit.keys[dbit.index]))
	return v
}

func (dbit *goMemDBIt) ValueCopy() []byte {
	return dbit.Value()
}

func (dbit *goMemDBIt) Valid() bool {
	return dbit.index >= 0 && dbit.index < len(dbit.keys)
}

func (dbit *goMemDBIt) Error() error {
	return nil
}

type kv struct{ k, v []byte }

type memBatch struct {
	db     *GoMemDB
	writes []kv
}

// NewBatch new batch
func (db *GoMemDB) NewBatch(sync bool) Batch {
	return &memBatch{db: db}
}

func (b *memBatch) Set(key, value []byte) {
	b.writes = append(b.writes, kv{CopyBytes(key), CopyBytes(value)})
}

func (b *memBatch) Delete(key []byte) {
	b.writes = append(b.writes, kv{CopyBytes(key), nil})
}

func (b *memBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	for _, kv := range b.writes {
		b.db.set(kv.k, kv.v)
	}
	b.writes = nil
	return nil
}
