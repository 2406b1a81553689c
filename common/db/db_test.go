// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"fmt"
	"testing"

	"github.com/33cn/raffle/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackends(t *testing.T) map[string]DB {
	mem, err := NewDB("test", MemDBBackendStr, "", 0)
	require.NoError(t, err)
	level, err := NewDB("test", GoLevelDBBackendStr, t.TempDir(), 16)
	require.NoError(t, err)
	t.Cleanup(level.Close)
	return map[string]DB{"memdb": mem, "goleveldb": level}
}

func TestUnknownBackend(t *testing.T) {
	_, err := NewDB("x", "rocksdb", "", 0)
	assert.Error(t, err)
}

func TestBackendGetSetDelete(t *testing.T) {
	for name, db := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.Get([]byte("a"))
			assert.Equal(t, ErrNotFoundInDb, err)

			require.NoError(t, db.Set([]byte("a"), []byte("1")))
			v, err := db.Get([]byte("a"))
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), v)

			require.NoError(t, db.Delete([]byte("a")))
			_, err = db.Get([]byte("a"))
			assert.Equal(t, ErrNotFoundInDb, err)

			batch := db.NewBatch(true)
			batch.Set([]byte("b"), []byte("2"))
			batch.Set([]byte("c"), []byte("3"))
			batch.Delete([]byte("b"))
			require.NoError(t, batch.Write())
			_, err = db.Get([]byte("b"))
			assert.Equal(t, ErrNotFoundInDb, err)
			v, err = db.Get([]byte("c"))
			require.NoError(t, err)
			assert.Equal(t, []byte("3"), v)
		})
	}
}

func fill(t *testing.T, db DB) {
	for i := 0; i < 10; i++ {
		require.NoError(t, db.Set([]byte(fmt.Sprintf("key:%02d", i)), []byte(fmt.Sprintf("v%02d", i))))
	}
	require.NoError(t, db.Set([]byte("other:00"), []byte("x")))
}

func TestIteratorPrefixAndSeek(t *testing.T) {
	for name, db := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			fill(t, db)

			it := db.Iterator([]byte("key:"), false)
			var n int
			for it.Rewind(); it.Valid(); it.Next() {
				n++
			}
			it.Close()
			assert.Equal(t, 10, n)

			it = db.Iterator([]byte("key:"), true)
			require.True(t, it.Rewind())
			assert.Equal(t, "key:09", string(it.Key()))
			require.True(t, it.Seek([]byte("key:05")))
			assert.Equal(t, "key:05", string(it.Key()))
			// reverse seek of a missing key lands on the previous one
			require.True(t, it.Seek([]byte("key:05x")))
			assert.Equal(t, "key:05", string(it.Key()))
			it.Close()

			it = db.Iterator([]byte("key:"), false)
			require.True(t, it.Seek([]byte("key:05x")))
			assert.Equal(t, "key:06", string(it.Key()))
			it.Close()
		})
	}
}

func TestListHelper(t *testing.T) {
	for name, db := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			fill(t, db)
			l := NewListHelper(db)

			values := l.List([]byte("key:"), nil, 3, ListASC)
			assert.Equal(t, [][]byte{[]byte("v00"), []byte("v01"), []byte("v02")}, values)

			values = l.List([]byte("key:"), nil, 2, ListDESC)
			assert.Equal(t, [][]byte{[]byte("v09"), []byte("v08")}, values)

			values = l.List([]byte("key:"), []byte("key:02"), 2, ListASC)
			assert.Equal(t, [][]byte{[]byte("v03"), []byte("v04")}, values)

			values = l.List([]byte("key:"), []byte("key:02"), 5, ListDESC)
			assert.Equal(t, [][]byte{[]byte("v01"), []byte("v00")}, values)

			assert.Len(t, l.List([]byte("key:"), nil, 0, ListASC), 10)
		})
	}
}

func TestNormalizeCount(t *testing.T) {
	assert.Equal(t, DefaultCount, NormalizeCount(0))
	assert.Equal(t, MaxCount, NormalizeCount(1000))
	assert.Equal(t, int32(7), NormalizeCount(7))
}

func TestStateDBRollback(t *testing.T) {
	backend, err := NewGoMemDB("state", "", 0)
	require.NoError(t, err)
	require.NoError(t, backend.Set([]byte("mavl-a"), []byte("1")))
	s := NewStateDB(backend)

	s.Begin()
	require.NoError(t, s.Set([]byte("mavl-a"), []byte("2")))
	require.NoError(t, s.Set([]byte("mavl-b"), []byte("3")))
	v, err := s.Get([]byte("mavl-a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
	s.Rollback()

	v, err = s.Get([]byte("mavl-a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	_, err = s.Get([]byte("mavl-b"))
	assert.Equal(t, types.ErrNotFound, err)
}

func TestStateDBCommitFlush(t *testing.T) {
	backend, err := NewGoMemDB("state", "", 0)
	require.NoError(t, err)
	require.NoError(t, backend.Set([]byte("mavl-gone"), []byte("x")))
	s := NewStateDB(backend)

	s.Begin()
	require.NoError(t, s.Set([]byte("mavl-a"), []byte("1")))
	require.NoError(t, s.Set([]byte("mavl-a"), []byte("2")))
	require.NoError(t, s.Set([]byte("mavl-gone"), nil))
	assert.Equal(t, []string{"mavl-a", "mavl-gone"}, s.GetSetKeys())
	_, err = s.Get([]byte("mavl-gone"))
	assert.Equal(t, types.ErrNotFound, err)
	assert.Error(t, s.Flush())
	s.Commit()

	require.NoError(t, s.Flush())
	v, err := backend.Get([]byte("mavl-a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
	_, err = backend.Get([]byte("mavl-gone"))
	assert.Equal(t, ErrNotFoundInDb, err)
}

func TestLocalDB(t *testing.T) {
	backend, err := NewGoMemDB("local", "", 0)
	require.NoError(t, err)
	l := NewLocalDB(backend)
	_, err = l.Get([]byte("LODB-x"))
	assert.Equal(t, types.ErrNotFound, err)

	require.NoError(t, l.WriteSet(&types.LocalDBSet{KV: []*types.KeyValue{
		{Key: []byte("LODB-x-1"), Value: []byte("a")},
		{Key: []byte("LODB-x-2"), Value: []byte("b")},
	}}))
	values, err := l.List([]byte("LODB-x-"), nil, 10, ListDESC)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("b"), []byte("a")}, values)

	_, err = l.List([]byte("LODB-y-"), nil, 10, ListDESC)
	assert.Equal(t, types.ErrNotFound, err)
}
