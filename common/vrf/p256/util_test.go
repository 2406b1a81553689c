// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package p256

import (
	"testing"

	"github.com/33cn/raffle/common/vrf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GenerateKey(t *testing.T) {
	k, pk, err := GenerateKey()
	require.NoError(t, err)
	testVRF(t, k, pk)
}

func Test_KeyFromHex(t *testing.T) {
	k, err := NewPrivateKeyFromHex("0x1f2e3d4c5b6a79880102030405060708090a0b0c0d0e0f101112131415161718")
	require.NoError(t, err)
	pub, err := ParsePublicKey(k.VrfPublicKey().Bytes())
	require.NoError(t, err)
	testVRF(t, k, pub)

	_, err = NewPrivateKeyFromHex("")
	assert.Equal(t, ErrInvalidKey, err)
	_, err = NewPrivateKeyFromHex("00")
	assert.Equal(t, ErrInvalidKey, err)
	_, err = ParsePublicKey([]byte{4, 1, 2})
	assert.Equal(t, ErrInvalidKey, err)
}

func Test_H1OnCurve(t *testing.T) {
	for _, m := range []string{"", "a", "raffle", "seed-123"} {
		x, y, err := H1([]byte(m))
		require.NoError(t, err)
		assert.True(t, curve.IsOnCurve(x, y), m)
	}
}

func testVRF(t *testing.T, priv vrf.PrivateKey, pub vrf.PublicKey) {
	m1 := []byte("data1")
	m2 := []byte("data2")
	m3 := []byte("data2")
	hash1, proof1, err := priv.Evaluate(m1)
	require.NoError(t, err)
	hash2, proof2, err := priv.Evaluate(m2)
	require.NoError(t, err)
	hash3, proof3, err := priv.Evaluate(m3)
	require.NoError(t, err)
	// the output is deterministic even though the proofs are randomised
	assert.Equal(t, hash2, hash3)
	for _, tc := range []struct {
		m     []byte
		hash  [32]byte
		proof []byte
		err   error
	}{
		{m1, hash1, proof1, nil},
		{m2, hash2, proof2, nil},
		{m3, hash3, proof3, nil},
		{m3, hash3, proof2, nil},
		{m3, hash3, proof1, ErrInvalidVRF},
		{m1, hash1, proof1[:10], ErrInvalidVRF},
	} {
		hash, err := pub.ProofToHash(tc.m, tc.proof)
		assert.Equal(t, tc.err, err)
		if err != nil {
			continue
		}
		assert.Equal(t, tc.hash, hash)
	}
}
