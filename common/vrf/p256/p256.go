// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package p256 implements a verifiable random function using curve p256.
package p256

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/33cn/raffle/common"
	vrfp "github.com/33cn/raffle/common/vrf"
)

var (
	curve  = elliptic.P256()
	params = curve.Params()
	// ErrInvalidVRF err
	ErrInvalidVRF = errors.New("invalid VRF proof")
	// ErrInvalidKey err
	ErrInvalidKey = errors.New("invalid VRF key")
	// ErrHashToCurve err
	ErrHashToCurve = errors.New("hash to curve failed")
)

const proofLen = 64 + 65

// PublicKey holds a public VRF key.
type PublicKey struct {
	*ecdsa.PublicKey
}

// PrivateKey holds a private VRF key.
type PrivateKey struct {
	*ecdsa.PrivateKey
}

// GenerateKey generates a fresh keypair for this VRF
func GenerateKey() (*PrivateKey, *PublicKey, error) {
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return &PrivateKey{PrivateKey: key}, &PublicKey{PublicKey: &key.PublicKey}, nil
}

// NewPrivateKey from a big endian scalar in [1, N-1]
func NewPrivateKey(scalar []byte) (*PrivateKey, error) {
	d := new(big.Int).SetBytes(scalar)
	if d.Sign() <= 0 || d.Cmp(params.N) >= 0 {
		return nil, ErrInvalidKey
	}
	key := new(ecdsa.PrivateKey)
	key.Curve = curve
	key.D = d
	key.PublicKey.X, key.PublicKey.Y = params.ScalarBaseMult(d.Bytes())
	return &PrivateKey{PrivateKey: key}, nil
}

// NewPrivateKeyFromHex hex encoded scalar, 0x prefix optional
func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := common.FromHex(s)
	if err != nil || len(b) == 0 {
		return nil, ErrInvalidKey
	}
	return NewPrivateKey(b)
}

// ParsePublicKey uncompressed point
func ParsePublicKey(b []byte) (*PublicKey, error) {
	x, y := elliptic.Unmarshal(curve, b)
	if x == nil {
		return nil, ErrInvalidKey
	}
	return &PublicKey{PublicKey: &ecdsa.PublicKey{Curve: curve, X: x, Y: y}}, nil
}

// Bytes uncompressed encoding
func (pk *PublicKey) Bytes() []byte {
	return elliptic.Marshal(curve, pk.X, pk.Y)
}

// Public returns the corresponding public key.
func (k *PrivateKey) Public() crypto.PublicKey {
	return &PublicKey{PublicKey: &k.PrivateKey.PublicKey}
}

// VrfPublicKey typed accessor
func (k *PrivateKey) VrfPublicKey() *PublicKey {
	return &PublicKey{PublicKey: &k.PrivateKey.PublicKey}
}

// decompress y from x with y parity bit. p = 3 mod 4 so sqrt(a) = a^((p+1)/4)
func decompress(x *big.Int, odd bool) (*big.Int, *big.Int) {
	if x.Cmp(params.P) >= 0 {
		return nil, nil
	}
	// y² = x³ - 3x + b
	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)
	threeX := new(big.Int).Lsh(x, 1)
	threeX.Add(threeX, x)
	y2 := new(big.Int).Sub(x3, threeX)
	y2.Add(y2, params.B)
	y2.Mod(y2, params.P)

	exp := new(big.Int).Add(params.P, big.NewInt(1))
	exp.Rsh(exp, 2)
	y := new(big.Int).Exp(y2, exp, params.P)
	if new(big.Int).Mod(new(big.Int).Mul(y, y), params.P).Cmp(y2) != 0 {
		return nil, nil
	}
	if (y.Bit(0) == 1) != odd {
		y.Sub(params.P, y)
	}
	return x, y
}

// H1 hashes m to a curve point
func H1(m []byte) (x, y *big.Int, err error) {
	h := sha512.New()
	byteLen := (params.BitSize + 7) >> 3
	var ctr [4]byte
	for i := uint32(0); i < 100; i++ {
		h.Reset()
		binary.BigEndian.PutUint32(ctr[:], i)
		h.Write(ctr[:])
		h.Write(m)
		sum := h.Sum(nil)
		x, y = decompress(new(big.Int).SetBytes(sum[:byteLen]), false)
		if x != nil {
			return x, y, nil
		}
	}
	return nil, nil, ErrHashToCurve
}

var one = big.NewInt(1)

// H2 hashes to an integer [1,N-1]
func H2(m []byte) *big.Int {
	// NIST SP 800-90A § A.5.1: Simple discard method.
	byteLen := (params.BitSize + 7) >> 3
	h := sha512.New()
	nMinus1 := new(big.Int).Sub(params.N, one)
	var ctr [4]byte
	for i := uint32(0); ; i++ {
		h.Reset()
		binary.BigEndian.PutUint32(ctr[:], i)
		h.Write(ctr[:])
		h.Write(m)
		k := new(big.Int).SetBytes(h.Sum(nil)[:byteLen])
		if k.Cmp(nMinus1) == -1 {
			return k.Add(k, one)
		}
	}
}

// transcript s = H2(G, H, [k]G, VRF, [r]G, [r]H)
func transcript(points ...*big.Int) *big.Int {
	var b bytes.Buffer
	for i := 0; i+1 < len(points); i += 2 {
		b.Write(elliptic.Marshal(curve, points[i], points[i+1]))
	}
	return H2(b.Bytes())
}

func pad32(n *big.Int) []byte {
	out := make([]byte, 32)
	n.FillBytes(out)
	return out
}

// Evaluate returns the verifiable unpredictable function evaluated at m
func (k *PrivateKey) Evaluate(m []byte) (index [32]byte, proof []byte, err error) {
	// Prover chooses r <-- [1,N-1]
	r, _, _, err := elliptic.GenerateKey(curve, rand.Reader)
	if err != nil {
		return index, nil, err
	}
	ri := new(big.Int).SetBytes(r)

	Hx, Hy, err := H1(m)
	if err != nil {
		return index, nil, err
	}
	// VRF_k(m) = [k]H
	vx, vy := params.ScalarMult(Hx, Hy, k.D.Bytes())
	rGx, rGy := params.ScalarBaseMult(r)
	rHx, rHy := params.ScalarMult(Hx, Hy, r)
	s := transcript(params.Gx, params.Gy, Hx, Hy, k.X, k.Y, vx, vy, rGx, rGy, rHx, rHy)

	// t = r−s*k mod N
	t := new(big.Int).Sub(ri, new(big.Int).Mul(s, k.D))
	t.Mod(t, params.N)

	vrf := elliptic.Marshal(curve, vx, vy) // 65 bytes.
	proof = make([]byte, 0, proofLen)
	proof = append(proof, pad32(s)...)
	proof = append(proof, pad32(t)...)
	proof = append(proof, vrf...)
	return sha256.Sum256(vrf), proof, nil
}

// ProofToHash asserts that proof is correct for m and outputs index.
func (pk *PublicKey) ProofToHash(m, proof []byte) (index [32]byte, err error) {
	if len(proof) != proofLen {
		return index, ErrInvalidVRF
	}
	s := proof[0:32]
	t := proof[32:64]
	vrf := proof[64:proofLen]

	vx, vy := elliptic.Unmarshal(curve, vrf)
	if vx == nil {
		return index, ErrInvalidVRF
	}
	Hx, Hy, err := H1(m)
	if err != nil {
		return index, err
	}

	// [t]G + [s]([k]G) = [t+ks]G = [r]G
	tGx, tGy := params.ScalarBaseMult(t)
	ksGx, ksGy := params.ScalarMult(pk.X, pk.Y, s)
	rGx, rGy := params.Add(tGx, tGy, ksGx, ksGy)

	// [t]H + [s]VRF = [t+ks]H = [r]H
	tHx, tHy := params.ScalarMult(Hx, Hy, t)
	sHx, sHy := params.ScalarMult(vx, vy, s)
	rHx, rHy := params.Add(tHx, tHy, sHx, sHy)

	h2 := transcript(params.Gx, params.Gy, Hx, Hy, pk.X, pk.Y, vx, vy, rGx, rGy, rHx, rHy)
	if !hmac.Equal(s, pad32(h2)) {
		return index, ErrInvalidVRF
	}
	return sha256.Sum256(vrf), nil
}

var (
	_ vrfp.PrivateKey = (*PrivateKey)(nil)
	_ vrfp.PublicKey  = (*PublicKey)(nil)
)
