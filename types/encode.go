// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	sha "crypto/sha256"

	"github.com/fxamacker/cbor/v2"
)

// encMode is configured with Core Deterministic Encoding: the same value always
// encodes to the same bytes, so state writes and receipts are reproducible.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("types: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("types: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode cbor encode, panics on unsupported values
func Encode(data interface{}) []byte {
	b, err := encMode.Marshal(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode cbor decode
func Decode(data []byte, msg interface{}) error {
	return decMode.Unmarshal(data, msg)
}

// MustDecode decode or panic
func MustDecode(data []byte, v interface{}) {
	if data == nil {
		return
	}
	err := Decode(data, v)
	if err != nil {
		panic(err)
	}
}

func sha256(b []byte) []byte {
	h := sha.Sum256(b)
	return h[:]
}
