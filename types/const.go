// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

//log type
const (
	TyLogErr = 1
	//coins
	TyLogTransfer = 3
	TyLogGenesis  = 4
	TyLogApprove  = 5
)

// MaxTokenBalance upper bound of a single balance
const MaxTokenBalance int64 = 900 * 1e8 * 1e8

//exec type
const (
	ExecErr = 0
	ExecOk  = 2
)

// key prefixes
const (
	// StatePrefix consensus state, rolled back with the transaction
	StatePrefix = "mavl-"
	// LocalPrefix local query index, written after commit
	LocalPrefix = "LODB-"
)

// CalcStatePrefix mavl-<execer>-
func CalcStatePrefix(execer string) []byte {
	return []byte(StatePrefix + execer + "-")
}

// CalcLocalPrefix LODB-<execer>-
func CalcLocalPrefix(execer string) []byte {
	return []byte(LocalPrefix + execer + "-")
}
