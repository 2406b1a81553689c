// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/raffle/metrics"
)

var (
	buyTickets       = metrics.Counter("raffle.buy.tickets")
	claimCount       = metrics.Counter("raffle.claim.count")
	drawRequested    = metrics.Counter("raffle.draw.requested")
	drawCompleted    = metrics.Counter("raffle.draw.completed")
	callbackRejected = metrics.Counter("raffle.callback.rejected")
	cancelCount      = metrics.Counter("raffle.cancel.count")
)
