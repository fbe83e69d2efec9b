// Copyright (c) 2024-2026, The LWNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package gateway

import (
	"time"

	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/types"
)

// CheckDutyCycle decides whether a downlink of payloadSize bytes at the
// given spreading factor would keep the channel's cumulative on-air
// percentage within its regulatory cap, were it transmitted at simulated
// time now. It does not mutate the ledger; the caller applies the returned
// airtime only after committing to the transmission.
//
// The channel must be one of the gateway's pre-registered channels.
func (gw *Gateway) CheckDutyCycle(payloadSize int, sf lorawan.SpreadingFactor, freq lorawan.Frequency, now uint64) (bool, time.Duration) {
	params := lorawan.Parameters{
		SpreadingFactor: sf,
		Frequency:       freq,
		Bandwidth:       lorawan.BW125k,
		CodingRate:      lorawan.CR4_5,
		PreambleLength:  8,
		CRC:             true,
	}
	timeOnAir := params.TimeOnAir(payloadSize)

	used, ok := gw.channelTimeUsed[freq]
	logger.AssertTruef(ok, "duty-cycle check on unregistered channel %d Hz", freq)

	// A never-used channel cannot violate the cap yet.
	if used == 0 {
		return true, timeOnAir
	}

	newOnTime := (used + timeOnAir).Seconds()
	newTotalTime := types.SecondsSinceStart(now) + timeOnAir.Seconds()
	newDutyCycle := newOnTime / newTotalTime * 100.0

	return newDutyCycle <= gw.band.DutyCycleCapPercent(freq), timeOnAir
}
