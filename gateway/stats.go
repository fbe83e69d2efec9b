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
	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/types"
)

// Stats is a read-only snapshot of the gateway's counters, taken at a given
// simulated time. How it is rendered is up to the caller.
type Stats struct {
	Received     int `json:"received" yaml:"received"`
	UplinkWeak   int `json:"uplink_weak" yaml:"uplinkweak"`
	DownlinkLost int `json:"downlink_lost" yaml:"downlinklost"`

	// ChannelUtilizationPercent is the share of elapsed simulated time each
	// channel spent on air. All zeros when no time has elapsed yet.
	ChannelUtilizationPercent map[lorawan.Frequency]float64 `json:"channel_utilization_percent" yaml:"channelutilizationpercent"`
}

// Stats takes a snapshot of the gateway counters at simulated time now.
func (gw *Gateway) Stats(now uint64) Stats {
	st := Stats{
		Received:                  gw.numPacketsReceived,
		UplinkWeak:                len(gw.uplinkPacketsWeak),
		DownlinkLost:              len(gw.downlinkPacketsLost),
		ChannelUtilizationPercent: make(map[lorawan.Frequency]float64, len(gw.channelTimeUsed)),
	}
	elapsed := types.SecondsSinceStart(now)
	for freq, used := range gw.channelTimeUsed {
		if elapsed > 0 {
			st.ChannelUtilizationPercent[freq] = used.Seconds() / elapsed * 100.0
		} else {
			st.ChannelUtilizationPercent[freq] = 0
		}
	}
	return st
}
