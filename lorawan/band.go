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

package lorawan

import (
	"github.com/simonlingoogle/go-simplelogger"

	"github.com/lwns-sim/lwns/types"
)

// Channel is one radio channel of a regional band plan, with its regulatory
// duty-cycle cap.
type Channel struct {
	Frequency        Frequency
	DutyCyclePercent float64
}

// Band is a regional band plan: the uplink channels a device may transmit
// on, the fixed RX2 downlink window parameters, and the regulatory transmit
// power limits that bound ADR adjustments.
type Band struct {
	Name string

	// UplinkChannels are the default channels every device supports.
	UplinkChannels []Channel

	// RX2 downlink window: fixed frequency, data rate and transmit power.
	RX2Channel  Channel
	RX2DataRate DataRate
	RX2PowerDbm types.DbValue

	// ADR transmit power bounds (dBm).
	TxPowerMinDbm types.DbValue
	TxPowerMaxDbm types.DbValue

	MaxDataRate DataRate
}

// EU868 gets the band plan for the EU 863-870 MHz ISM band: three default
// 1% duty-cycle uplink channels, and RX2 on 869.525 MHz in the 10% sub-band
// transmitted at 27 dBm.
func EU868() *Band {
	return &Band{
		Name: "EU868",
		UplinkChannels: []Channel{
			{Frequency: 868100000 * Hertz, DutyCyclePercent: 1.0},
			{Frequency: 868300000 * Hertz, DutyCyclePercent: 1.0},
			{Frequency: 868500000 * Hertz, DutyCyclePercent: 1.0},
		},
		RX2Channel:    Channel{Frequency: 869525000 * Hertz, DutyCyclePercent: 10.0},
		RX2DataRate:   DR0,
		RX2PowerDbm:   27,
		TxPowerMinDbm: 2,
		TxPowerMaxDbm: 14,
		MaxDataRate:   DR5,
	}
}

// RX2SpreadingFactor gets the spreading factor of the fixed RX2 window.
func (b *Band) RX2SpreadingFactor() SpreadingFactor {
	return b.RX2DataRate.SpreadingFactor()
}

// Channels gets all channels of the band the gateway may transmit or receive
// on: the uplink channels plus the RX2 downlink channel.
func (b *Band) Channels() []Channel {
	chans := make([]Channel, 0, len(b.UplinkChannels)+1)
	chans = append(chans, b.UplinkChannels...)
	for _, ch := range chans {
		if ch.Frequency == b.RX2Channel.Frequency {
			return chans
		}
	}
	return append(chans, b.RX2Channel)
}

// DutyCycleCapPercent gets the duty-cycle cap for a channel frequency of the
// band. An unknown frequency is a configuration error.
func (b *Band) DutyCycleCapPercent(freq Frequency) float64 {
	for _, ch := range b.Channels() {
		if ch.Frequency == freq {
			return ch.DutyCyclePercent
		}
	}
	simplelogger.Panicf("frequency %d Hz is not a channel of band %s", freq, b.Name)
	return 0
}
