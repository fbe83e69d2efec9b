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

// Package gateway models the receiving station of a LoRaWAN network inside
// the simulator. On each uplink arrival it runs the link-budget filter,
// tracks per-transmitter SNR history, executes the network-side ADR
// algorithm and picks a duty-cycle-admissible downlink window.
//
// The gateway is driven synchronously by the dispatcher's event loop; one
// Receive call runs to completion before the next, so no locking is needed.
package gateway

import (
	"time"

	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/radiomodel"
	"github.com/lwns-sim/lwns/types"
)

// DownlinkPayloadSize is the payload size (bytes) assumed for every
// downlink when evaluating duty-cycle admissibility.
const DownlinkPayloadSize = 12

// Transmitter is the gateway's view of an uplink sender: a stable identity,
// a position, and the radio settings the transmitter currently operates
// with. The latter are what ADR proposals are computed against.
type Transmitter interface {
	Id() types.NodeId
	Location() types.Location
	Parameters() lorawan.Parameters
}

// DownlinkDecision is the outcome of one uplink reception. It is ephemeral;
// the simulation engine hands it to the transmitter and drops it.
type DownlinkDecision struct {
	// WeakPacket is set when the uplink arrived below the sensitivity floor
	// and was discarded without further processing.
	WeakPacket bool

	// TxOnRx1 tells which reply window was chosen: the RX1 window on the
	// uplink's own channel, or the fixed RX2 window.
	TxOnRx1 bool

	// Lost is set when neither reply window was duty-cycle-admissible.
	Lost bool

	// Proposal carries the new ADR settings for the transmitter, when its
	// SNR history window was full. Nil otherwise.
	Proposal *AdrProposal
}

// Gateway is the receiving station. It owns the per-transmitter SNR
// histories and the per-channel duty-cycle ledgers for one simulation run.
type Gateway struct {
	location    types.Location
	band        *lorawan.Band
	radioModel  radiomodel.RadioModel
	adrMarginDb types.DbValue

	history         map[types.NodeId]*snrHistory
	channelTimeUsed map[lorawan.Frequency]time.Duration

	numPacketsReceived  int
	downlinkPacketsLost []lorawan.Packet
	uplinkPacketsWeak   []lorawan.Packet
}

// NewGateway creates a gateway at the given location for one band. All
// channel ledgers of the band are seeded to zero so that later lookups can
// never miss.
func NewGateway(location types.Location, band *lorawan.Band, rm radiomodel.RadioModel, adrMarginDb types.DbValue) *Gateway {
	gw := &Gateway{
		location:        location,
		band:            band,
		radioModel:      rm,
		adrMarginDb:     adrMarginDb,
		history:         make(map[types.NodeId]*snrHistory),
		channelTimeUsed: make(map[lorawan.Frequency]time.Duration),
	}
	for _, ch := range band.Channels() {
		gw.channelTimeUsed[ch.Frequency] = 0
	}
	return gw
}

// Receive handles one uplink arriving at the gateway at simulated time now.
// The packet is already past the air interface: it did not collide and is
// fully received. Receive filters it against the sensitivity floor, updates
// the transmitter's SNR history, runs ADR and selects the reply window.
func (gw *Gateway) Receive(tx Transmitter, packet *lorawan.Packet, now uint64) DownlinkDecision {
	dist := gw.location.DistanceTo(tx.Location())
	rss := gw.radioModel.TxPowerToRss(packet.Params.TxPowerDbm, dist)
	if rss < lorawan.SensitivityDbm(packet.Params.SpreadingFactor) {
		gw.uplinkPacketsWeak = append(gw.uplinkPacketsWeak, *packet)
		logger.Debugf("gw: weak uplink from node %d (rss %.1f dBm at SF%d)",
			tx.Id(), rss, packet.Params.SpreadingFactor)
		return DownlinkDecision{WeakPacket: true}
	}

	gw.numPacketsReceived++

	hist := gw.history[tx.Id()]
	if hist == nil {
		hist = &snrHistory{}
		gw.history[tx.Id()] = hist
	}
	hist.Add(gw.radioModel.RssToSnr(rss))

	proposal := computeAdr(hist, tx.Parameters(), gw.band, gw.adrMarginDb)

	// Evaluate both reply windows up front; the chosen one's ledger is
	// charged below.
	possibleRx1, timeOnAirRx1 := gw.CheckDutyCycle(DownlinkPayloadSize,
		packet.Params.SpreadingFactor, packet.Params.Frequency, now)
	possibleRx2, timeOnAirRx2 := gw.CheckDutyCycle(DownlinkPayloadSize,
		gw.band.RX2SpreadingFactor(), gw.band.RX2Channel.Frequency, now)

	txOnRx1 := false
	lost := false

	if packet.Params.DataRate > 3 {
		// A fast link: reply on the same channel with the same data rate.
		if possibleRx1 {
			txOnRx1 = true
		} else if !possibleRx2 {
			lost = true
		}
	} else {
		// A slow link: prefer the more robust RX2 window at 27 dBm.
		if !possibleRx2 {
			if possibleRx1 {
				txOnRx1 = true
			} else {
				lost = true
			}
		}
	}

	if lost {
		gw.downlinkPacketsLost = append(gw.downlinkPacketsLost, *packet)
		logger.Debugf("gw: downlink to node %d lost, both windows over duty cycle", tx.Id())
	} else if txOnRx1 {
		gw.channelTimeUsed[packet.Params.Frequency] += timeOnAirRx1
	} else {
		gw.channelTimeUsed[gw.band.RX2Channel.Frequency] += timeOnAirRx2
	}

	return DownlinkDecision{
		TxOnRx1:  txOnRx1,
		Lost:     lost,
		Proposal: proposal,
	}
}

// HistoryLen gets the number of SNR samples currently held for a
// transmitter; zero when the transmitter was never heard.
func (gw *Gateway) HistoryLen(id types.NodeId) int {
	if h := gw.history[id]; h != nil {
		return h.Len()
	}
	return 0
}

// Location gets the gateway's position.
func (gw *Gateway) Location() types.Location {
	return gw.location
}

// SetRadioModel swaps the propagation model used for future uplinks.
func (gw *Gateway) SetRadioModel(rm radiomodel.RadioModel) {
	logger.AssertNotNil(rm)
	gw.radioModel = rm
}

// AdrMargin gets the installation margin used by the ADR controller.
func (gw *Gateway) AdrMargin() types.DbValue {
	return gw.adrMarginDb
}

// SetAdrMargin changes the installation margin for future ADR runs.
func (gw *Gateway) SetAdrMargin(marginDb types.DbValue) {
	gw.adrMarginDb = marginDb
}
