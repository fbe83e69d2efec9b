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

// Package node models a LoRaWAN end device: it transmits periodic uplinks
// with some jitter on a random default channel, and applies the ADR settings
// the gateway proposes in downlinks.
package node

import (
	"math/rand"
	"time"

	"github.com/lwns-sim/lwns/gateway"
	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/prng"
	"github.com/lwns-sim/lwns/types"
)

const (
	// DefaultUplinkInterval is the mean time between two uplinks of a node.
	DefaultUplinkInterval = 60 * time.Second

	// DefaultPayloadSize is the uplink payload size (bytes).
	DefaultPayloadSize = 20

	// uplinkJitter is the relative spread around the uplink interval; each
	// delay is drawn uniformly from [1-j, 1+j] times the interval.
	uplinkJitter = 0.1
)

// Counters holds the per-node traffic counters of one run.
type Counters struct {
	UplinksSent   int `json:"uplinks_sent" yaml:"uplinkssent"`
	DownlinksRx1  int `json:"downlinks_rx1" yaml:"downlinksrx1"`
	DownlinksRx2  int `json:"downlinks_rx2" yaml:"downlinksrx2"`
	DownlinksLost int `json:"downlinks_lost" yaml:"downlinkslost"`
	UplinksWeak   int `json:"uplinks_weak" yaml:"uplinksweak"`
	AdrApplied    int `json:"adr_applied" yaml:"adrapplied"`
}

// Node is one simulated end device.
type Node struct {
	id       types.NodeId
	loc      types.Location
	params   lorawan.Parameters
	band     *lorawan.Band
	rnd      *rand.Rand
	interval time.Duration
	payload  int
	counters Counters
}

// NewNode creates a node at the given location, starting from the band's
// most robust settings. Each node gets its own PRNG stream so runs stay
// reproducible regardless of node count.
func NewNode(id types.NodeId, loc types.Location, band *lorawan.Band) *Node {
	return &Node{
		id:       id,
		loc:      loc,
		params:   lorawan.DefaultParameters(),
		band:     band,
		rnd:      rand.New(rand.NewSource(int64(prng.NewNodeRandomSeed()))),
		interval: DefaultUplinkInterval,
		payload:  DefaultPayloadSize,
	}
}

// Id implements gateway.Transmitter.
func (n *Node) Id() types.NodeId {
	return n.id
}

// Location implements gateway.Transmitter.
func (n *Node) Location() types.Location {
	return n.loc
}

// Parameters implements gateway.Transmitter.
func (n *Node) Parameters() lorawan.Parameters {
	return n.params
}

// SetUplinkInterval sets the mean time between uplinks.
func (n *Node) SetUplinkInterval(d time.Duration) {
	logger.AssertTrue(d > 0)
	n.interval = d
}

// SetPayloadSize sets the uplink payload size in bytes.
func (n *Node) SetPayloadSize(size int) {
	logger.AssertTrue(size > 0)
	n.payload = size
}

// MoveTo moves the node to a new position.
func (n *Node) MoveTo(loc types.Location) {
	n.loc = loc
}

// NextUplinkDelay draws the jittered delay until this node's next uplink.
func (n *Node) NextUplinkDelay() time.Duration {
	f := 1.0 - uplinkJitter + 2.0*uplinkJitter*prng.NewUnitRandom()
	return time.Duration(float64(n.interval) * f)
}

// BuildUplink builds the node's next uplink on a randomly picked default
// channel, using its current radio settings.
func (n *Node) BuildUplink() *lorawan.Packet {
	params := n.params
	ch := n.band.UplinkChannels[n.rnd.Intn(len(n.band.UplinkChannels))]
	params.Frequency = ch.Frequency
	n.params.Frequency = ch.Frequency
	n.counters.UplinksSent++
	return &lorawan.Packet{Params: params, PayloadSize: n.payload}
}

// HandleDownlink processes the gateway's reply to an uplink: it tallies the
// outcome and applies an attached ADR proposal to the node's own settings.
func (n *Node) HandleDownlink(decision gateway.DownlinkDecision) {
	switch {
	case decision.WeakPacket:
		n.counters.UplinksWeak++
		return
	case decision.Lost:
		n.counters.DownlinksLost++
		return
	case decision.TxOnRx1:
		n.counters.DownlinksRx1++
	default:
		n.counters.DownlinksRx2++
	}

	if decision.Proposal == nil {
		return
	}
	p := decision.Proposal
	if p.DataRate != n.params.DataRate || p.TxPowerDbm != n.params.TxPowerDbm {
		logger.Debugf("node %d: applying ADR settings dr=%d tp=%.0f dBm", n.id, p.DataRate, p.TxPowerDbm)
		n.params.DataRate = p.DataRate
		n.params.SpreadingFactor = p.DataRate.SpreadingFactor()
		n.params.TxPowerDbm = p.TxPowerDbm
		n.counters.AdrApplied++
	}
}

// Counters gets a snapshot of the node's traffic counters.
func (n *Node) Counters() Counters {
	return n.counters
}
