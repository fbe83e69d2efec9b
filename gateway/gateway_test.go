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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/types"
)

// fixedRadioModel always reports the same RSS, regardless of power and
// distance. SNR is RSS relative to a -117 dBm noise floor.
type fixedRadioModel struct {
	rss types.DbValue
}

func (m *fixedRadioModel) Name() string { return "fixed" }

func (m *fixedRadioModel) TxPowerToRss(txPowerDbm types.DbValue, distMeters float64) types.DbValue {
	return m.rss
}

func (m *fixedRadioModel) RssToSnr(rssDbm types.DbValue) types.DbValue {
	return rssDbm + 117.0
}

type stubTransmitter struct {
	id     types.NodeId
	loc    types.Location
	params lorawan.Parameters
}

func (s *stubTransmitter) Id() types.NodeId              { return s.id }
func (s *stubTransmitter) Location() types.Location      { return s.loc }
func (s *stubTransmitter) Parameters() lorawan.Parameters { return s.params }

func newTestGateway(rss types.DbValue) *Gateway {
	return NewGateway(types.Location{}, lorawan.EU868(), &fixedRadioModel{rss: rss}, DefaultAdrMarginDb)
}

func newTestTransmitter(id types.NodeId, sf lorawan.SpreadingFactor) (*stubTransmitter, *lorawan.Packet) {
	params := lorawan.DefaultParameters()
	params.SpreadingFactor = sf
	params.DataRate = lorawan.DataRateForSpreadingFactor(sf)
	tx := &stubTransmitter{id: id, loc: types.Location{X: 100, Y: 100}, params: params}
	return tx, &lorawan.Packet{Params: params, PayloadSize: 20}
}

func secondsTs(sec uint64) uint64 {
	return sec * types.TimeUsPerSecond
}

func TestReceiveWeakPacket(t *testing.T) {
	// -140 dBm is below the -133 dBm sensitivity floor of SF10.
	gw := newTestGateway(-140)
	tx, pkt := newTestTransmitter(1, lorawan.SF10)

	decision := gw.Receive(tx, pkt, secondsTs(10))
	assert.True(t, decision.WeakPacket)
	assert.False(t, decision.Lost)
	assert.Nil(t, decision.Proposal)

	// No history, counter or ledger mutation happened.
	st := gw.Stats(secondsTs(10))
	assert.Equal(t, 0, st.Received)
	assert.Equal(t, 1, st.UplinkWeak)
	assert.Equal(t, 0, gw.HistoryLen(1))
	for _, util := range st.ChannelUtilizationPercent {
		assert.Equal(t, 0.0, util)
	}
}

func TestReceiveAcceptedUpdatesHistory(t *testing.T) {
	gw := newTestGateway(-80)
	tx, pkt := newTestTransmitter(1, lorawan.SF10)

	for i := 1; i <= 5; i++ {
		gw.Receive(tx, pkt, secondsTs(uint64(i)*100))
		assert.Equal(t, i, gw.HistoryLen(1))
	}
	assert.Equal(t, 5, gw.Stats(secondsTs(500)).Received)
}

func TestReceiveFastLinkPrefersRx1(t *testing.T) {
	gw := newTestGateway(-80)
	tx, pkt := newTestTransmitter(1, lorawan.SF7) // DR5

	decision := gw.Receive(tx, pkt, secondsTs(100))
	assert.False(t, decision.Lost)
	assert.True(t, decision.TxOnRx1)

	// Only the uplink channel's ledger was charged.
	assert.True(t, gw.channelTimeUsed[pkt.Params.Frequency] > 0)
	assert.Equal(t, time.Duration(0), gw.channelTimeUsed[gw.band.RX2Channel.Frequency])
}

func TestReceiveSlowLinkPrefersRx2(t *testing.T) {
	gw := newTestGateway(-80)
	tx, pkt := newTestTransmitter(1, lorawan.SF12) // DR0

	decision := gw.Receive(tx, pkt, secondsTs(100))
	assert.False(t, decision.Lost)
	assert.False(t, decision.TxOnRx1)

	assert.True(t, gw.channelTimeUsed[gw.band.RX2Channel.Frequency] > 0)
	assert.Equal(t, time.Duration(0), gw.channelTimeUsed[pkt.Params.Frequency])
}

func TestReceiveFallsBackToOtherWindow(t *testing.T) {
	gw := newTestGateway(-80)
	tx, pkt := newTestTransmitter(1, lorawan.SF7) // DR5, prefers RX1

	// Saturate the uplink channel: 900 s on air out of 1000 s elapsed is
	// far over the 1% cap.
	gw.channelTimeUsed[pkt.Params.Frequency] = 900 * time.Second

	decision := gw.Receive(tx, pkt, secondsTs(1000))
	assert.False(t, decision.Lost)
	assert.False(t, decision.TxOnRx1)
	assert.True(t, gw.channelTimeUsed[gw.band.RX2Channel.Frequency] > 0)
}

func TestReceiveLostWhenNoWindowAdmissible(t *testing.T) {
	gw := newTestGateway(-80)
	tx, pkt := newTestTransmitter(1, lorawan.SF12) // DR0, prefers RX2

	gw.channelTimeUsed[pkt.Params.Frequency] = 900 * time.Second
	gw.channelTimeUsed[gw.band.RX2Channel.Frequency] = 900 * time.Second
	rx2Before := gw.channelTimeUsed[gw.band.RX2Channel.Frequency]

	decision := gw.Receive(tx, pkt, secondsTs(1000))
	assert.True(t, decision.Lost)
	assert.False(t, decision.TxOnRx1)

	// A lost downlink charges no ledger.
	assert.Equal(t, 900*time.Second, gw.channelTimeUsed[pkt.Params.Frequency])
	assert.Equal(t, rx2Before, gw.channelTimeUsed[gw.band.RX2Channel.Frequency])
	assert.Equal(t, 1, gw.Stats(secondsTs(1000)).DownlinkLost)
}

func TestReceiveProposalAfterFullWindow(t *testing.T) {
	gw := newTestGateway(-80) // SNR 37 dB, a very good link
	tx, pkt := newTestTransmitter(1, lorawan.SF12)

	var decision DownlinkDecision
	for i := 1; i <= AdrHistoryWindow; i++ {
		decision = gw.Receive(tx, pkt, secondsTs(uint64(i)*100))
		if i < AdrHistoryWindow {
			assert.Nil(t, decision.Proposal, "unexpected proposal after %d samples", i)
		}
	}

	// Margin = 37+20-10 = 47 dB: 16 steps. 5 raise the data rate to DR5,
	// the remaining 11 drive the power into the 2 dBm floor.
	require.NotNil(t, decision.Proposal)
	assert.Equal(t, lorawan.DR5, decision.Proposal.DataRate)
	assert.Equal(t, 2.0, decision.Proposal.TxPowerDbm)
}

func TestCheckDutyCycleZeroUsage(t *testing.T) {
	gw := newTestGateway(-80)

	// A never-used channel is admissible at any time, including t=0.
	for _, now := range []uint64{0, secondsTs(1), secondsTs(100000)} {
		ok, toa := gw.CheckDutyCycle(DownlinkPayloadSize, lorawan.SF12, 868100000, now)
		assert.True(t, ok)
		assert.True(t, toa > 0)
	}
}

func TestCheckDutyCycleCapBoundary(t *testing.T) {
	gw := newTestGateway(-80)

	// 5 s used out of 1000 s elapsed on a 1% channel: well under the cap.
	gw.channelTimeUsed[868100000] = 5 * time.Second
	ok, toa := gw.CheckDutyCycle(DownlinkPayloadSize, lorawan.SF12, 868100000, secondsTs(1000))
	assert.True(t, ok)
	prospective := (5*time.Second + toa).Seconds() / (1000 + toa.Seconds()) * 100
	assert.True(t, prospective < 1.0)

	// 15 s used pushes the prospective ratio over 1%.
	gw.channelTimeUsed[868100000] = 15 * time.Second
	ok, _ = gw.CheckDutyCycle(DownlinkPayloadSize, lorawan.SF12, 868100000, secondsTs(1000))
	assert.False(t, ok)

	// The RX2 channel has a 10% cap, so the same usage is fine there.
	gw.channelTimeUsed[869525000] = 15 * time.Second
	ok, _ = gw.CheckDutyCycle(DownlinkPayloadSize, lorawan.SF12, 869525000, secondsTs(1000))
	assert.True(t, ok)
}

func TestCheckDutyCycleDoesNotMutateLedger(t *testing.T) {
	gw := newTestGateway(-80)
	gw.channelTimeUsed[868100000] = 5 * time.Second

	_, _ = gw.CheckDutyCycle(DownlinkPayloadSize, lorawan.SF12, 868100000, secondsTs(1000))
	assert.Equal(t, 5*time.Second, gw.channelTimeUsed[868100000])
}

func TestStatsUtilization(t *testing.T) {
	gw := newTestGateway(-80)
	gw.channelTimeUsed[868100000] = 10 * time.Second

	st := gw.Stats(secondsTs(1000))
	assert.InDelta(t, 1.0, st.ChannelUtilizationPercent[868100000], 1e-9)

	// Zero elapsed time must not divide by zero.
	st = gw.Stats(0)
	assert.Equal(t, 0.0, st.ChannelUtilizationPercent[868100000])
}
