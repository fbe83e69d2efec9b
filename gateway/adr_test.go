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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/types"
)

// fullHistory builds a full ADR window whose maximum SNR is maxSnr.
func fullHistory(maxSnr types.DbValue) *snrHistory {
	h := &snrHistory{}
	for i := 0; i < AdrHistoryWindow-1; i++ {
		h.Add(maxSnr - 10)
	}
	h.Add(maxSnr)
	return h
}

func adrParams(sf lorawan.SpreadingFactor, tp types.DbValue) lorawan.Parameters {
	p := lorawan.DefaultParameters()
	p.SpreadingFactor = sf
	p.DataRate = lorawan.DataRateForSpreadingFactor(sf)
	p.TxPowerDbm = tp
	return p
}

func TestAdrNeedsFullWindow(t *testing.T) {
	band := lorawan.EU868()
	h := &snrHistory{}
	for i := 0; i < AdrHistoryWindow-1; i++ {
		h.Add(0)
		assert.Nil(t, computeAdr(h, adrParams(lorawan.SF12, 14), band, DefaultAdrMarginDb))
	}
	h.Add(0)
	assert.NotNil(t, computeAdr(h, adrParams(lorawan.SF12, 14), band, DefaultAdrMarginDb))
}

func TestAdrRaisesDataRate(t *testing.T) {
	band := lorawan.EU868()

	// Max SNR 5 dB at SF9 (required -12.5): margin = 5+12.5-10 = 7.5,
	// 3 steps of spare margin. A device still on DR2 has 3 data rates of
	// room, so all steps go into the data rate and power stays put.
	p := adrParams(lorawan.SF9, 14)
	p.DataRate = lorawan.DR2
	prop := computeAdr(fullHistory(5), p, band, DefaultAdrMarginDb)
	require.NotNil(t, prop)
	assert.Equal(t, lorawan.DR5, prop.DataRate)
	assert.Equal(t, 14.0, prop.TxPowerDbm)

	// Same link on the DR matching SF9 (DR3, 2 data rates of room): the
	// data rate saturates at DR5 and the remaining step lowers power 3 dB.
	prop = computeAdr(fullHistory(5), adrParams(lorawan.SF9, 14), band, DefaultAdrMarginDb)
	require.NotNil(t, prop)
	assert.Equal(t, lorawan.DR5, prop.DataRate)
	assert.Equal(t, 11.0, prop.TxPowerDbm)
}

func TestAdrSaturatesDataRateThenLowersPower(t *testing.T) {
	band := lorawan.EU868()

	// Max SNR 11 dB at SF12 (required -20): margin = 21, 7 steps. 5 go to
	// the data rate, the remaining 2 lower the power by 6 dB.
	prop := computeAdr(fullHistory(11), adrParams(lorawan.SF12, 14), band, DefaultAdrMarginDb)
	require.NotNil(t, prop)
	assert.Equal(t, lorawan.DR5, prop.DataRate)
	assert.Equal(t, 8.0, prop.TxPowerDbm)
}

func TestAdrClampsPowerFloor(t *testing.T) {
	band := lorawan.EU868()

	// Max SNR 20 dB at SF12: margin = 30, 10 steps. 5 remaining steps want
	// -15 dB of power, which hits the 2 dBm floor.
	prop := computeAdr(fullHistory(20), adrParams(lorawan.SF12, 14), band, DefaultAdrMarginDb)
	require.NotNil(t, prop)
	assert.Equal(t, lorawan.DR5, prop.DataRate)
	assert.Equal(t, 2.0, prop.TxPowerDbm)
}

func TestAdrRaisesPowerOnBadLink(t *testing.T) {
	band := lorawan.EU868()

	// Max SNR -3.5 dB at SF7 (required -7.5): margin = -6, two steps short.
	// Power goes up by 6 dB, the data rate is never lowered.
	prop := computeAdr(fullHistory(-3.5), adrParams(lorawan.SF7, 2), band, DefaultAdrMarginDb)
	require.NotNil(t, prop)
	assert.Equal(t, lorawan.DR5, prop.DataRate)
	assert.Equal(t, 8.0, prop.TxPowerDbm)

	// Same link at 12 dBm hits the 14 dBm ceiling.
	prop = computeAdr(fullHistory(-3.5), adrParams(lorawan.SF7, 12), band, DefaultAdrMarginDb)
	require.NotNil(t, prop)
	assert.Equal(t, 14.0, prop.TxPowerDbm)
}

func TestAdrZeroStepsKeepsSettings(t *testing.T) {
	band := lorawan.EU868()

	// Max SNR exactly required+margin: zero spare margin, nothing changes.
	prop := computeAdr(fullHistory(-10+DefaultAdrMarginDb), adrParams(lorawan.SF8, 11), band, DefaultAdrMarginDb)
	require.NotNil(t, prop)
	assert.Equal(t, lorawan.DR4, prop.DataRate)
	assert.Equal(t, 11.0, prop.TxPowerDbm)
}

func TestAdrRoundsHalfAwayFromZero(t *testing.T) {
	band := lorawan.EU868()

	// Margin of exactly +1.5 dB (half a step) rounds up to one full step.
	prop := computeAdr(fullHistory(1.5), adrParams(lorawan.SF8, 14), band, DefaultAdrMarginDb)
	require.NotNil(t, prop)
	assert.Equal(t, lorawan.DR5, prop.DataRate)
	assert.Equal(t, 14.0, prop.TxPowerDbm)
}
