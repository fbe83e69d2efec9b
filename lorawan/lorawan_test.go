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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDataRateSpreadingFactor(t *testing.T) {
	assert.Equal(t, SF12, DR0.SpreadingFactor())
	assert.Equal(t, SF11, DR1.SpreadingFactor())
	assert.Equal(t, SF10, DR2.SpreadingFactor())
	assert.Equal(t, SF9, DR3.SpreadingFactor())
	assert.Equal(t, SF8, DR4.SpreadingFactor())
	assert.Equal(t, SF7, DR5.SpreadingFactor())

	for dr := MinDataRate; dr <= MaxDataRate; dr++ {
		assert.Equal(t, dr, DataRateForSpreadingFactor(dr.SpreadingFactor()))
	}

	assert.Panics(t, func() { DataRate(6).SpreadingFactor() })
	assert.Panics(t, func() { DataRateForSpreadingFactor(SF6) })
}

func TestSensitivityDbm(t *testing.T) {
	assert.Equal(t, -121.0, SensitivityDbm(SF6))
	assert.Equal(t, -124.0, SensitivityDbm(SF7))
	assert.Equal(t, -127.0, SensitivityDbm(SF8))
	assert.Equal(t, -130.0, SensitivityDbm(SF9))
	assert.Equal(t, -133.0, SensitivityDbm(SF10))
	assert.Equal(t, -135.0, SensitivityDbm(SF11))
	assert.Equal(t, -137.0, SensitivityDbm(SF12))
	assert.Panics(t, func() { SensitivityDbm(SpreadingFactor(5)) })
}

func TestTimeOnAir(t *testing.T) {
	p := DefaultParameters()
	p.SpreadingFactor = SF7
	p.DataRate = DR5

	// 12-byte payload at SF7/125kHz/CR4_5: 41 symbols of 128 chips.
	assert.Equal(t, 41984*time.Microsecond, p.TimeOnAir(12))

	// SF12 mandates the low data rate optimization (32.768 ms symbols).
	p = DefaultParameters()
	assert.True(t, p.lowDataRateOptimize())
	assert.Equal(t, 1179648*time.Microsecond, p.TimeOnAir(12))

	// Airtime grows monotonically with payload size.
	last := time.Duration(0)
	for size := 1; size <= 51; size++ {
		toa := p.TimeOnAir(size)
		assert.True(t, toa >= last, "airtime shrank at payload size %d", size)
		last = toa
	}
}

func TestTimeOnAirZeroBandwidth(t *testing.T) {
	p := Parameters{SpreadingFactor: SF7}
	assert.Equal(t, time.Duration(0), p.TimeOnAir(12))
}

func TestEU868Band(t *testing.T) {
	band := EU868()

	assert.Equal(t, 3, len(band.UplinkChannels))
	assert.Equal(t, 4, len(band.Channels()))
	assert.Equal(t, SF12, band.RX2SpreadingFactor())

	assert.Equal(t, 1.0, band.DutyCycleCapPercent(868100000))
	assert.Equal(t, 1.0, band.DutyCycleCapPercent(868300000))
	assert.Equal(t, 1.0, band.DutyCycleCapPercent(868500000))
	assert.Equal(t, 10.0, band.DutyCycleCapPercent(869525000))
	assert.Panics(t, func() { band.DutyCycleCapPercent(915000000) })
}
