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

// Package lorawan models the LoRa radio parameters used by the simulation:
// spreading factors, data rates, regional band plans and packet airtime.
package lorawan

import (
	"github.com/simonlingoogle/go-simplelogger"

	"github.com/lwns-sim/lwns/types"
)

// SpreadingFactor defines the number of chips per symbol (2^SF). Higher spread
// factors give longer transmission times but more robust communication.
type SpreadingFactor uint8

const (
	SF6 SpreadingFactor = iota + 6
	SF7
	SF8
	SF9
	SF10
	SF11
	SF12
)

const (
	MinSpreadingFactor = SF6
	MaxSpreadingFactor = SF12
)

func (sf SpreadingFactor) ChipsPerSymbol() int64 {
	return 1 << sf
}

func (sf SpreadingFactor) IsValid() bool {
	return sf >= MinSpreadingFactor && sf <= MaxSpreadingFactor
}

// DataRate is the EU868 uplink data rate index: DR0 (SF12, slowest) up to
// DR5 (SF7, fastest), all at 125 kHz bandwidth.
type DataRate int

const (
	DR0 DataRate = iota
	DR1
	DR2
	DR3
	DR4
	DR5
)

const (
	MinDataRate = DR0
	MaxDataRate = DR5
)

func (dr DataRate) IsValid() bool {
	return dr >= MinDataRate && dr <= MaxDataRate
}

// SpreadingFactor gets the spreading factor encoded by this data rate index.
func (dr DataRate) SpreadingFactor() SpreadingFactor {
	if !dr.IsValid() {
		simplelogger.Panicf("invalid data rate: %d", dr)
	}
	return SpreadingFactor(12 - int(dr))
}

// DataRateForSpreadingFactor gets the data rate index that encodes sf.
func DataRateForSpreadingFactor(sf SpreadingFactor) DataRate {
	dr := DataRate(12 - int(sf))
	if !dr.IsValid() {
		simplelogger.Panicf("spreading factor %d has no data rate index", sf)
	}
	return dr
}

// CodingRate defines the forward error correction scheme. A coding rate of
// 4/5 adds 1 correction bit for every 4 data bits.
type CodingRate uint8

const (
	CR4_5 CodingRate = 1
	CR4_6 CodingRate = 2
	CR4_7 CodingRate = 3
	CR4_8 CodingRate = 4
)

// Frequency is a radio frequency or bandwidth in Hz.
type Frequency int64

func (f Frequency) Hertz() int64 { return int64(f) }

// MegaHertz gets the frequency in MHz, for display.
func (f Frequency) MegaHertz() float64 { return float64(f) / 1e6 }

const (
	Hertz     Frequency = 1
	KiloHertz Frequency = 1000 * Hertz
	MegaHertz Frequency = 1000 * KiloHertz
)

// LoRa channel bandwidths.
const (
	BW125k = 125 * KiloHertz
	BW250k = 250 * KiloHertz
	BW500k = 500 * KiloHertz
)

// sensitivityDbm is the gateway receiver sensitivity floor per spreading
// factor (dBm). A packet arriving below this cannot be demodulated.
var sensitivityDbm = map[SpreadingFactor]types.DbValue{
	SF6:  -121,
	SF7:  -124,
	SF8:  -127,
	SF9:  -130,
	SF10: -133,
	SF11: -135,
	SF12: -137,
}

// SensitivityDbm gets the receiver sensitivity floor (dBm) for sf.
func SensitivityDbm(sf SpreadingFactor) types.DbValue {
	s, ok := sensitivityDbm[sf]
	if !ok {
		simplelogger.Panicf("no sensitivity defined for spreading factor %d", sf)
	}
	return s
}

// Parameters is the set of radio parameters a transmission is sent with.
type Parameters struct {
	SpreadingFactor SpreadingFactor
	DataRate        DataRate
	TxPowerDbm      types.DbValue
	Frequency       Frequency
	Bandwidth       Frequency
	CodingRate      CodingRate
	PreambleLength  uint16
	CRC             bool
}

// DefaultParameters gets the parameters a factory-fresh EU868 device starts
// with: the most robust data rate at the maximum regular power.
func DefaultParameters() Parameters {
	return Parameters{
		SpreadingFactor: SF12,
		DataRate:        DR0,
		TxPowerDbm:      14,
		Frequency:       868100000 * Hertz,
		Bandwidth:       BW125k,
		CodingRate:      CR4_5,
		PreambleLength:  8,
		CRC:             true,
	}
}

// Packet is one LoRa transmission: the parameters it was sent with plus its
// payload size. Payload content is not modeled.
type Packet struct {
	Params      Parameters
	PayloadSize int
}
