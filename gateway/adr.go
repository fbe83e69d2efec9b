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
	"math"

	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/types"
)

// DefaultAdrMarginDb is the ADR safety margin (dB) subtracted from the
// measured link margin, per the LoRaWAN network-side ADR recommendation.
const DefaultAdrMarginDb types.DbValue = 10.0

// adrStepDb is the power equivalent of one ADR step: one data-rate level or
// 3 dB of transmit power.
const adrStepDb = 3.0

// requiredSnrDb is the demodulation floor SNR (dB) per spreading factor,
// used as the ADR reference.
var requiredSnrDb = map[lorawan.SpreadingFactor]types.DbValue{
	lorawan.SF7:  -7.5,
	lorawan.SF8:  -10,
	lorawan.SF9:  -12.5,
	lorawan.SF10: -15,
	lorawan.SF11: -17.5,
	lorawan.SF12: -20,
}

// AdrProposal is an advisory (data rate, transmit power) pair for a
// transmitter. Applying it is the transmitter's responsibility; the gateway
// only attaches it to a downlink.
type AdrProposal struct {
	DataRate   lorawan.DataRate `json:"dr" yaml:"dr"`
	TxPowerDbm types.DbValue    `json:"tp" yaml:"tp"`
}

// computeAdr runs the network-side ADR heuristic for one transmitter: from
// the maximum SNR over a full history window and the transmitter's current
// settings, it derives how many 3 dB steps of link margin are spare and
// turns them into a data rate raise and/or power adjustment. Returns nil
// when the history window is not yet full.
//
// The data rate is never lowered here; that correction is the transmitter's
// own job when its ADR ack requests go unanswered.
func computeAdr(history *snrHistory, current lorawan.Parameters, band *lorawan.Band, adrMarginDb types.DbValue) *AdrProposal {
	if !history.IsFull() {
		return nil
	}

	required, ok := requiredSnrDb[current.SpreadingFactor]
	if !ok {
		logger.Panicf("no required SNR known for spreading factor %d", current.SpreadingFactor)
	}
	snrMargin := history.Max() - required - adrMarginDb

	// Round half away from zero, so +1.5 dB of margin already counts as a
	// full step in either direction.
	numSteps := int(math.Round(snrMargin / adrStepDb))

	newDr := current.DataRate
	newTxPower := current.TxPowerDbm

	if numSteps > 0 {
		// Raise the data rate step by step until the band maximum, then
		// spend the remaining steps on lowering transmit power.
		roomDr := int(band.MaxDataRate - current.DataRate)
		if numSteps > roomDr {
			newDr = band.MaxDataRate
			remaining := numSteps - roomDr
			newTxPower = math.Max(current.TxPowerDbm-types.DbValue(remaining)*adrStepDb, band.TxPowerMinDbm)
		} else {
			newDr = current.DataRate + lorawan.DataRate(numSteps)
		}
	} else if numSteps < 0 {
		// Link margin is short: raise transmit power up to the band maximum.
		newTxPower = math.Min(current.TxPowerDbm+types.DbValue(-numSteps)*adrStepDb, band.TxPowerMaxDbm)
	}

	return &AdrProposal{DataRate: newDr, TxPowerDbm: newTxPower}
}
