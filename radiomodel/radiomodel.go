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

// Package radiomodel provides the radio propagation models of the simulator.
// A model maps a transmit power and a transmitter-receiver distance to a
// received signal strength (RSS), and an RSS to a signal-to-noise ratio (SNR)
// at the receiver.
package radiomodel

import (
	"strings"

	"github.com/lwns-sim/lwns/types"
)

// DbValue is a value in dB or dBm, used for power, loss and SNR calculations.
type DbValue = types.DbValue

const (
	// RssiMinDbm and RssiMaxDbm bound all RSS values a model may return.
	RssiMinDbm DbValue = -150.0
	RssiMaxDbm DbValue = 20.0

	UndefinedDbValue DbValue = 1000.0
)

// RadioModel is a propagation model for the LoRa links of the simulation.
// Implementations must be deterministic for a given model seed, so that a
// simulation run is reproducible.
type RadioModel interface {
	// Name gets the display name of this model.
	Name() string

	// TxPowerToRss calculates the RSS (dBm) at a receiver at distMeters
	// meters from a transmitter that transmits at txPowerDbm.
	TxPowerToRss(txPowerDbm DbValue, distMeters float64) DbValue

	// RssToSnr calculates the SNR (dB) at the receiver for a signal
	// arriving at rssDbm, relative to the model's ambient noise floor.
	RssToSnr(rssDbm DbValue) DbValue
}

// NewRadioModel creates a new radio model. Only lowercase model names are
// recognized; nil is returned for an unknown name.
func NewRadioModel(modelName string) RadioModel {
	var model RadioModel

	switch strings.ToLower(modelName) {
	case "ideal", "i":
		model = &RadioModelIdeal{
			name:   "Ideal",
			params: newLogDistanceParams(),
		}
	case "logshadow", "ls", "default":
		model = newRadioModelLogShadow("LogShadow")
	default:
		model = nil
	}
	return model
}

func clampRss(rss DbValue, params *RadioModelParams) DbValue {
	if rss < params.RssiMinDbm {
		return params.RssiMinDbm
	}
	if rss > params.RssiMaxDbm {
		return params.RssiMaxDbm
	}
	return rss
}
