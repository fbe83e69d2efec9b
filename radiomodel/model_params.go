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

package radiomodel

// default radio parameters
const (
	// Thermal noise for a 125 kHz LoRa channel (-174 + 10*log10(125e3))
	// plus a 6 dB receiver noise figure.
	defaultNoiseFloorDbm DbValue = -117.0
)

// RadioModelParams stores propagation model parameters for a radio model.
type RadioModelParams struct {
	RefDistanceMeters   float64 // reference distance d0 (m) of the log-distance model
	RefLossDb           DbValue // path loss (dB) at the reference distance
	ExponentDb          DbValue // path loss per decade of distance (10*gamma, dB)
	NoiseFloorDbm       DbValue // the noise floor (ambient noise, in dBm)
	ShadowFadingSigmaDb DbValue // sigma (stddev) parameter for Shadow Fading (SF), in dB
	RssiMinDbm          DbValue // Lowest RSSI value (dBm) that can be returned, overriding other calculations
	RssiMaxDbm          DbValue // Highest RSSI value (dBm) that can be returned, overriding other calculations
}

// newLogDistanceParams gets the log-distance parameter set measured by the
// LoRaSim campus deployment (Bor et al., EWSN 2016): d0 = 40 m,
// PL(d0) = 127.41 dB, gamma = 2.08, sigma = 3.57 dB.
func newLogDistanceParams() *RadioModelParams {
	return &RadioModelParams{
		RefDistanceMeters:   40.0,
		RefLossDb:           127.41,
		ExponentDb:          20.8,
		NoiseFloorDbm:       defaultNoiseFloorDbm,
		ShadowFadingSigmaDb: 3.57,
		RssiMinDbm:          RssiMinDbm,
		RssiMaxDbm:          RssiMaxDbm,
	}
}
