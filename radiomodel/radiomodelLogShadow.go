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

import (
	"math/rand"

	"github.com/lwns-sim/lwns/prng"
)

const initialShadowCacheSize = 1024

// RadioModelLogShadow is the log-distance model with log-normal shadow
// fading: a fixed, position-dependent attenuation (or gain) drawn once per
// link from a normal distribution (mu=0, sigma). Links are identified by
// their length, so a static node keeps its shadowing value for the whole run
// and reversing transmitter/receiver roles gives the same value.
type RadioModelLogShadow struct {
	name      string
	params    *RadioModelParams
	rndSeed   prng.RandomSeed
	shFadeMap map[int64]DbValue
}

func newRadioModelLogShadow(name string) *RadioModelLogShadow {
	return &RadioModelLogShadow{
		name:      name,
		params:    newLogDistanceParams(),
		rndSeed:   prng.NewRadioModelRandomSeed(),
		shFadeMap: make(map[int64]DbValue, initialShadowCacheSize),
	}
}

func (rm *RadioModelLogShadow) Name() string {
	return rm.name
}

func (rm *RadioModelLogShadow) TxPowerToRss(txPowerDbm DbValue, distMeters float64) DbValue {
	rss := computeLogDistanceRss(distMeters, txPowerDbm, rm.params)
	return clampRss(rss+rm.shadowFading(distMeters), rm.params)
}

func (rm *RadioModelLogShadow) RssToSnr(rssDbm DbValue) DbValue {
	return rssDbm - rm.params.NoiseFloorDbm
}

// shadowFading draws the shadow fading value (dB) for a link of the given
// length. The first draw per link is cached so that it stays constant for
// the rest of the run.
func (rm *RadioModelLogShadow) shadowFading(distMeters float64) DbValue {
	// links are keyed by length in cm; each unique link gets a unique
	// reproducible seed derived from the model seed.
	key := int64(distMeters * 100.0)
	if v, ok := rm.shFadeMap[key]; ok {
		return v
	}
	rnd := rand.New(rand.NewSource(int64(rm.rndSeed) + key))
	v := rnd.NormFloat64() * rm.params.ShadowFadingSigmaDb
	rm.shFadeMap[key] = v
	return v
}
