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

import "github.com/lwns-sim/lwns/types"

// AdrHistoryWindow is the number of SNR samples the ADR algorithm considers;
// it only runs once a transmitter's history holds this many samples.
const AdrHistoryWindow = 20

// snrHistory is a fixed-capacity ring buffer of the most recent SNR readings
// of one transmitter. Once full, each append evicts the oldest sample.
type snrHistory struct {
	buf   [AdrHistoryWindow]types.DbValue
	start int
	count int
}

func (h *snrHistory) Add(snr types.DbValue) {
	if h.count < AdrHistoryWindow {
		h.buf[(h.start+h.count)%AdrHistoryWindow] = snr
		h.count++
		return
	}
	h.buf[h.start] = snr
	h.start = (h.start + 1) % AdrHistoryWindow
}

func (h *snrHistory) Len() int {
	return h.count
}

func (h *snrHistory) IsFull() bool {
	return h.count == AdrHistoryWindow
}

// Max gets the maximum SNR sample in the history. Must not be called on an
// empty history.
func (h *snrHistory) Max() types.DbValue {
	max := h.buf[h.start]
	for i := 1; i < h.count; i++ {
		if v := h.buf[(h.start+i)%AdrHistoryWindow]; v > max {
			max = v
		}
	}
	return max
}

// Samples gets a copy of the history in insertion order, oldest first.
func (h *snrHistory) Samples() []types.DbValue {
	s := make([]types.DbValue, h.count)
	for i := 0; i < h.count; i++ {
		s[i] = h.buf[(h.start+i)%AdrHistoryWindow]
	}
	return s
}
