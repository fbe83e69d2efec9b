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

import "time"

// SymbolPeriod returns the time it takes to transmit a single symbol given
// the current parameters. It depends on spreading factor and bandwidth.
func (p Parameters) SymbolPeriod() time.Duration {
	return time.Second * time.Duration(p.SpreadingFactor.ChipsPerSymbol()) /
		time.Duration(p.Bandwidth.Hertz())
}

// lowDataRateOptimize reports whether the low data rate optimization flag is
// mandated for these parameters: whenever the symbol duration exceeds 16 ms.
func (p Parameters) lowDataRateOptimize() bool {
	return p.SymbolPeriod() > 16*time.Millisecond
}

// TimeOnAir returns the time it takes to transmit a packet of the given
// payload length, per the SX1276 datasheet formula. It depends on bandwidth,
// CRC presence, coding rate, spreading factor, preamble length and the low
// data rate optimization.
func (p Parameters) TimeOnAir(payloadLength int) time.Duration {
	if p.Bandwidth == 0 {
		return 0
	}
	crc := int64(b2u8(p.CRC))
	ldr := int64(b2u8(p.lowDataRateOptimize()))
	cr := int64(p.CodingRate)
	spread := int64(p.SpreadingFactor)

	// Payload symbol count; explicit header is always used on uplinks.
	nPayload := 8*int64(payloadLength) - 4*spread + 28 + 16*crc
	div := 4 * (spread - 2*ldr)
	if nPayload < 0 || div <= 0 {
		nPayload = 0
	} else if nPayload%div == 0 {
		nPayload /= div
		nPayload *= cr + 4
	} else {
		nPayload /= div
		nPayload++
		nPayload *= cr + 4
	}
	// The preamble adds 4.25 symbols; round up to 5 so airtime is never
	// underestimated.
	nPayload += 8 + int64(p.PreambleLength) + 5

	chipsPerSymbol := p.SpreadingFactor.ChipsPerSymbol()
	return time.Second * time.Duration(nPayload*chipsPerSymbol) /
		time.Duration(p.Bandwidth.Hertz())
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
