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

package simulation

import (
	"time"

	"github.com/lwns-sim/lwns/dispatcher"
	"github.com/lwns-sim/lwns/gateway"
	"github.com/lwns-sim/lwns/node"
	"github.com/lwns-sim/lwns/types"
)

const (
	DefaultRadioModelName = "logshadow"
	DefaultKpiFileName    = "lwns_kpi.json"
)

type Config struct {
	Speed          float64
	RadioModelName string
	AdrMarginDb    types.DbValue
	Seed           int64
	UplinkInterval time.Duration
	PayloadSize    int
	GatewayX       float64
	GatewayY       float64
	ScenarioFile   string
	KpiFile        string
	AutoGo         bool
}

func DefaultConfig() *Config {
	return &Config{
		Speed:          dispatcher.DefaultSimulateSpeed,
		RadioModelName: DefaultRadioModelName,
		AdrMarginDb:    gateway.DefaultAdrMarginDb,
		Seed:           0,
		UplinkInterval: node.DefaultUplinkInterval,
		PayloadSize:    node.DefaultPayloadSize,
		GatewayX:       0,
		GatewayY:       0,
		KpiFile:        DefaultKpiFileName,
		AutoGo:         false,
	}
}
