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
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/lwns-sim/lwns/gateway"
	"github.com/lwns-sim/lwns/node"
	"github.com/lwns-sim/lwns/types"
)

// Kpi is the JSON structure of the KPI file written at the end of a run.
type Kpi struct {
	FileTime    string        `json:"file_time"`
	TimeUs      uint64        `json:"time_us"`
	TimeSec     float64       `json:"time_sec"`
	RadioModel  string        `json:"radio_model"`
	AdrMarginDb types.DbValue `json:"adr_margin_db"`

	Gateway gateway.Stats                  `json:"gateway"`
	Nodes   map[types.NodeId]node.Counters `json:"nodes"`
}

// BuildKpi collects the KPIs of the run so far.
func (s *Simulation) BuildKpi() *Kpi {
	now := s.d.CurTime
	kpi := &Kpi{
		FileTime:    time.Now().Format(time.RFC3339),
		TimeUs:      now,
		TimeSec:     types.SecondsSinceStart(now),
		RadioModel:  s.radioModel.Name(),
		AdrMarginDb: s.cfg.AdrMarginDb,
		Gateway:     s.gw.Stats(now),
		Nodes:       make(map[types.NodeId]node.Counters, len(s.nodes)),
	}
	for id, n := range s.nodes {
		kpi.Nodes[id] = n.Counters()
	}
	return kpi
}

// SaveKpiFile writes the current KPIs as indented JSON to fn.
func (s *Simulation) SaveKpiFile(fn string) error {
	data, err := json.MarshalIndent(s.BuildKpi(), "", "    ")
	if err != nil {
		return errors.Wrap(err, "marshalling KPI data")
	}
	if err := os.WriteFile(fn, data, 0644); err != nil {
		return errors.Wrapf(err, "writing KPI file %s", fn)
	}
	return nil
}
