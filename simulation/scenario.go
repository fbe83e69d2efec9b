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
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// NodeConfig is one node entry of a scenario file.
type NodeConfig struct {
	Id          int     `yaml:"id"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	IntervalSec float64 `yaml:"interval,omitempty"`
	PayloadSize int     `yaml:"payload,omitempty"`
}

// Scenario is a declarative initial network layout, loaded from a YAML file.
type Scenario struct {
	Nodes []NodeConfig `yaml:"nodes"`
}

// LoadScenario loads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario file %s", path)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrapf(err, "parsing scenario file %s", path)
	}

	seen := make(map[int]struct{}, len(sc.Nodes))
	for i, nc := range sc.Nodes {
		if nc.Id <= 0 {
			return nil, errors.Errorf("scenario node %d: id must be positive, got %d", i, nc.Id)
		}
		if _, dup := seen[nc.Id]; dup {
			return nil, errors.Errorf("scenario contains duplicate node id %d", nc.Id)
		}
		seen[nc.Id] = struct{}{}
		if nc.IntervalSec < 0 {
			return nil, errors.Errorf("scenario node %d: negative uplink interval", nc.Id)
		}
		if nc.PayloadSize < 0 {
			return nil, errors.Errorf("scenario node %d: negative payload size", nc.Id)
		}
	}
	return &sc, nil
}
