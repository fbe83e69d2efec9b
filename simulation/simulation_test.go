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
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/progctx"
	"github.com/lwns-sim/lwns/types"
)

func newTestSimulation(t *testing.T, cfg *Config) *Simulation {
	ctx := progctx.New(context.Background())
	s, err := NewSimulation(ctx, cfg)
	require.NoError(t, err)
	go s.Run()
	t.Cleanup(func() {
		ctx.Cancel(nil)
		ctx.Wait()
	})
	return s
}

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.RadioModelName = "ideal"
	cfg.Seed = 1
	cfg.UplinkInterval = 600 * time.Second
	cfg.KpiFile = filepath.Join(t.TempDir(), "kpi.json")
	return cfg
}

func TestNewSimulationUnknownRadioModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RadioModelName = "nosuchmodel"
	_, err := NewSimulation(progctx.New(context.Background()), cfg)
	assert.Error(t, err)
}

func TestAddDeleteMoveNodes(t *testing.T) {
	s := newTestSimulation(t, testConfig(t))

	s.PostAsync(false, func() {
		n, err := s.AddNode(0, 100, 0)
		assert.NoError(t, err)
		assert.Equal(t, types.NodeId(1), n.Id())

		_, err = s.AddNode(5, 0, 100)
		assert.NoError(t, err)

		// next generated id skips over taken ones
		n, err = s.AddNode(0, 50, 50)
		assert.NoError(t, err)
		assert.Equal(t, types.NodeId(2), n.Id())

		_, err = s.AddNode(5, 1, 1)
		assert.Error(t, err)

		assert.NoError(t, s.MoveNodeTo(5, 200, 0))
		assert.Equal(t, types.Location{X: 200, Y: 0}, s.GetNode(5).Location())

		assert.NoError(t, s.DeleteNode(2))
		assert.Error(t, s.DeleteNode(2))
		assert.Nil(t, s.GetNode(2))
	})
	<-s.Go(time.Second)

	assert.ElementsMatch(t, []types.NodeId{1, 5}, s.GetNodeIds())
}

func TestUplinkDownlinkExchange(t *testing.T) {
	s := newTestSimulation(t, testConfig(t))

	s.PostAsync(false, func() {
		_, _ = s.AddNode(0, 50, 0)
		_, _ = s.AddNode(0, 100, 0)
	})

	// Enough simulated time for over 20 uplinks per node, so ADR kicks in.
	<-s.Go(14000 * time.Second)

	st := s.Gateway().Stats(s.Dispatcher().CurTime)
	assert.Equal(t, 0, st.UplinkWeak)
	assert.Equal(t, 0, st.DownlinkLost)

	totalSent := 0
	for _, id := range s.GetNodeIds() {
		c := s.GetNode(id).Counters()
		assert.True(t, c.UplinksSent >= 21, "node %d sent only %d uplinks", id, c.UplinksSent)
		assert.True(t, c.AdrApplied >= 1, "node %d never applied ADR", id)
		totalSent += c.UplinksSent
	}
	assert.Equal(t, totalSent, st.Received)

	// Nodes this close end up above DR0 once ADR has run.
	for _, id := range s.GetNodeIds() {
		assert.True(t, s.GetNode(id).Parameters().DataRate > lorawan.DR0)
	}
}

func TestKpiFileWritten(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSimulation(t, cfg)

	s.PostAsync(false, func() {
		_, _ = s.AddNode(0, 50, 0)
	})
	<-s.Go(2000 * time.Second)

	require.NoError(t, s.SaveKpiFile(cfg.KpiFile))

	data, err := os.ReadFile(cfg.KpiFile)
	require.NoError(t, err)

	var kpi Kpi
	require.NoError(t, json.Unmarshal(data, &kpi))
	assert.Equal(t, "Ideal", kpi.RadioModel)
	assert.Equal(t, 2000.0, kpi.TimeSec)
	assert.True(t, kpi.Gateway.Received > 0)
	assert.Contains(t, kpi.Nodes, types.NodeId(1))
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(`
nodes:
  - id: 1
    x: 100
    y: 0
  - id: 2
    x: 0
    y: 250
    interval: 300
    payload: 12
`), 0644))

	sc, err := LoadScenario(fn)
	require.NoError(t, err)
	require.Equal(t, 2, len(sc.Nodes))
	assert.Equal(t, 300.0, sc.Nodes[1].IntervalSec)
	assert.Equal(t, 12, sc.Nodes[1].PayloadSize)

	s := newTestSimulation(t, testConfig(t))
	s.PostAsync(false, func() {
		assert.NoError(t, s.ApplyScenario(sc))
	})
	<-s.Go(time.Second)
	assert.ElementsMatch(t, []types.NodeId{1, 2}, s.GetNodeIds())
}

func TestLoadScenarioRejectsDuplicateIds(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("nodes:\n  - id: 3\n  - id: 3\n"), 0644))
	_, err := LoadScenario(fn)
	assert.Error(t, err)
}
