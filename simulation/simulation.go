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

// Package simulation ties the simulator together: it owns the gateway, the
// node population and the dispatcher, and implements the event callbacks
// that make up one uplink/downlink exchange.
package simulation

import (
	"time"

	"github.com/pkg/errors"

	"github.com/lwns-sim/lwns/dispatcher"
	"github.com/lwns-sim/lwns/gateway"
	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/lorawan"
	"github.com/lwns-sim/lwns/node"
	"github.com/lwns-sim/lwns/prng"
	"github.com/lwns-sim/lwns/progctx"
	"github.com/lwns-sim/lwns/radiomodel"
	"github.com/lwns-sim/lwns/types"
)

// Simulation is one simulated LoRaWAN network: a single gateway plus any
// number of end devices, driven by the dispatcher's event loop.
type Simulation struct {
	ctx        *progctx.ProgCtx
	cfg        *Config
	d          *dispatcher.Dispatcher
	band       *lorawan.Band
	radioModel radiomodel.RadioModel
	gw         *gateway.Gateway
	nodes      map[types.NodeId]*node.Node
	nextNodeId types.NodeId
	stopped    bool
}

// NewSimulation creates a simulation per cfg. The PRNG root seed is applied
// here, before any model or node draws randomness.
func NewSimulation(ctx *progctx.ProgCtx, cfg *Config) (*Simulation, error) {
	prng.Init(cfg.Seed)

	rm := radiomodel.NewRadioModel(cfg.RadioModelName)
	if rm == nil {
		return nil, errors.Errorf("unknown radio model: %s", cfg.RadioModelName)
	}

	band := lorawan.EU868()
	s := &Simulation{
		ctx:        ctx,
		cfg:        cfg,
		band:       band,
		radioModel: rm,
		gw: gateway.NewGateway(types.Location{X: cfg.GatewayX, Y: cfg.GatewayY},
			band, rm, cfg.AdrMarginDb),
		nodes:      make(map[types.NodeId]*node.Node),
		nextNodeId: 1,
	}
	s.d = dispatcher.NewDispatcher(ctx, &dispatcher.Config{Speed: cfg.Speed}, s)

	logger.Infof("simulation created: radiomodel=%s adrMargin=%.0f dB band=%s",
		rm.Name(), cfg.AdrMarginDb, band.Name)
	return s, nil
}

// Run runs the simulation's event loop; it blocks until the program context
// is cancelled.
func (s *Simulation) Run() {
	s.ctx.WaitAdd("simulation", 1)
	defer s.ctx.WaitDone("simulation")
	defer s.Stop()

	s.d.Run()
}

// Stop finalizes the simulation: the KPI file is written once.
func (s *Simulation) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	logger.Infof("simulation stopped at %v", time.Duration(s.d.CurTime)*time.Microsecond)

	if s.cfg.KpiFile != "" {
		if err := s.SaveKpiFile(s.cfg.KpiFile); err != nil {
			logger.Errorf("could not save KPI file: %v", err)
		}
	}
	s.d.Stop()
}

// IsStopped reports whether the simulation was stopped.
func (s *Simulation) IsStopped() bool {
	return s.stopped
}

// OnUplinkEvent implements dispatcher.CallbackHandler: one node's uplink
// arrives at the gateway, the gateway's decision flows back to the node, and
// the node's next uplink is scheduled.
func (s *Simulation) OnUplinkEvent(evt *dispatcher.Event) {
	n := s.nodes[evt.NodeId]
	logger.AssertNotNil(n, "uplink event for unknown node %d", evt.NodeId)

	pkt := n.BuildUplink()
	decision := s.gw.Receive(n, pkt, s.d.CurTime)
	n.HandleDownlink(decision)

	s.d.ScheduleUplink(n.Id(), n.NextUplinkDelay())
}

// AddNode creates a node at (x, y) and schedules its first uplink. A
// nodeid of 0 picks the next free id. Must run on the dispatcher goroutine
// (use PostAsync from other goroutines).
func (s *Simulation) AddNode(nodeid types.NodeId, x, y float64) (*node.Node, error) {
	if nodeid == 0 {
		nodeid = s.genNodeId()
	} else if _, dup := s.nodes[nodeid]; dup {
		return nil, errors.Errorf("node %d already exists", nodeid)
	}

	n := node.NewNode(nodeid, types.Location{X: x, Y: y}, s.band)
	if s.cfg.UplinkInterval > 0 {
		n.SetUplinkInterval(s.cfg.UplinkInterval)
	}
	if s.cfg.PayloadSize > 0 {
		n.SetPayloadSize(s.cfg.PayloadSize)
	}
	s.nodes[nodeid] = n
	s.d.AddNode(nodeid)
	s.d.ScheduleUplink(nodeid, n.NextUplinkDelay())

	logger.Infof("added node %d at (%.0f, %.0f), %.0f m from gateway",
		nodeid, x, y, s.gw.Location().DistanceTo(n.Location()))
	return n, nil
}

func (s *Simulation) genNodeId() types.NodeId {
	for {
		id := s.nextNodeId
		s.nextNodeId++
		if _, used := s.nodes[id]; !used {
			return id
		}
	}
}

// DeleteNode removes a node from the simulation.
func (s *Simulation) DeleteNode(nodeid types.NodeId) error {
	if _, ok := s.nodes[nodeid]; !ok {
		return errors.Errorf("node %d not found", nodeid)
	}
	delete(s.nodes, nodeid)
	s.d.DeleteNode(nodeid)
	logger.Infof("deleted node %d", nodeid)
	return nil
}

// MoveNodeTo moves a node to a new position, changing its link budget from
// the next uplink on.
func (s *Simulation) MoveNodeTo(nodeid types.NodeId, x, y float64) error {
	n, ok := s.nodes[nodeid]
	if !ok {
		return errors.Errorf("node %d not found", nodeid)
	}
	n.MoveTo(types.Location{X: x, Y: y})
	return nil
}

// ApplyScenario adds all nodes of a loaded scenario.
func (s *Simulation) ApplyScenario(sc *Scenario) error {
	for _, nc := range sc.Nodes {
		n, err := s.AddNode(types.NodeId(nc.Id), nc.X, nc.Y)
		if err != nil {
			return err
		}
		if nc.IntervalSec > 0 {
			n.SetUplinkInterval(time.Duration(nc.IntervalSec * float64(time.Second)))
		}
		if nc.PayloadSize > 0 {
			n.SetPayloadSize(nc.PayloadSize)
		}
	}
	return nil
}

// GetNode gets a node by id; nil when not present.
func (s *Simulation) GetNode(nodeid types.NodeId) *node.Node {
	return s.nodes[nodeid]
}

// GetNodeIds gets the ids of all current nodes, in no particular order.
func (s *Simulation) GetNodeIds() []types.NodeId {
	ids := make([]types.NodeId, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	return ids
}

// Gateway gets the simulation's gateway.
func (s *Simulation) Gateway() *gateway.Gateway {
	return s.gw
}

// Dispatcher gets the simulation's dispatcher.
func (s *Simulation) Dispatcher() *dispatcher.Dispatcher {
	return s.d
}

// RadioModel gets the radio model in use.
func (s *Simulation) RadioModel() radiomodel.RadioModel {
	return s.radioModel
}

// SetRadioModel swaps the propagation model at runtime. Must run on the
// dispatcher goroutine.
func (s *Simulation) SetRadioModel(rm radiomodel.RadioModel) {
	s.radioModel = rm
	s.gw.SetRadioModel(rm)
}

// GetConfig gets the simulation's configuration.
func (s *Simulation) GetConfig() *Config {
	return s.cfg
}

// Go runs the simulation for a duration of simulated time; see
// dispatcher.Go.
func (s *Simulation) Go(duration time.Duration) <-chan struct{} {
	return s.d.Go(duration)
}

// PostAsync posts a task to run on the dispatcher goroutine.
func (s *Simulation) PostAsync(trivial bool, f func()) {
	s.d.PostAsync(trivial, f)
}
