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

// Package dispatcher implements the discrete-event scheduler of the
// simulator. It keeps a single time-ordered event queue and drives the
// registered callback handler strictly sequentially, so everything the
// handler touches can stay lock-free.
package dispatcher

import (
	"time"

	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/progctx"
	"github.com/lwns-sim/lwns/types"
)

const (
	// MaxSimulateSpeed is the simulation speed at or above which the
	// dispatcher stops pacing against wall-clock time entirely.
	MaxSimulateSpeed = 1000000

	// DefaultSimulateSpeed runs the simulation as fast as possible.
	DefaultSimulateSpeed = MaxSimulateSpeed
)

// Config holds the dispatcher configuration.
type Config struct {
	Speed float64
}

// DefaultConfig gets the default dispatcher configuration.
func DefaultConfig() *Config {
	return &Config{
		Speed: DefaultSimulateSpeed,
	}
}

// CallbackHandler is implemented by the simulation to process events at
// their due time. The dispatcher calls it with CurTime equal to the event's
// timestamp.
type CallbackHandler interface {
	OnUplinkEvent(evt *Event)
}

type goDuration struct {
	duration time.Duration
	done     chan struct{}
}

// Dispatcher is the discrete-event scheduler. CurTime is the current
// simulated time in microseconds; it only ever moves forward.
type Dispatcher struct {
	CurTime uint64

	ctx                *progctx.ProgCtx
	cfg                Config
	cbHandler          CallbackHandler
	evtQueue           *eventQueue
	nodes              map[types.NodeId]struct{}
	deletedNodes       map[types.NodeId]struct{}
	pauseTime          uint64
	speed              float64
	speedStartRealTime time.Time
	speedStartTime     uint64
	taskChan           chan func()
	goDurationChan     chan goDuration
	stopped            bool

	Counters struct {
		UplinkEvents  uint64
		DroppedEvents uint64
	}
}

// NewDispatcher creates a dispatcher; cbHandler receives all due events once
// Run is started.
func NewDispatcher(ctx *progctx.ProgCtx, cfg *Config, cbHandler CallbackHandler) *Dispatcher {
	d := &Dispatcher{
		ctx:                ctx,
		cfg:                *cfg,
		cbHandler:          cbHandler,
		evtQueue:           newEventQueue(),
		nodes:              make(map[types.NodeId]struct{}),
		deletedNodes:       make(map[types.NodeId]struct{}),
		speedStartRealTime: time.Now(),
		taskChan:           make(chan func(), 100),
		goDurationChan:     make(chan goDuration, 10),
	}
	d.speed = normalizeSpeed(cfg.Speed)
	logger.Debugf("dispatcher created: speed=%v", d.speed)
	return d
}

func normalizeSpeed(speed float64) float64 {
	if speed < 0 {
		speed = 0
	} else if speed >= MaxSimulateSpeed {
		speed = MaxSimulateSpeed
	}
	return speed
}

// Stop stops the dispatcher. Idempotent.
func (d *Dispatcher) Stop() {
	if d.stopped {
		return
	}
	d.stopped = true
	logger.Debugf("dispatcher stopped at %d us", d.CurTime)
}

// GetSpeed gets the current simulation speed.
func (d *Dispatcher) GetSpeed() float64 {
	return d.speed
}

// SetSpeed sets the simulation speed, taking effect on the next events.
func (d *Dispatcher) SetSpeed(speed float64) {
	d.speed = normalizeSpeed(speed)
	d.speedStartRealTime = time.Now()
	d.speedStartTime = d.CurTime
}

// AddNode registers a node id with the dispatcher so events can be scheduled
// for it.
func (d *Dispatcher) AddNode(nodeid types.NodeId) {
	_, ok := d.nodes[nodeid]
	logger.AssertFalse(ok, "node already added")
	d.nodes[nodeid] = struct{}{}
	delete(d.deletedNodes, nodeid)
}

// DeleteNode removes a node; its pending events are dropped when they come
// due.
func (d *Dispatcher) DeleteNode(nodeid types.NodeId) {
	_, ok := d.nodes[nodeid]
	logger.AssertTrue(ok, "node not present")
	delete(d.nodes, nodeid)
	d.deletedNodes[nodeid] = struct{}{}
}

// NodeCount gets the number of registered nodes.
func (d *Dispatcher) NodeCount() int {
	return len(d.nodes)
}

// ScheduleUplink schedules an uplink event of a node at delay after the
// current simulated time. Must be called from the dispatcher goroutine, i.e.
// from an event callback or a posted task.
func (d *Dispatcher) ScheduleUplink(nodeid types.NodeId, delay time.Duration) {
	d.evtQueue.Add(&Event{
		Timestamp: d.CurTime + uint64(delay/time.Microsecond),
		NodeId:    nodeid,
		Type:      EventTypeUplinkTx,
	})
}

// Go runs the simulation for the given duration of simulated time. The
// returned channel closes once that time was fully simulated.
func (d *Dispatcher) Go(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	d.goDurationChan <- goDuration{
		duration: duration,
		done:     done,
	}
	return done
}

// Run is the dispatcher's main loop; it blocks until the program context is
// cancelled. All event and task processing happens on this goroutine.
func (d *Dispatcher) Run() {
	d.ctx.WaitAdd("dispatcher", 1)
	defer d.ctx.WaitDone("dispatcher")
	defer logger.Debugf("dispatcher exit.")

	defer d.Stop()

	done := d.ctx.Done()
loop:
	for {
		select {
		case f := <-d.taskChan:
			f()
		case duration := <-d.goDurationChan:
			// sync the speed start time with the current time
			d.speedStartRealTime = time.Now()
			d.speedStartTime = d.CurTime

			logger.AssertTrue(d.CurTime == d.pauseTime)
			oldPauseTime := d.pauseTime
			d.pauseTime += uint64(duration.duration / time.Microsecond)
			if d.pauseTime > types.Ever || d.pauseTime < oldPauseTime {
				d.pauseTime = types.Ever
			}

			logger.AssertTrue(d.CurTime <= d.pauseTime)
			d.goUntilPauseTime()

			if d.ctx.Err() != nil {
				close(duration.done)
				break loop
			}

			logger.AssertTrue(d.CurTime == d.pauseTime)
			close(duration.done)
		case <-done:
			break loop
		}
	}
}

func (d *Dispatcher) goUntilPauseTime() {
	for d.CurTime < d.pauseTime {
		d.handleTasks()

		if d.ctx.Err() != nil {
			break
		}

		goon := d.processNextEvent()
		logger.AssertTrue(d.CurTime <= d.pauseTime)

		if !goon {
			// no more events until pauseTime; jump straight to the goal.
			d.advanceTime(d.pauseTime)
		}
	}
}

// processNextEvent processes all events due at the next event time, if that
// time lies within the current go-period. Returns false when simulated time
// can be advanced to the pause time directly.
func (d *Dispatcher) processNextEvent() bool {
	logger.AssertTrue(d.CurTime <= d.pauseTime)

	nextEventTime := d.evtQueue.NextTimestamp()

	// pace against real time at below-maximum speeds.
	if d.speed < MaxSimulateSpeed {
		sleepUntilTime := nextEventTime
		if sleepUntilTime > d.pauseTime {
			sleepUntilTime = d.pauseTime
		}

		var needSleepDuration time.Duration
		if d.speed <= 0 {
			needSleepDuration = time.Hour
		} else {
			needSleepDuration = time.Duration(float64(sleepUntilTime-d.speedStartTime)/d.speed) * time.Microsecond
		}
		sleepUntilRealTime := d.speedStartRealTime.Add(needSleepDuration)
		sleepTime := time.Until(sleepUntilRealTime)

		if sleepTime > 0 {
			if sleepTime > time.Millisecond*10 {
				sleepTime = time.Millisecond * 10
			}
			time.Sleep(sleepTime)
			return true
		}
	}

	if nextEventTime > d.pauseTime {
		return false
	}

	logger.AssertTrue(nextEventTime >= d.CurTime)
	d.advanceTime(nextEventTime)

	// process all events that are due at exactly this time.
	for d.evtQueue.NextTimestamp() <= d.CurTime {
		evt := d.evtQueue.PopNext()
		logger.AssertEqual(evt.Timestamp, d.CurTime)

		if _, deleted := d.deletedNodes[evt.NodeId]; deleted {
			d.Counters.DroppedEvents++
			continue
		}

		switch evt.Type {
		case EventTypeUplinkTx:
			d.Counters.UplinkEvents++
			d.cbHandler.OnUplinkEvent(evt)
		default:
			logger.Panicf("unknown event type %d", evt.Type)
		}
	}
	return true
}

func (d *Dispatcher) advanceTime(ts uint64) {
	logger.AssertTrue(d.CurTime <= ts, "time moving backwards: %v > %v", d.CurTime, ts)
	logger.AssertTrue(ts <= d.evtQueue.NextTimestamp())
	d.CurTime = ts
}

// PostAsync posts a task to be executed on the dispatcher goroutine. A
// trivial task may be silently dropped when the task queue is full.
func (d *Dispatcher) PostAsync(trivial bool, task func()) {
	if trivial {
		select {
		case d.taskChan <- task:
		default:
		}
	} else {
		d.taskChan <- task
	}
}

func (d *Dispatcher) handleTasks() {
	defer func() {
		err := recover()
		if err != nil {
			logger.Errorf("dispatcher handle task failed: %+v", err)
		}
	}()

loop:
	for {
		select {
		case t := <-d.taskChan:
			t()
		default:
			break loop
		}
	}
}
