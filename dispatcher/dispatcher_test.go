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

package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lwns-sim/lwns/progctx"
	"github.com/lwns-sim/lwns/types"
)

type recordingHandler struct {
	d        *Dispatcher
	times    []uint64
	nodeIds  []types.NodeId
	interval time.Duration
}

func (h *recordingHandler) OnUplinkEvent(evt *Event) {
	h.times = append(h.times, evt.Timestamp)
	h.nodeIds = append(h.nodeIds, evt.NodeId)
	if h.interval > 0 {
		h.d.ScheduleUplink(evt.NodeId, h.interval)
	}
}

func newTestDispatcher(t *testing.T, interval time.Duration) (*Dispatcher, *recordingHandler, *progctx.ProgCtx) {
	ctx := progctx.New(context.Background())
	h := &recordingHandler{interval: interval}
	d := NewDispatcher(ctx, DefaultConfig(), h)
	h.d = d
	go d.Run()
	t.Cleanup(func() {
		ctx.Cancel(nil)
		ctx.Wait()
	})
	return d, h, ctx
}

func TestEventQueueOrdering(t *testing.T) {
	q := newEventQueue()
	assert.Equal(t, types.Ever, q.NextTimestamp())
	assert.Nil(t, q.PopNext())

	for _, ts := range []uint64{500, 100, 300, 200, 400} {
		q.Add(&Event{Timestamp: ts, NodeId: 1, Type: EventTypeUplinkTx})
	}
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, uint64(100), q.NextTimestamp())

	var got []uint64
	for q.Len() > 0 {
		got = append(got, q.PopNext().Timestamp)
	}
	assert.Equal(t, []uint64{100, 200, 300, 400, 500}, got)
}

func TestDispatcherRunsPeriodicEvents(t *testing.T) {
	d, h, _ := newTestDispatcher(t, time.Second)

	d.PostAsync(false, func() {
		d.AddNode(1)
		d.ScheduleUplink(1, time.Second)
	})
	<-d.Go(10 * time.Second)

	assert.Equal(t, types.Timestamp(10*time.Second), d.CurTime)
	assert.Equal(t, 10, len(h.times))
	for i, ts := range h.times {
		assert.Equal(t, types.Timestamp(time.Duration(i+1)*time.Second), ts)
	}
	assert.Equal(t, uint64(10), d.Counters.UplinkEvents)
}

func TestDispatcherAdvancesWithoutEvents(t *testing.T) {
	d, h, _ := newTestDispatcher(t, 0)

	<-d.Go(time.Hour)
	assert.Equal(t, types.Timestamp(time.Hour), d.CurTime)
	assert.Empty(t, h.times)
}

func TestDispatcherDropsEventsOfDeletedNode(t *testing.T) {
	d, h, _ := newTestDispatcher(t, 0)

	d.PostAsync(false, func() {
		d.AddNode(1)
		d.AddNode(2)
		d.ScheduleUplink(1, time.Second)
		d.ScheduleUplink(2, time.Second)
		d.DeleteNode(2)
	})
	<-d.Go(2 * time.Second)

	assert.Equal(t, []types.NodeId{1}, h.nodeIds)
	assert.Equal(t, uint64(1), d.Counters.DroppedEvents)
	assert.Equal(t, 1, d.NodeCount())
}

func TestDispatcherMultipleGoPeriods(t *testing.T) {
	d, h, _ := newTestDispatcher(t, 3*time.Second)

	d.PostAsync(false, func() {
		d.AddNode(1)
		d.ScheduleUplink(1, 3*time.Second)
	})
	<-d.Go(4 * time.Second)
	assert.Equal(t, 1, len(h.times))

	<-d.Go(4 * time.Second)
	assert.Equal(t, 2, len(h.times))
	assert.Equal(t, types.Timestamp(8*time.Second), d.CurTime)
}
