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
	"container/heap"

	"github.com/lwns-sim/lwns/logger"
	"github.com/lwns-sim/lwns/types"
)

// EventType identifies what an event in the queue represents.
type EventType uint8

const (
	// EventTypeUplinkTx is a node's uplink transmission arriving at the
	// gateway at the event's timestamp.
	EventTypeUplinkTx EventType = iota
)

// Event is one entry of the simulation event queue.
type Event struct {
	Timestamp uint64
	NodeId    types.NodeId
	Type      EventType

	index int
}

type eventHeap []*Event

func (eq eventHeap) Len() int {
	return len(eq)
}

func (eq eventHeap) Less(i, j int) bool {
	return eq[i].Timestamp < eq[j].Timestamp
}

func (eq eventHeap) Swap(i, j int) {
	a, b := eq[i], eq[j]
	if a.index != i && b.index != j {
		logger.Panicf("wrong index")
	}

	eq[i], eq[j] = b, a             // swap the elements
	eq[i].index, eq[j].index = i, j // fix the indexes
}

func (eq *eventHeap) Push(x interface{}) {
	e := x.(*Event)
	*eq = append(*eq, e)
	e.index = len(*eq) - 1
}

func (eq *eventHeap) Pop() (elem interface{}) {
	eqlen := len(*eq)
	elem = (*eq)[eqlen-1]
	*eq = (*eq)[:eqlen-1]
	return
}

// eventQueue is the time-ordered queue of pending simulation events.
type eventQueue struct {
	q eventHeap
}

func newEventQueue() *eventQueue {
	q := &eventQueue{q: eventHeap{}}
	heap.Init(&q.q)
	return q
}

func (q *eventQueue) Add(evt *Event) {
	heap.Push(&q.q, evt)
}

// NextTimestamp gets the timestamp of the earliest pending event, or Ever
// when the queue is empty.
func (q *eventQueue) NextTimestamp() uint64 {
	if len(q.q) == 0 {
		return types.Ever
	}
	return q.q[0].Timestamp
}

// PopNext removes and returns the earliest pending event; nil when empty.
func (q *eventQueue) PopNext() *Event {
	if len(q.q) == 0 {
		return nil
	}
	return heap.Pop(&q.q).(*Event)
}

func (q *eventQueue) Len() int {
	return len(q.q)
}
