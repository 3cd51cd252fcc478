// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// JournalCapacity is the bounded capacity of a registry's mix journal.
// When the ring is full the oldest event is dropped.
const JournalCapacity = 64

// MixEvent records one Mix request.
type MixEvent struct {
	Serial  Serial
	Target  string
	Feature string
	// Applied is false when the feature was already in effect.
	Applied bool
}

// journal is a bounded single-producer single-consumer ring of mix events.
// The registry lock serializes both ends.
type journal struct {
	q       lfq.SPSC[MixEvent]
	dropped atomix.Uint32
}

func newJournal() *journal {
	j := &journal{}
	j.q.Init(JournalCapacity)
	return j
}

// record appends ev, evicting the oldest event on iox.ErrWouldBlock.
func (j *journal) record(ev MixEvent) {
	ev.Serial = nextSerial()
	for range 2 {
		err := j.q.Enqueue(&ev)
		if err == nil || !iox.IsWouldBlock(err) {
			return
		}
		if _, err := j.q.Dequeue(); err == nil {
			j.dropped.Add(1)
		}
	}
}

// drain removes and returns every buffered event, oldest first.
func (j *journal) drain() []MixEvent {
	var out []MixEvent
	for {
		ev, err := j.q.Dequeue()
		if err != nil {
			return out
		}
		out = append(out, ev)
	}
}

// droppedCount returns the number of evicted events.
func (j *journal) droppedCount() uint32 {
	return j.dropped.Load()
}
