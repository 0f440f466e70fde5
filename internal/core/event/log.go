package event

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/worldweaver/server/internal/core/ecs"
)

// Record is one immutable entry in the log. Once Record returns from the Log
// the entry is never edited; Compact is the only way entries disappear.
type Record struct {
	ID        uuid.UUID
	Seq       uint64 // insertion sequence, strictly increasing for the life of the process
	Tick      uint64
	Timestamp time.Time
	Event     GameEvent
	Tags      []string
}

// Log is the append-only event history. A single writer lock serializes
// appends; within a tick the order is system execution order, across ticks
// it is tick order. Entries are tick-sorted by construction, which lets
// Compact drop a prefix and QuerySinceTick binary-search.
type Log struct {
	mu      sync.RWMutex
	events  []Record
	base    uint64              // Seq of events[0]
	nextSeq uint64              // Seq the next Record will get
	byTag   map[string][]uint64 // tag -> seqs carrying it, append order
	byID    map[uuid.UUID]uint64
}

func NewLog() *Log {
	return &Log{
		events: make([]Record, 0, 1024),
		byTag:  make(map[string][]uint64),
		byID:   make(map[uuid.UUID]uint64),
	}
}

// Record appends ev at the given tick and returns the new entry's id.
// Tags are derived from the variant, never supplied by the caller.
func (l *Log) Record(tick uint64, ev GameEvent) uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := Record{
		ID:        uuid.New(),
		Seq:       l.nextSeq,
		Tick:      tick,
		Timestamp: time.Now().UTC(),
		Event:     ev,
		Tags:      ev.Tags(),
	}
	l.events = append(l.events, rec)
	l.nextSeq++
	for _, tag := range rec.Tags {
		l.byTag[tag] = append(l.byTag[tag], rec.Seq)
	}
	l.byID[rec.ID] = rec.Seq
	return rec.ID
}

// Reset drops every entry and restarts the sequence counter. Only a world
// reload calls this; the durable event history is unaffected.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = l.events[:0]
	l.base = 0
	l.nextSeq = 0
	clear(l.byTag)
	clear(l.byID)
}

// Get returns the entry with the given id, if it has not been compacted away.
func (l *Log) Get(id uuid.UUID) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seq, ok := l.byID[id]
	if !ok || seq < l.base {
		return Record{}, false
	}
	return l.copyAt(seq), true
}

// QueryByTag returns the most recent limit entries carrying tag, newest first.
func (l *Log) QueryByTag(tag string, limit int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seqs := l.byTag[tag]
	out := make([]Record, 0, limit)
	for i := len(seqs) - 1; i >= 0 && len(out) < limit; i-- {
		if seqs[i] < l.base {
			break // everything earlier was compacted
		}
		out = append(out, l.copyAt(seqs[i]))
	}
	return out
}

// Query returns the most recent limit entries that carry every given tag
// and have Tick > sinceTick, newest first. An empty tag set matches every
// entry; a non-positive limit means no bound.
func (l *Log) Query(tags []string, sinceTick uint64, limit int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, 0)
	for i := len(l.events) - 1; i >= 0; i-- {
		rec := &l.events[i]
		if rec.Tick <= sinceTick {
			break // tick-sorted, nothing earlier can pass the floor
		}
		if !carriesAll(rec.Tags, tags) {
			continue
		}
		out = append(out, l.copyAt(rec.Seq))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func carriesAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// QuerySinceTick returns all entries with Tick > tick, in tick order.
func (l *Log) QuerySinceTick(tick uint64) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := sort.Search(len(l.events), func(i int) bool { return l.events[i].Tick > tick })
	out := make([]Record, 0, len(l.events)-i)
	for ; i < len(l.events); i++ {
		out = append(out, l.copyAt(l.events[i].Seq))
	}
	return out
}

// QueryInRoom returns the most recent limit entries whose payload references
// the room, newest first.
func (l *Log) QueryInRoom(roomID ecs.EntityID, limit int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, 0, limit)
	for i := len(l.events) - 1; i >= 0 && len(out) < limit; i-- {
		if rs, ok := l.events[i].Event.(RoomScoped); ok && rs.Room() == roomID {
			out = append(out, l.copyAt(l.events[i].Seq))
		}
	}
	return out
}

// AppendedSince returns entries with Seq >= seq, in order. The persistence
// layer uses this to append only the delta since the last save.
func (l *Log) AppendedSince(seq uint64) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := seq
	if start < l.base {
		start = l.base
	}
	out := make([]Record, 0)
	for s := start; s < l.nextSeq; s++ {
		out = append(out, l.copyAt(s))
	}
	return out
}

// NextSeq returns the sequence the next Record would receive.
func (l *Log) NextSeq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nextSeq
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Compact irreversibly deletes entries with Tick < currentTick-keepTicks and
// returns the count removed. This is the only destructive operation on the
// log; nothing calls it without explicit configuration.
func (l *Log) Compact(currentTick, keepTicks uint64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var cutoff uint64
	if currentTick > keepTicks {
		cutoff = currentTick - keepTicks
	}
	n := sort.Search(len(l.events), func(i int) bool { return l.events[i].Tick >= cutoff })
	if n == 0 {
		return 0
	}
	for _, rec := range l.events[:n] {
		delete(l.byID, rec.ID)
	}
	l.events = append(l.events[:0:0], l.events[n:]...)
	l.base += uint64(n)
	for tag, seqs := range l.byTag {
		i := sort.Search(len(seqs), func(i int) bool { return seqs[i] >= l.base })
		if i == len(seqs) {
			delete(l.byTag, tag)
			continue
		}
		l.byTag[tag] = append(seqs[:0:0], seqs[i:]...)
	}
	return n
}

// copyAt returns a defensive copy of the entry at seq. Tags are copied so a
// caller can never mutate the stored record. Caller must hold at least RLock.
func (l *Log) copyAt(seq uint64) Record {
	rec := l.events[seq-l.base]
	rec.Tags = append([]string(nil), rec.Tags...)
	return rec
}
