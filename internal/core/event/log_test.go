package event

import (
	"testing"

	"github.com/worldweaver/server/internal/core/ecs"
)

func TestLogSeqStrictlyIncreasing(t *testing.T) {
	l := NewLog()
	for tick := uint64(1); tick <= 5; tick++ {
		l.Record(tick, TimeAdvanced{NewHour: int(tick)})
	}
	recs := l.QuerySinceTick(0)
	if len(recs) != 5 {
		t.Fatalf("got %d records", len(recs))
	}
	for i, rec := range recs {
		if rec.Seq != uint64(i) {
			t.Fatalf("rec %d has seq %d", i, rec.Seq)
		}
	}
	if l.NextSeq() != 5 {
		t.Fatalf("NextSeq = %d", l.NextSeq())
	}
}

func TestLogGetReturnsImmutableCopy(t *testing.T) {
	l := NewLog()
	id := l.Record(1, WeatherChanged{OldWeather: "clear", NewWeather: "rain"})

	rec, ok := l.Get(id)
	if !ok {
		t.Fatal("Get missed a recorded event")
	}
	if len(rec.Tags) == 0 {
		t.Fatal("record carries no tags")
	}
	rec.Tags[0] = "tampered"

	again, _ := l.Get(id)
	if again.Tags[0] == "tampered" {
		t.Fatal("mutating a returned record changed the log")
	}
	if again.Event.(WeatherChanged).NewWeather != "rain" {
		t.Fatal("stored event changed")
	}
}

func TestLogQueryByTagNewestFirst(t *testing.T) {
	l := NewLog()
	l.Record(1, TimeAdvanced{NewHour: 1})
	l.Record(2, WeatherChanged{NewWeather: "rain"})
	l.Record(3, TimeAdvanced{NewHour: 2})
	l.Record(4, TimeAdvanced{NewHour: 3})

	recs := l.QueryByTag("time", 2)
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Tick != 4 || recs[1].Tick != 3 {
		t.Fatalf("wrong order: ticks %d, %d", recs[0].Tick, recs[1].Tick)
	}
	if got := l.QueryByTag("no_such_tag", 10); len(got) != 0 {
		t.Fatalf("unknown tag returned %d records", len(got))
	}
}

func TestLogQueryCombinesTagsFloorAndLimit(t *testing.T) {
	l := NewLog()
	npc := ecs.NewEntityID()
	other := ecs.NewEntityID()

	l.Record(1, NpcMoved{NpcID: npc})
	l.Record(2, NpcMoved{NpcID: other})
	l.Record(3, NpcMoved{NpcID: npc})
	l.Record(4, PlayerTalkedToNpc{NpcID: npc})
	l.Record(5, NpcMoved{NpcID: npc})

	// Every tag must match: movement by this one npc.
	recs := l.Query([]string{"movement", "npc:" + npc.String()}, 0, 10)
	if len(recs) != 3 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Tick != 5 || recs[1].Tick != 3 || recs[2].Tick != 1 {
		t.Fatalf("wrong order: ticks %d, %d, %d", recs[0].Tick, recs[1].Tick, recs[2].Tick)
	}

	// The tick floor is exclusive, like QuerySinceTick.
	recs = l.Query([]string{"movement", "npc:" + npc.String()}, 1, 10)
	if len(recs) != 2 {
		t.Fatalf("floor 1 returned %d records", len(recs))
	}

	// The limit keeps the newest matches.
	recs = l.Query([]string{"npc"}, 0, 2)
	if len(recs) != 2 || recs[0].Tick != 5 || recs[1].Tick != 3 {
		t.Fatalf("limited query = %d records", len(recs))
	}

	// No tags means every entry past the floor.
	if got := l.Query(nil, 3, 0); len(got) != 2 {
		t.Fatalf("untagged query = %d records", len(got))
	}
}

func TestLogQuerySinceTickIsExclusive(t *testing.T) {
	l := NewLog()
	l.Record(10, TimeAdvanced{})
	l.Record(20, TimeAdvanced{})
	l.Record(20, WeatherChanged{})
	l.Record(30, TimeAdvanced{})

	recs := l.QuerySinceTick(20)
	if len(recs) != 1 || recs[0].Tick != 30 {
		t.Fatalf("QuerySinceTick(20) = %d records", len(recs))
	}
	if got := l.QuerySinceTick(9); len(got) != 4 {
		t.Fatalf("QuerySinceTick(9) = %d records", len(got))
	}
}

func TestLogQueryInRoom(t *testing.T) {
	l := NewLog()
	room := ecs.NewEntityID()
	other := ecs.NewEntityID()
	npc := ecs.NewEntityID()

	l.Record(1, NpcMoved{NpcID: npc, ToRoom: room})
	l.Record(2, NpcMoved{NpcID: npc, ToRoom: other})
	l.Record(3, PlayerTalkedToNpc{NpcID: npc, RoomID: room})
	l.Record(4, TimeAdvanced{})

	recs := l.QueryInRoom(room, 10)
	if len(recs) != 2 {
		t.Fatalf("got %d records in room", len(recs))
	}
	if recs[0].Tick != 3 || recs[1].Tick != 1 {
		t.Fatalf("wrong order: ticks %d, %d", recs[0].Tick, recs[1].Tick)
	}
}

func TestLogAppendedSince(t *testing.T) {
	l := NewLog()
	for tick := uint64(1); tick <= 4; tick++ {
		l.Record(tick, TimeAdvanced{})
	}
	cursor := l.NextSeq()
	l.Record(5, WeatherChanged{})
	l.Record(6, WeatherChanged{})

	delta := l.AppendedSince(cursor)
	if len(delta) != 2 {
		t.Fatalf("delta has %d records", len(delta))
	}
	if delta[0].Seq != cursor || delta[1].Seq != cursor+1 {
		t.Fatalf("delta seqs %d, %d; cursor %d", delta[0].Seq, delta[1].Seq, cursor)
	}
}

func TestLogCompactDropsPrefixOnly(t *testing.T) {
	l := NewLog()
	oldID := l.Record(1, TimeAdvanced{NewHour: 1})
	l.Record(50, TimeAdvanced{NewHour: 2})
	keptID := l.Record(100, TimeAdvanced{NewHour: 3})

	dropped := l.Compact(100, 10) // cutoff at tick 90
	if dropped != 2 {
		t.Fatalf("dropped %d, want 2", dropped)
	}
	if l.Len() != 1 {
		t.Fatalf("Len = %d after compaction", l.Len())
	}
	if _, ok := l.Get(oldID); ok {
		t.Fatal("compacted record still retrievable")
	}
	rec, ok := l.Get(keptID)
	if !ok || rec.Tick != 100 {
		t.Fatal("surviving record lost")
	}

	recs := l.QueryByTag("time", 10)
	if len(recs) != 1 || recs[0].Tick != 100 {
		t.Fatalf("tag index not rebuilt: %d records", len(recs))
	}

	// Seq numbering continues from where it was.
	l.Record(101, TimeAdvanced{NewHour: 4})
	if l.NextSeq() != 4 {
		t.Fatalf("NextSeq = %d after compaction", l.NextSeq())
	}
}

func TestLogCompactKeepsEverythingInsideWindow(t *testing.T) {
	l := NewLog()
	l.Record(1, TimeAdvanced{})
	l.Record(2, TimeAdvanced{})
	if dropped := l.Compact(10, 100); dropped != 0 {
		t.Fatalf("dropped %d, want 0", dropped)
	}
	if l.Len() != 2 {
		t.Fatalf("Len = %d", l.Len())
	}
}

func TestLogReset(t *testing.T) {
	l := NewLog()
	id := ecs.NewEntityID()
	for tick := uint64(1); tick <= 5; tick++ {
		l.Record(tick, NpcMoved{NpcID: id})
	}

	l.Reset()
	if got := l.QuerySinceTick(0); len(got) != 0 {
		t.Fatalf("records after reset: %d", len(got))
	}
	if got := l.QueryByTag("npc", 10); len(got) != 0 {
		t.Fatal("tag index survived reset")
	}

	rec := l.Record(1, NpcMoved{NpcID: id})
	got, ok := l.Get(rec)
	if !ok || got.Seq != 0 {
		t.Fatalf("first record after reset: seq %d", got.Seq)
	}
}
