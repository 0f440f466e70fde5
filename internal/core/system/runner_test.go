package system

import "testing"

type fakeSystem struct {
	phase Phase
	name  string
	calls *[]string
}

func (p *fakeSystem) Phase() Phase { return p.phase }
func (p *fakeSystem) Update(tick uint64) {
	*p.calls = append(*p.calls, p.name)
}

func TestRunnerPhaseOrder(t *testing.T) {
	var calls []string
	r := NewRunner()
	r.Register(&fakeSystem{phase: PhaseCleanup, name: "cleanup", calls: &calls})
	r.Register(&fakeSystem{phase: PhaseUpdate, name: "update", calls: &calls})
	r.Register(&fakeSystem{phase: PhasePersist, name: "persist", calls: &calls})
	r.Register(&fakeSystem{phase: PhasePostUpdate, name: "post", calls: &calls})

	r.Tick(1)

	want := []string{"update", "post", "persist", "cleanup"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestRunnerRegistrationOrderWithinPhase(t *testing.T) {
	var calls []string
	r := NewRunner()
	r.Register(&fakeSystem{phase: PhaseUpdate, name: "a", calls: &calls})
	r.Register(&fakeSystem{phase: PhaseUpdate, name: "b", calls: &calls})
	r.Register(&fakeSystem{phase: PhaseUpdate, name: "c", calls: &calls})

	for tick := uint64(1); tick <= 3; tick++ {
		calls = calls[:0]
		r.Tick(tick)
		if calls[0] != "a" || calls[1] != "b" || calls[2] != "c" {
			t.Fatalf("tick %d order = %v", tick, calls)
		}
	}
}

func TestRunnerLateRegistration(t *testing.T) {
	var calls []string
	r := NewRunner()
	r.Register(&fakeSystem{phase: PhasePersist, name: "persist", calls: &calls})
	r.Tick(1)

	r.Register(&fakeSystem{phase: PhaseUpdate, name: "update", calls: &calls})
	calls = calls[:0]
	r.Tick(2)
	if len(calls) != 2 || calls[0] != "update" || calls[1] != "persist" {
		t.Fatalf("calls = %v", calls)
	}
}
