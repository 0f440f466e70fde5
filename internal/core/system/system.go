package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseUpdate     Phase = iota // 0: simulation logic (clock, schedules, economy, factions)
	PhasePostUpdate              // 1: derived state after logic settles
	PhasePersist                 // 2: periodic durable flush
	PhaseCleanup                 // 3: log compaction, deferred removals
)

// System is one ordered update routine invoked every tick. A system may
// mutate the world and append to the event log, and nothing else.
type System interface {
	Phase() Phase
	Update(tick uint64)
}
