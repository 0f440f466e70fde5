package component

import "github.com/worldweaver/server/internal/core/ecs"

// RelationshipData describes how one entity regards another.
type RelationshipData struct {
	Affinity            int    `json:"affinity"` // -100..100
	Trust               int    `json:"trust"`    // 0..100
	LastInteractionTick uint64 `json:"last_interaction_tick"`
}

// Relationships holds per-other-entity relationship data.
type Relationships struct {
	Relations map[ecs.EntityID]*RelationshipData `json:"relations"`
}

func NewRelationships() *Relationships {
	return &Relationships{Relations: make(map[ecs.EntityID]*RelationshipData)}
}

func (r *Relationships) Affinity(other ecs.EntityID) int {
	if rel, ok := r.Relations[other]; ok {
		return rel.Affinity
	}
	return 0
}

// ModifyAffinity shifts affinity toward other by change, clamped to
// [-100, 100], and stamps the interaction tick.
func (r *Relationships) ModifyAffinity(other ecs.EntityID, change int, tick uint64) {
	if r.Relations == nil {
		r.Relations = make(map[ecs.EntityID]*RelationshipData)
	}
	rel, ok := r.Relations[other]
	if !ok {
		rel = &RelationshipData{}
		r.Relations[other] = rel
	}
	rel.Affinity = clampInt(rel.Affinity+change, -100, 100)
	rel.LastInteractionTick = tick
}

// ConversationRecord is one remembered exchange.
type ConversationRecord struct {
	WithEntity ecs.EntityID `json:"with_entity"`
	Tick       uint64       `json:"tick"`
	Summary    string       `json:"summary"`
	Topics     []string     `json:"topics"`
}

// DialogueMemory is a bounded, ordered list of conversation summaries.
// Oldest memories fall off when MaxMemories is exceeded.
type DialogueMemory struct {
	Conversations []ConversationRecord `json:"conversations"`
	MaxMemories   int                  `json:"max_memories"`
}

func NewDialogueMemory(maxMemories int) *DialogueMemory {
	return &DialogueMemory{MaxMemories: maxMemories}
}

func (m *DialogueMemory) Add(rec ConversationRecord) {
	m.Conversations = append(m.Conversations, rec)
	if m.MaxMemories > 0 && len(m.Conversations) > m.MaxMemories {
		m.Conversations = append(m.Conversations[:0:0], m.Conversations[len(m.Conversations)-m.MaxMemories:]...)
	}
}

// Recent returns up to limit conversations with the given entity, newest
// first.
func (m *DialogueMemory) Recent(with ecs.EntityID, limit int) []ConversationRecord {
	out := make([]ConversationRecord, 0, limit)
	for i := len(m.Conversations) - 1; i >= 0 && len(out) < limit; i-- {
		if m.Conversations[i].WithEntity == with {
			out = append(out, m.Conversations[i])
		}
	}
	return out
}

// FactionMembership attaches an entity to a faction.
type FactionMembership struct {
	FactionID  ecs.EntityID `json:"faction_id"`
	Rank       string       `json:"rank"`
	Reputation int          `json:"reputation"`
}

// Faction is the faction-side state: its name and its relation to every
// other faction, -100 (war) to 100 (alliance).
type Faction struct {
	FactionName string               `json:"faction_name"`
	Relations   map[ecs.EntityID]int `json:"relations"`
}

func NewFaction(name string) *Faction {
	return &Faction{
		FactionName: name,
		Relations:   make(map[ecs.EntityID]int),
	}
}

func (f *Faction) Relation(other ecs.EntityID) int {
	return f.Relations[other]
}

func (f *Faction) SetRelation(other ecs.EntityID, value int) {
	if f.Relations == nil {
		f.Relations = make(map[ecs.EntityID]int)
	}
	f.Relations[other] = clampInt(value, -100, 100)
}
