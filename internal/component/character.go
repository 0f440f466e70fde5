package component

// Stats are the five bounded core attributes. Writes go through Set so each
// value stays inside the configured range.
type Stats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Charisma     int `json:"charisma"`
	Constitution int `json:"constitution"`
}

// DefaultStats returns the all-tens baseline.
func DefaultStats() *Stats {
	return &Stats{
		Strength:     10,
		Dexterity:    10,
		Intelligence: 10,
		Charisma:     10,
		Constitution: 10,
	}
}

// Clamp forces every attribute into [min, max].
func (s *Stats) Clamp(min, max int) {
	s.Strength = clampInt(s.Strength, min, max)
	s.Dexterity = clampInt(s.Dexterity, min, max)
	s.Intelligence = clampInt(s.Intelligence, min, max)
	s.Charisma = clampInt(s.Charisma, min, max)
	s.Constitution = clampInt(s.Constitution, min, max)
}

// Skills maps skill name to level 0-100. Levels change only through explicit
// skill use.
type Skills struct {
	Levels map[string]int `json:"levels"`
}

func NewSkills() *Skills {
	return &Skills{Levels: make(map[string]int)}
}

func (s *Skills) Level(skill string) int {
	return s.Levels[skill]
}

// Improve raises a skill by amount, capped at 100. Negative amounts are
// ignored; skills never decay.
func (s *Skills) Improve(skill string, amount int) {
	if amount <= 0 {
		return
	}
	if s.Levels == nil {
		s.Levels = make(map[string]int)
	}
	s.Levels[skill] = clampInt(s.Levels[skill]+amount, 0, 100)
}

// Health is current/maximum hit points. Heal and Damage clamp to [0, Max].
type Health struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

func NewHealth(max int) *Health {
	return &Health{Current: max, Max: max}
}

func (h *Health) Alive() bool {
	return h.Current > 0
}

func (h *Health) Heal(amount int) {
	h.Current = clampInt(h.Current+amount, 0, h.Max)
}

func (h *Health) Damage(amount int) {
	h.Current = clampInt(h.Current-amount, 0, h.Max)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
