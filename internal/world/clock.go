package world

// Season of the in-game year, derived from the month.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// GameTime is the in-world calendar: 24-hour days, 30-day months, 12-month
// years.
type GameTime struct {
	Hour  int `json:"hour"`  // 0-23
	Day   int `json:"day"`   // 1-30
	Month int `json:"month"` // 1-12
	Year  int `json:"year"`
}

func NewGameTime() GameTime {
	return GameTime{Hour: 8, Day: 1, Month: 3, Year: 1}
}

// Advance moves the calendar forward by the given hours, rolling days,
// months and years.
func (t *GameTime) Advance(hours int) {
	t.Hour += hours
	for t.Hour >= 24 {
		t.Hour -= 24
		t.Day++
	}
	for t.Day > 30 {
		t.Day -= 30
		t.Month++
	}
	for t.Month > 12 {
		t.Month -= 12
		t.Year++
	}
}

// CurrentSeason maps the month onto a season.
func (t GameTime) CurrentSeason() Season {
	switch {
	case t.Month >= 3 && t.Month <= 5:
		return SeasonSpring
	case t.Month >= 6 && t.Month <= 8:
		return SeasonSummer
	case t.Month >= 9 && t.Month <= 11:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}
