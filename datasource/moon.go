package datasource

import (
	"math"
	"time"

	"weatherlux/models"
)

const synodicMonth = 29.530588853 // days

// reference new moon
var knownNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

var moonPhases = [8]struct {
	name string
	icon string
}{
	{"New Moon", "🌑"},
	{"Waxing Crescent", "🌒"},
	{"First Quarter", "🌓"},
	{"Waxing Gibbous", "🌔"},
	{"Full Moon", "🌕"},
	{"Waning Gibbous", "🌖"},
	{"Last Quarter", "🌗"},
	{"Waning Crescent", "🌘"},
}

// ComputeMoonPhase returns the lunar phase at t as a fraction of the
// synodic month: 0 new, 0.25 first quarter, 0.5 full, 0.75 last quarter.
func ComputeMoonPhase(t time.Time) models.MoonPhase {
	days := t.Sub(knownNewMoon).Hours() / 24
	phase := math.Mod(days/synodicMonth, 1)
	if phase < 0 {
		phase++
	}
	i := int(math.Round(phase*8)) % 8
	return models.MoonPhase{
		Phase:  phase,
		Name:   moonPhases[i].name,
		Icon:   moonPhases[i].icon,
		Source: models.SourceComputed,
	}
}
