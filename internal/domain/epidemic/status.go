package epidemic

import (
	"fmt"
	"image/color"
)

type Status string

const (
	StatusSusceptible             Status = "susceptible"
	StatusInfectedWithSymptoms    Status = "infected_with_symptoms"
	StatusInfectedWithoutSymptoms Status = "infected_without_symptoms"
	StatusRecovered               Status = "recovered"
	StatusDeceased                Status = "deceased"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusSusceptible,
	StatusInfectedWithSymptoms,
	StatusInfectedWithoutSymptoms,
	StatusRecovered,
	StatusDeceased,
}

func (s Status) Infected() bool {
	switch s {
	case StatusInfectedWithSymptoms, StatusInfectedWithoutSymptoms:
		return true
	case StatusSusceptible, StatusRecovered, StatusDeceased:
		return false
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	switch s {
	case StatusRecovered, StatusDeceased:
		return true
	case StatusSusceptible, StatusInfectedWithSymptoms, StatusInfectedWithoutSymptoms:
		return false
	default:
		return false
	}
}

// Color is the fixed display color handed to renderers.
func (s Status) Color() color.RGBA {
	switch s {
	case StatusSusceptible:
		return color.RGBA{R: 0, G: 255, B: 255, A: 255}
	case StatusInfectedWithSymptoms:
		return color.RGBA{R: 255, G: 0, B: 0, A: 255}
	case StatusInfectedWithoutSymptoms:
		return color.RGBA{R: 255, G: 175, B: 175, A: 255}
	case StatusRecovered:
		return color.RGBA{R: 0, G: 255, B: 0, A: 255}
	case StatusDeceased:
		return color.RGBA{R: 0, G: 0, B: 0, A: 255}
	default:
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
}

func (s Status) ColorHex() string {
	c := s.Color()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type Goal string

const (
	GoalRandom   Goal = "random"
	GoalSchool   Goal = "school"
	GoalShopping Goal = "shopping"
	GoalHospital Goal = "hospital"
)
