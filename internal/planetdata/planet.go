// Package planetdata defines the planet descriptors the orrery loads at
// startup and the tooling that generates them.
package planetdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/litescript/ls-orrery/internal/orbit"
)

// NotAvailable is shown for statistics the stats API did not supply.
const NotAvailable = "N/A"

// Stat is an opaque descriptive statistic. In the data file it is either a
// JSON number or a string such as "N/A" or "167°C"; it round-trips as it came.
type Stat struct {
	text    string
	numeric bool
}

// NumberStat returns a numeric statistic.
func NumberStat(v float64) Stat {
	return Stat{text: strconv.FormatFloat(v, 'f', -1, 64), numeric: true}
}

// TextStat returns a string statistic.
func TextStat(s string) Stat {
	return Stat{text: s}
}

// IsZero reports whether the statistic is absent.
func (s Stat) IsZero() bool {
	return s.text == ""
}

// String returns the display text, or N/A when absent.
func (s Stat) String() string {
	if s.text == "" {
		return NotAvailable
	}
	return s.text
}

// MarshalJSON implements json.Marshaler.
func (s Stat) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(s.text), nil
	}
	return json.Marshal(s.text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = Stat{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = TextStat(text)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("stat must be a number or string: %w", err)
		}
		*s = Stat{text: n.String(), numeric: true}
		return nil
	}
}

// Planet is one entry of the planet data file. The orbital fields drive the
// simulation; texture and the statistics are passed through to the inspect
// popup unchanged.
type Planet struct {
	Name            string  `json:"name"`
	Size            float64 `json:"size"`
	Distance        float64 `json:"distance"` // Orbital radius in AU
	Texture         string  `json:"texture"`
	Speed           float64 `json:"speed"`         // Radians per tick
	RotationSpeed   float64 `json:"rotationSpeed"` // Radians per tick
	InitialAngleDeg float64 `json:"initialAngleDeg"`

	Temperature   Stat `json:"temperature,omitzero"`
	Mass          Stat `json:"mass,omitzero"`
	Radius        Stat `json:"radius,omitzero"`
	Period        Stat `json:"period,omitzero"`
	SemiMajorAxis Stat `json:"semiMajorAxis,omitzero"`
}

// Params converts the descriptor into orbital parameters.
func (p Planet) Params() orbit.Params {
	return orbit.PlanetParams(p.DisplayName(), p.Size, p.Distance, p.Speed, p.RotationSpeed, p.InitialAngleDeg)
}

// DisplayName returns the name in title case ("EARTH" -> "Earth").
func (p Planet) DisplayName() string {
	if p.Name == "" {
		return ""
	}
	lower := strings.ToLower(p.Name)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// HasStats reports whether any statistic was merged in from the stats API.
func (p Planet) HasStats() bool {
	return !p.Temperature.IsZero() || !p.Mass.IsZero() || !p.Radius.IsZero() ||
		!p.Period.IsZero() || !p.SemiMajorAxis.IsZero()
}

// Validate checks the orbital invariants: positive radius and speed.
func (p Planet) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("planet has no name")
	}
	if p.Distance <= 0 {
		return fmt.Errorf("%s: distance must be > 0, got %g", p.Name, p.Distance)
	}
	if p.Speed <= 0 {
		return fmt.Errorf("%s: speed must be > 0, got %g", p.Name, p.Speed)
	}
	return nil
}
