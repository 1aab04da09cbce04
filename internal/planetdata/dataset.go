package planetdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// DefaultPath is where planetgen writes and the orrery reads the data file.
const DefaultPath = "planetData.json"

// Epoch is the date the built-in initial angles describe.
var Epoch = time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC)

// Dataset is the static planet data file.
type Dataset struct {
	Epoch       time.Time `json:"epoch"`
	EpochJD     float64   `json:"epochJD"`
	GeneratedAt time.Time `json:"generatedAt,omitzero"`
	Planets     []Planet  `json:"planets"`
}

// NewDataset wraps planets with the built-in epoch.
func NewDataset(planets []Planet, generatedAt time.Time) *Dataset {
	return &Dataset{
		Epoch:       Epoch,
		EpochJD:     julian.TimeToJD(Epoch),
		GeneratedAt: generatedAt,
		Planets:     planets,
	}
}

// Decode reads a dataset. A bare JSON array of planets is also accepted and
// is given the built-in epoch.
func Decode(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read planet data: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("planet data is empty")
	}

	if raw[0] == '[' {
		var planets []Planet
		if err := json.Unmarshal(raw, &planets); err != nil {
			return nil, fmt.Errorf("parse planet list: %w", err)
		}
		ds := NewDataset(planets, time.Time{})
		return ds, ds.Validate()
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse planet dataset: %w", err)
	}
	if ds.Epoch.IsZero() {
		ds.Epoch = Epoch
	}
	if ds.EpochJD == 0 {
		ds.EpochJD = julian.TimeToJD(ds.Epoch)
	}
	return &ds, ds.Validate()
}

// Load reads a dataset from a file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open planet data: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Validate checks every planet's orbital invariants.
func (d *Dataset) Validate() error {
	if len(d.Planets) == 0 {
		return fmt.Errorf("planet data has no planets")
	}
	for _, p := range d.Planets {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EpochLabel returns the epoch the way the date label shows it.
func (d *Dataset) EpochLabel() string {
	return d.Epoch.Format("January 2, 2006")
}

// Find returns the planet with the given name, ignoring case.
func (d *Dataset) Find(name string) (Planet, bool) {
	for _, p := range d.Planets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Planet{}, false
}

// WriteJSON writes the dataset as indented JSON.
func (d *Dataset) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(d)
}

// WriteFile writes the dataset to path, replacing any existing file.
func (d *Dataset) WriteFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create planet data: %w", err)
	}
	if err := d.WriteJSON(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write planet data: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close planet data: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace planet data: %w", err)
	}
	return nil
}

