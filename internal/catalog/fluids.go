package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"flex_report/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/fluids.yaml
var embeddedFluids []byte

var (
	ErrUnknownFluid   = errors.New("unknown fluid")
	ErrDuplicateFluid = errors.New("duplicate fluid name")
	ErrInvalidProfile = errors.New("invalid oil profile")
)

// FluidRecord is one entry of the fluids table as written in YAML.
// Secondary is optional.
type FluidRecord struct {
	Name      string        `yaml:"name"`
	Primary   models.Track  `yaml:"primary"`
	Secondary *models.Track `yaml:"secondary"`
	Notes     string        `yaml:"notes"`
}

type fluidsFile struct {
	Fluids []FluidRecord `yaml:"fluids"`
}

// MirrorPrimaryTrack is the fallback for fluids without an independent
// secondary track: the secondary curve equals the primary at every hour.
func MirrorPrimaryTrack(p models.OilProfile) models.OilProfile {
	p.Secondary = p.Primary
	p.SecondaryMirrored = true
	return p
}

// Profile converts the record into an OilProfile, applying MirrorPrimaryTrack
// when no secondary track is given.
func (r FluidRecord) Profile() models.OilProfile {
	p := models.OilProfile{
		Name:    strings.TrimSpace(r.Name),
		Primary: r.Primary,
		Notes:   strings.TrimSpace(r.Notes),
	}
	if r.Secondary == nil {
		return MirrorPrimaryTrack(p)
	}
	p.Secondary = *r.Secondary
	return p
}

// FluidCatalog maps fluid names to their decay parameters.
type FluidCatalog struct {
	byName map[string]models.OilProfile
	names  []string
}

// NewFluidCatalog validates the records and builds the lookup table.
// Duplicate names are rejected.
func NewFluidCatalog(records []FluidRecord) (*FluidCatalog, error) {
	c := &FluidCatalog{
		byName: make(map[string]models.OilProfile, len(records)),
		names:  make([]string, 0, len(records)),
	}
	for i, r := range records {
		p := r.Profile()
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("fluid record %d: %w", i+1, err)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFluid, p.Name)
		}
		c.byName[p.Name] = p
		c.names = append(c.names, p.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// ParseFluids decodes a fluids YAML document.
func ParseFluids(data []byte) (*FluidCatalog, error) {
	var f fluidsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fluids table: %w", err)
	}
	return NewFluidCatalog(f.Fluids)
}

// LoadFluids reads the fluids table from path, or the embedded table when
// path is empty.
func LoadFluids(path string) (*FluidCatalog, error) {
	if path == "" {
		return ParseFluids(embeddedFluids)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fluids table %q: %w", path, err)
	}
	return ParseFluids(data)
}

// Lookup returns the profile registered under name.
func (c *FluidCatalog) Lookup(name string) (models.OilProfile, error) {
	p, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return models.OilProfile{}, fmt.Errorf("%w: %q", ErrUnknownFluid, name)
	}
	return p, nil
}

// Names returns every registered fluid name in ascending order.
// The returned slice is a copy.
func (c *FluidCatalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len reports the number of fluids.
func (c *FluidCatalog) Len() int { return len(c.names) }

func validateProfile(p models.OilProfile) error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProfile)
	}
	for _, tr := range []struct {
		label string
		t     models.Track
	}{{"primary", p.Primary}, {"secondary", p.Secondary}} {
		if !(tr.t.Amplitude > 0) || math.IsInf(tr.t.Amplitude, 0) {
			return fmt.Errorf("%w: %q %s amplitude %v must be > 0", ErrInvalidProfile, p.Name, tr.label, tr.t.Amplitude)
		}
		if !(tr.t.Rate >= 0) || math.IsInf(tr.t.Rate, 0) {
			return fmt.Errorf("%w: %q %s rate %v must be >= 0", ErrInvalidProfile, p.Name, tr.label, tr.t.Rate)
		}
	}
	return nil
}
