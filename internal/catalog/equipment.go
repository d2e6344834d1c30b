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

//go:embed data/equipment.yaml
var embeddedEquipment []byte

var (
	ErrUnknownEquipment   = errors.New("unknown equipment")
	ErrUnknownApplication = errors.New("unknown application")
	ErrDuplicateEquipment = errors.New("duplicate equipment")
	ErrInvalidEquipment   = errors.New("invalid equipment profile")
)

// EquipmentRecord is one equipment row as written in YAML.
type EquipmentRecord struct {
	Manufacturer   string  `yaml:"manufacturer"`
	Category       string  `yaml:"category"`
	Model          string  `yaml:"model"`
	SeverityRating float64 `yaml:"severity_rating"`
}

type equipmentFile struct {
	Applications map[string]float64 `yaml:"applications"`
	Equipment    []EquipmentRecord  `yaml:"equipment"`
}

// EquipmentCatalog resolves equipment triples and application categories to
// severity ratings.
type EquipmentCatalog struct {
	byRef        map[models.EquipmentRef]models.EquipmentProfile
	applications map[string]float64
}

// NewEquipmentCatalog validates and indexes the rows. applications maps a
// category to its default rating and may be nil.
func NewEquipmentCatalog(records []EquipmentRecord, applications map[string]float64) (*EquipmentCatalog, error) {
	c := &EquipmentCatalog{
		byRef:        make(map[models.EquipmentRef]models.EquipmentProfile, len(records)),
		applications: make(map[string]float64, len(applications)),
	}
	for name, rating := range applications {
		name = strings.TrimSpace(name)
		if name == "" || !validRating(rating) {
			return nil, fmt.Errorf("%w: application %q rating %v", ErrInvalidEquipment, name, rating)
		}
		c.applications[name] = rating
	}
	for i, r := range records {
		ref := normalizeRef(models.EquipmentRef{
			Manufacturer: r.Manufacturer,
			Category:     r.Category,
			Model:        r.Model,
		})
		if ref.Manufacturer == "" || ref.Category == "" || ref.Model == "" {
			return nil, fmt.Errorf("%w: record %d has an empty key field", ErrInvalidEquipment, i+1)
		}
		if !validRating(r.SeverityRating) {
			return nil, fmt.Errorf("%w: %s rating %v must be > 0", ErrInvalidEquipment, refString(ref), r.SeverityRating)
		}
		if _, dup := c.byRef[ref]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEquipment, refString(ref))
		}
		c.byRef[ref] = models.EquipmentProfile{EquipmentRef: ref, SeverityRating: r.SeverityRating}
	}
	return c, nil
}

// ParseEquipment decodes an equipment YAML document.
func ParseEquipment(data []byte) (*EquipmentCatalog, error) {
	var f equipmentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode equipment table: %w", err)
	}
	return NewEquipmentCatalog(f.Equipment, f.Applications)
}

// LoadEquipment reads the equipment table from path, or the embedded table
// when path is empty.
func LoadEquipment(path string) (*EquipmentCatalog, error) {
	if path == "" {
		return ParseEquipment(embeddedEquipment)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read equipment table %q: %w", path, err)
	}
	return ParseEquipment(data)
}

// Lookup returns the profile for the given triple.
func (c *EquipmentCatalog) Lookup(ref models.EquipmentRef) (models.EquipmentProfile, error) {
	ref = normalizeRef(ref)
	p, ok := c.byRef[ref]
	if !ok {
		return models.EquipmentProfile{}, fmt.Errorf("%w: %s", ErrUnknownEquipment, refString(ref))
	}
	return p, nil
}

// ApplicationRating returns the default rating for an application category
// such as "Large Gas Turbine".
func (c *EquipmentCatalog) ApplicationRating(category string) (float64, error) {
	r, ok := c.applications[strings.TrimSpace(category)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownApplication, category)
	}
	return r, nil
}

// Applications lists the application categories in ascending order.
func (c *EquipmentCatalog) Applications() []string {
	out := make([]string, 0, len(c.applications))
	for name := range c.applications {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Tree returns manufacturer -> category -> sorted model names. The result is
// freshly built on every call and owned by the caller.
func (c *EquipmentCatalog) Tree() map[string]map[string][]string {
	tree := make(map[string]map[string][]string)
	for ref := range c.byRef {
		cats, ok := tree[ref.Manufacturer]
		if !ok {
			cats = make(map[string][]string)
			tree[ref.Manufacturer] = cats
		}
		cats[ref.Category] = append(cats[ref.Category], ref.Model)
	}
	for _, cats := range tree {
		for _, names := range cats {
			sort.Strings(names)
		}
	}
	return tree
}

func normalizeRef(ref models.EquipmentRef) models.EquipmentRef {
	return models.EquipmentRef{
		Manufacturer: strings.TrimSpace(ref.Manufacturer),
		Category:     strings.TrimSpace(ref.Category),
		Model:        strings.TrimSpace(ref.Model),
	}
}

func refString(ref models.EquipmentRef) string {
	return fmt.Sprintf("%q/%q/%q", ref.Manufacturer, ref.Category, ref.Model)
}

func validRating(r float64) bool {
	return r > 0 && !math.IsInf(r, 0)
}
