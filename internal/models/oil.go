package models

// Track is one antioxidant depletion curve f(h) = Amplitude * e^(-Rate*h).
type Track struct {
	Amplitude float64 `json:"amplitude" yaml:"amplitude"` // % of new-oil value at h=0
	Rate      float64 `json:"rate" yaml:"rate"`           // 1/h at the reference temperature
}

// OilProfile holds the decay parameters of one fluid.
type OilProfile struct {
	Name      string `json:"name"`
	Primary   Track  `json:"primary"`   // oxidation inhibitor (RPVOT)
	Secondary Track  `json:"secondary"` // aminic antioxidant
	// SecondaryMirrored is set when the fluid has no independent secondary track
	// and Secondary was filled from Primary at load time.
	SecondaryMirrored bool   `json:"secondary_mirrored"`
	Notes             string `json:"notes,omitempty"`
}

// EquipmentRef identifies an equipment profile.
type EquipmentRef struct {
	Manufacturer string `json:"manufacturer"`
	Category     string `json:"category"`
	Model        string `json:"model"`
}

// EquipmentProfile is one row of the equipment reference table.
type EquipmentProfile struct {
	EquipmentRef
	SeverityRating float64 `json:"severity_rating"`
}
