package draft

import (
	"careers-page-builder/internal/domain"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Snapshot is the decoded content of a draft row
type Snapshot struct {
	Company  domain.CompanyFields   `json:"company"`
	Settings domain.SettingsFields  `json:"settings"`
	Sections []domain.SectionFields `json:"sections"`
}

// Decode reads the three JSON columns of d. Unknown keys are dropped, so a
// snapshot only ever carries editable fields.
func Decode(d *domain.Draft) (*Snapshot, error) {
	var snap Snapshot
	if err := unmarshalColumn(d.CompanyData, &snap.Company); err != nil {
		return nil, fmt.Errorf("company_data: %w", err)
	}
	if err := unmarshalColumn(d.SettingsData, &snap.Settings); err != nil {
		return nil, fmt.Errorf("settings_data: %w", err)
	}
	if err := unmarshalColumn(d.SectionsData, &snap.Sections); err != nil {
		return nil, fmt.Errorf("sections_data: %w", err)
	}
	if snap.Sections == nil {
		snap.Sections = []domain.SectionFields{}
	}
	return &snap, nil
}

// Encode writes the snapshot into the JSON columns of d
func (s *Snapshot) Encode(d *domain.Draft) error {
	sections := s.Sections
	if sections == nil {
		sections = []domain.SectionFields{}
	}

	var err error
	if d.CompanyData, err = json.Marshal(s.Company); err != nil {
		return err
	}
	if d.SettingsData, err = json.Marshal(s.Settings); err != nil {
		return err
	}
	d.SectionsData, err = json.Marshal(sections)
	return err
}

func unmarshalColumn(raw datatypes.JSON, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
