package yeast

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/brewcast/internal/domain/models"
)

// fileProfile is the YAML shape of one profile. Ranges are written as [min, max].
type fileProfile struct {
	Strain      string     `yaml:"strain"`
	Attenuation [2]float64 `yaml:"attenuation"`
	OptTemp     [2]float64 `yaml:"opt_temp"`
	Notes       string     `yaml:"notes"`
}

type profileFile struct {
	Profiles map[string]fileProfile `yaml:"profiles"`
}

// LoadFile reads a YAML profile table:
//
//	profiles:
//	  BL-102:
//	    strain: Köln-style Ale
//	    attenuation: [76, 80]
//	    opt_temp: [16, 20]
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yeast profiles: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML profile table bytes.
func Parse(data []byte) (*Table, error) {
	var doc profileFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yeast profiles: parse yaml: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, fmt.Errorf("yeast profiles: %w: no profiles defined", ErrInvalidProfile)
	}

	profiles := make([]models.YeastProfile, 0, len(doc.Profiles))
	for key, p := range doc.Profiles {
		profiles = append(profiles, models.YeastProfile{
			Key:         key,
			Strain:      p.Strain,
			Attenuation: models.Range{Min: p.Attenuation[0], Max: p.Attenuation[1]},
			OptimalTemp: models.Range{Min: p.OptTemp[0], Max: p.OptTemp[1]},
			Notes:       p.Notes,
		})
	}

	t, err := NewTable(profiles)
	if err != nil {
		return nil, fmt.Errorf("yeast profiles: %w", err)
	}
	return t, nil
}
