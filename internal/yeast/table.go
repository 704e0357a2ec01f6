package yeast

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mamadbah2/brewcast/internal/domain/models"
)

// ErrUnknownStrain indicates the strain key is not present in the table.
var ErrUnknownStrain = errors.New("unknown yeast strain")

// ErrInvalidProfile indicates a profile violates its range constraints.
var ErrInvalidProfile = errors.New("invalid yeast profile")

// Table is an immutable strain-key index of yeast profiles.
type Table struct {
	profiles map[string]models.YeastProfile
}

// NewTable validates the profiles and indexes them by key.
func NewTable(profiles []models.YeastProfile) (*Table, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no profiles defined", ErrInvalidProfile)
	}

	index := make(map[string]models.YeastProfile, len(profiles))
	for _, p := range profiles {
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		if _, dup := index[p.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidProfile, p.Key)
		}
		index[p.Key] = p
	}
	return &Table{profiles: index}, nil
}

// Lookup returns the profile registered under key.
func (t *Table) Lookup(key string) (models.YeastProfile, error) {
	if t != nil {
		if p, ok := t.profiles[key]; ok {
			return p, nil
		}
	}
	return models.YeastProfile{}, fmt.Errorf("%w: %q", ErrUnknownStrain, key)
}

// Keys returns the strain keys in lexical order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.profiles))
	for k := range t.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a copy of every profile ordered by key.
func (t *Table) All() []models.YeastProfile {
	keys := t.Keys()
	out := make([]models.YeastProfile, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.profiles[k])
	}
	return out
}

// Len reports the number of profiles.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.profiles)
}

func validateProfile(p models.YeastProfile) error {
	switch {
	case p.Key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidProfile)
	case p.Attenuation.Min < 0 || p.Attenuation.Max > 100:
		return fmt.Errorf("%w: %s attenuation %.1f-%.1f outside [0, 100]", ErrInvalidProfile, p.Key, p.Attenuation.Min, p.Attenuation.Max)
	case p.Attenuation.Min > p.Attenuation.Max:
		return fmt.Errorf("%w: %s attenuation min %.1f > max %.1f", ErrInvalidProfile, p.Key, p.Attenuation.Min, p.Attenuation.Max)
	case p.OptimalTemp.Min > p.OptimalTemp.Max:
		return fmt.Errorf("%w: %s opt_temp min %.1f > max %.1f", ErrInvalidProfile, p.Key, p.OptimalTemp.Min, p.OptimalTemp.Max)
	}
	return nil
}
