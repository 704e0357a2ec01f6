package yeast

import "github.com/mamadbah2/brewcast/internal/domain/models"

var defaultProfiles = []models.YeastProfile{
	{
		Key:         "Verdant IPA",
		Strain:      "Ale - Verdant IPA",
		Attenuation: models.Range{Min: 74, Max: 78},
		OptimalTemp: models.Range{Min: 17, Max: 23},
		Notes:       "Juicy NEIPA yeast, benefits from warm ramp up.",
	},
	{
		Key:         "BL-102",
		Strain:      "Köln-style Ale",
		Attenuation: models.Range{Min: 76, Max: 80},
		OptimalTemp: models.Range{Min: 16, Max: 20},
		Notes:       "Clean Kölsch yeast with moderate flocculation.",
	},
}

// Default returns the built-in profile table.
func Default() *Table {
	t, err := NewTable(defaultProfiles)
	if err != nil {
		panic(err)
	}
	return t
}
