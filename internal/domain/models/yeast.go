package models

// Range is an inclusive [Min, Max] pair.
type Range struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// Midpoint returns the arithmetic mean of the bounds.
func (r Range) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// YeastProfile captures the fermentation characteristics of one yeast strain.
type YeastProfile struct {
	Key         string `bson:"key" json:"key"`
	Strain      string `bson:"strain" json:"strain"`
	Attenuation Range  `bson:"attenuation" json:"attenuation"` // percent
	OptimalTemp Range  `bson:"opt_temp" json:"opt_temp"`       // °C
	Notes       string `bson:"notes" json:"notes"`
}
