package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSummaryJSONUsesDisplayLabels(t *testing.T) {
	s := Summary{
		BatchName:    "NEIPA Batch 62",
		OG:           1.058,
		PredictedFG:  1.011,
		Yeast:        "Verdant IPA",
		FinishDate:   "Sunday 13 Jul",
		DiacetylRest: DiacetylManualCheck,
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"Batch Name":"NEIPA Batch 62","OG (°P)":1.058,"Predicted FG (°P)":1.011,"Yeast":"Verdant IPA","Est. Finish Date":"Sunday 13 Jul","Diacetyl Rest Trigger":"Check gravity manually ~day 4"}`
	if string(data) != want {
		t.Errorf("Marshal =\n%s\nwant\n%s", data, want)
	}

	var back Summary
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != s {
		t.Errorf("Unmarshal = %+v, want %+v", back, s)
	}
}

func TestSummaryUnmarshalRejectsWrongType(t *testing.T) {
	var s Summary
	if err := json.Unmarshal([]byte(`{"OG (°P)":"heavy"}`), &s); err == nil {
		t.Error("Unmarshal should reject a string OG")
	}
}

func TestNewBrewBatchCopies(t *testing.T) {
	fg := 1.011
	readings := []GravityReading{{Gravity: 1.020}}
	b := NewBrewBatch("b", 1.058, &fg, "BL-102", time.Time{}, 18, readings)

	fg = 2
	readings[0].Gravity = 9
	if *b.TargetFG != 1.011 {
		t.Errorf("TargetFG = %v, want 1.011", *b.TargetFG)
	}
	if b.Readings[0].Gravity != 1.020 {
		t.Errorf("Readings[0].Gravity = %v, want 1.020", b.Readings[0].Gravity)
	}

	if NewBrewBatch("b", 1, nil, "x", time.Time{}, 0, nil).HasCurve() {
		t.Error("batch without readings reports a curve")
	}
}
