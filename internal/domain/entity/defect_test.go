package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyLabel(t *testing.T) {
	cases := []struct {
		label    string
		category DamageCategory
		penalty  int
	}{
		{"good_condition", CategoryGood, 0},
		{"severe damage", CategorySevere, 20},
		{"dent", CategoryDent, 15},
		{"dented_panel", CategoryDent, 15},
		{"dent_minor", CategoryDent, 15},
		{"scratch_side", CategoryScratch, 10},
		{"broken_light", CategoryOther, 20},
		{"severe damage ", CategoryOther, 20},
		{"dent_and_scratch", CategoryDent, 15},
	}

	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			c := ClassifyLabel(tc.label)
			require.Equal(t, tc.category, c)
			require.Equal(t, tc.penalty, c.Penalty())
			require.NotEmpty(t, c.String())
		})
	}
}

func TestDamageCategory_String(t *testing.T) {
	require.Equal(t, "severe", CategorySevere.String())
	require.Equal(t, "dent", ClassifyLabel("dent_front").String())
	require.Equal(t, "other", ClassifyLabel("broken_light").String())
}
