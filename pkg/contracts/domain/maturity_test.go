package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaturity_Valid(t *testing.T) {
	tests := []struct {
		name     string
		maturity Maturity
		want     bool
	}{
		{name: "declarative", maturity: "Declarative", want: true},
		{name: "instrumental", maturity: "Instrumental", want: true},
		{name: "normative", maturity: "Normative/Structured", want: true},
		{name: "programmatic", maturity: "Programmatic", want: true},
		{name: "lowercase is rejected", maturity: "declarative", want: false},
		{name: "padded is rejected", maturity: " Programmatic", want: false},
		{name: "accented variant is rejected", maturity: "Programmátic", want: false},
		{name: "unknown", maturity: "Unknown", want: false},
		{name: "empty", maturity: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.maturity.Valid())
		})
	}
}

func TestMaturity_Score(t *testing.T) {
	assert.Equal(t, 5, MaturityNormative.Score())
	assert.Equal(t, 4, MaturityProgrammatic.Score())
	assert.Equal(t, 3, MaturityInstrumental.Score())
	assert.Equal(t, 2, MaturityDeclarative.Score())
	assert.Equal(t, UnmappedMaturityScore, Maturity("Unknown").Score())
}

func TestMaturityTypes(t *testing.T) {
	types := MaturityTypes()

	assert.Len(t, types, 4)
	assert.True(t, sort.StringsAreSorted(types))
	for _, m := range types {
		assert.True(t, Maturity(m).Valid(), m)
	}
	assert.Equal(t, DefaultMaturity, MaturityDeclarative)
}
