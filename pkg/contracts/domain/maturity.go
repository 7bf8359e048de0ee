package domain

// Maturity describes how developed or binding a proposal is
type Maturity string

const (
	MaturityDeclarative  Maturity = "Declarative"
	MaturityInstrumental Maturity = "Instrumental"
	MaturityNormative    Maturity = "Normative/Structured"
	MaturityProgrammatic Maturity = "Programmatic"
)

// DefaultMaturity replaces any value outside the enumeration
const DefaultMaturity = MaturityDeclarative

// UnmappedMaturityScore is the score of a label outside the enumeration.
const UnmappedMaturityScore = 1

var maturityScores = map[Maturity]int{
	MaturityNormative:    5,
	MaturityProgrammatic: 4,
	MaturityInstrumental: 3,
	MaturityDeclarative:  2,
}

// Valid reports whether m is one of the four labels. The comparison is exact:
// case, accents and surrounding whitespace all matter.
func (m Maturity) Valid() bool {
	_, ok := maturityScores[m]
	return ok
}

// Score maps the label onto the 1-5 commitment scale
func (m Maturity) Score() int {
	if score, ok := maturityScores[m]; ok {
		return score
	}
	return UnmappedMaturityScore
}

// String implements fmt.Stringer
func (m Maturity) String() string {
	return string(m)
}

// MaturityTypes returns the fixed maturity vocabulary sorted ascending
func MaturityTypes() []string {
	return []string{
		string(MaturityDeclarative),
		string(MaturityInstrumental),
		string(MaturityNormative),
		string(MaturityProgrammatic),
	}
}
