package domain

import "strings"

// Technology is one row of the keyword table used for mention statistics
type Technology struct {
	Label    string
	Keywords []string
}

// technologies is ordered; keywords are lowercase substrings. Short triggers
// such as "ia" also match inside unrelated words and that is accepted.
var technologies = []Technology{
	{Label: "AI", Keywords: []string{"inteligencia artificial", "ia", "ai"}},
	{Label: "Big Data", Keywords: []string{"big data", "analítica de datos", "data analytics"}},
	{Label: "IoT", Keywords: []string{"iot", "internet de las cosas", "sensores"}},
	{Label: "Cloud", Keywords: []string{"cloud", "nube", "computación en la nube"}},
	{Label: "Blockchain", Keywords: []string{"blockchain", "cadena de bloques"}},
	{Label: "5G", Keywords: []string{"5g"}},
	{Label: "Robotics", Keywords: []string{"robótica", "robots"}},
	{Label: "Drones", Keywords: []string{"drones"}},
	{Label: "Digital", Keywords: []string{"digital", "digitalizar", "digitalización"}},
}

// TechnologyLabels returns the technology labels in table order
func TechnologyLabels() []string {
	labels := make([]string, len(technologies))
	for i, t := range technologies {
		labels[i] = t.Label
	}
	return labels
}

// mentionedIn reports whether any keyword occurs in lower, a lowercased text
func (t Technology) mentionedIn(lower string) bool {
	for _, kw := range t.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MentionedTechnologies returns every label whose keywords occur in text, in
// table order. One text may mention several technologies.
func MentionedTechnologies(text string) []string {
	lower := strings.ToLower(text)
	var labels []string
	for _, t := range technologies {
		if t.mentionedIn(lower) {
			labels = append(labels, t.Label)
		}
	}
	return labels
}
