package vision

import "strings"

// Observation is the fixed shape every vision vendor is mapped into at the
// adapter boundary. Raw provider responses never cross this line.
type Observation struct {
	Labels     []Label  `json:"labels,omitempty"`
	TextBlocks []string `json:"text_blocks,omitempty"`
	Logos      []Logo   `json:"logos,omitempty"`
	Colors     []Color  `json:"colors,omitempty"`
}

// Label is one ranked label annotation.
type Label struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// Logo is one ranked logo detection.
type Logo struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// Color is one dominant-color entry.
type Color struct {
	RGB      string  `json:"rgb"`
	Fraction float64 `json:"fraction"`
}

// FullText joins all detected text blocks.
func (o *Observation) FullText() string {
	if o == nil {
		return ""
	}
	return strings.Join(o.TextBlocks, "\n")
}

// TopLabelScore returns the score of the highest-ranked label.
func (o *Observation) TopLabelScore() float64 {
	if o == nil || len(o.Labels) == 0 {
		return 0
	}
	best := o.Labels[0].Score
	for _, l := range o.Labels[1:] {
		if l.Score > best {
			best = l.Score
		}
	}
	return best
}
