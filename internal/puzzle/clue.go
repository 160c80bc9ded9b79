package puzzle

import (
	"fmt"
	"strings"
)

// SegmentType classifies a piece of clue text.
type SegmentType string

const (
	Indicator  SegmentType = "indicator"
	Fodder     SegmentType = "fodder"
	Definition SegmentType = "definition"
)

// Segment is one annotated span of a clue's surface reading.
type Segment struct {
	Type     SegmentType `json:"type"`
	Category string      `json:"category,omitempty"`
	Text     string      `json:"text"`
	Tooltip  string      `json:"tooltip,omitempty"`
}

// Clue is the surface text plus its wordplay breakdown.
type Clue struct {
	Surface  string    `json:"surface"`
	Segments []Segment `json:"segments"`
}

// deviceTooltips explain indicator categories when a segment carries no
// tooltip of its own.
var deviceTooltips = map[string]string{
	"anagram":   "Anagram indicator: jumble the letters of the fodder.",
	"hidden":    "Hidden-word indicator: look inside the fodder.",
	"container": "Container: put one thing inside another.",
	"reversal":  "Reversal: read it backwards (look for \"back\", \"returned\", etc.).",
	"deletion":  "Deletion: drop a bit (ends, firsts, middles; your clue will say).",
	"homophone": "Homophone: sounds like it.",
	"acrostic":  "Acrostic: take the first letters (spelled out in the clue).",
	"charade":   "Charade: stack parts to build the whole.",
	"double":    "Double definition: two straight meanings, one answer.",
	"lit":       "\"&lit\": the whole clue is both definition and wordplay. Spicy!",
}

// DeviceTooltip returns the stock explanation for an indicator category.
func DeviceTooltip(category string) string { return deviceTooltips[category] }

// Tip returns the tooltip to show for s, falling back to stock text.
func (s Segment) Tip() string {
	if s.Tooltip != "" {
		return s.Tooltip
	}
	switch s.Type {
	case Indicator:
		return DeviceTooltip(s.Category)
	case Fodder:
		return "Fodder: material to transform"
	default:
		return "Definition"
	}
}

// PrimaryDevice is the category of the first indicator, or "".
func (c Clue) PrimaryDevice() string {
	for _, s := range c.Segments {
		if s.Type == Indicator {
			return s.Category
		}
	}
	return ""
}

// Definitions returns the definition segments in order.
func (c Clue) Definitions() []Segment {
	var out []Segment
	for _, s := range c.Segments {
		if s.Type == Definition {
			out = append(out, s)
		}
	}
	return out
}

// Header renders the clue panel title, e.g. "1 Across — 5 letters".
func (e *Entry) Header() string {
	num := strings.TrimRight(e.ID, "AaDd")
	if num == "" {
		num = e.ID
	}
	dir := "Across"
	if e.Direction == Down {
		dir = "Down"
	}
	return fmt.Sprintf("%s %s — %d letters", num, dir, len(e.Path))
}
