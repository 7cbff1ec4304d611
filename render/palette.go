package render

import "sort"

// Palette maps skill groups to colors
type Palette struct {
	Groups     map[int]string // group tag -> fill color
	Labels     map[int]string // group tag -> legend label
	Fallback   string         // color of any other group
	OtherLabel string         // legend label for Fallback
	Background string
	LinkColor  string
	TextColor  string
}

// LegendEntry is one row of a legend
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// DefaultPalette returns the skill network colors: blue for technical
// skills, emerald for soft skills and amber for tools and everything else.
func DefaultPalette() *Palette {
	return &Palette{
		Groups: map[int]string{
			1: "#3b82f6", // Blue
			2: "#10b981", // Emerald
		},
		Labels: map[int]string{
			1: "Technical Skills",
			2: "Soft Skills",
		},
		Fallback:   "#f59e0b", // Amber
		OtherLabel: "Tools & Tech",
		Background: "#1e3a8a",
		LinkColor:  "rgba(255,255,255,0.4)",
		TextColor:  "#1e293b",
	}
}

// Color returns the fill color for a group
func (p *Palette) Color(group int) string {
	if c, ok := p.Groups[group]; ok {
		return c
	}
	return p.Fallback
}

// Label returns the legend label for a group
func (p *Palette) Label(group int) string {
	if l, ok := p.Labels[group]; ok {
		return l
	}
	return p.OtherLabel
}

// Category returns a stable index for group: known groups in ascending tag
// order, then one shared slot for everything else.
func (p *Palette) Category(group int) int {
	tags := p.tags()
	for i, tag := range tags {
		if tag == group {
			return i
		}
	}
	return len(tags)
}

// Legend lists the known groups in tag order followed by the fallback
func (p *Palette) Legend() []LegendEntry {
	var entries []LegendEntry
	for _, tag := range p.tags() {
		entries = append(entries, LegendEntry{Label: p.Labels[tag], Color: p.Groups[tag]})
	}
	return append(entries, LegendEntry{Label: p.OtherLabel, Color: p.Fallback})
}

func (p *Palette) tags() []int {
	tags := make([]int, 0, len(p.Groups))
	for tag := range p.Groups {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	return tags
}
