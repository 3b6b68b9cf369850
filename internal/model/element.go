package model

// Element represents a node in the accessibility tree of a window.
type Element struct {
	ID          int       `json:"i"           yaml:"i"`
	Role        string    `json:"r"           yaml:"r"`
	Title       string    `json:"t,omitempty" yaml:"t,omitempty"`
	Value       string    `json:"v,omitempty" yaml:"v,omitempty"`
	Description string    `json:"d,omitempty" yaml:"d,omitempty"`
	Bounds      [4]int    `json:"b"           yaml:"b"`
	Enabled     *bool     `json:"e,omitempty" yaml:"e,omitempty"` // nil or true = enabled (omit); false = disabled (include)
	Children    []Element `json:"c,omitempty" yaml:"c,omitempty"`
}

// Center returns the screen coordinates of the element's midpoint.
func (e Element) Center() (x, y int) {
	return e.Bounds[0] + e.Bounds[2]/2, e.Bounds[1] + e.Bounds[3]/2
}

// IsEnabled reports whether the element can be interacted with.
func (e Element) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}
