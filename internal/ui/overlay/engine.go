// Package overlay positions the floating prefix menu above its anchor and
// renders it onto a layer outside the anchor's own layout.
//
// Placement is a two-phase cycle. Opening the menu, or changing anything
// that affects its height, puts the engine in PhaseMeasuring: the panel is
// rendered off-screen so its natural height can be read. Commit then turns
// that height and the anchor rectangle into explicit geometry and moves the
// engine to PhasePositioned, at which point the panel becomes visible.
package overlay

const (
	// DefaultGap separates the panel's bottom edge from the anchor's top.
	DefaultGap = 4
	// DefaultMinWidth is the narrowest panel width.
	DefaultMinWidth = 300
	// TopLayer is the stacking order given to a committed panel.
	TopLayer = 9999
)

// Phase is the position engine state.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseMeasuring
	PhasePositioned
)

func (p Phase) String() string {
	switch p {
	case PhaseMeasuring:
		return "measuring"
	case PhasePositioned:
		return "positioned"
	default:
		return "closed"
	}
}

// Rect is a screen rectangle in cells.
type Rect struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Geometry is the committed placement of the panel.
type Geometry struct {
	Top     int
	Left    int
	Width   int
	Height  int
	Visible bool
	Layer   int
}

// Bounds returns the rectangle covered by the panel.
func (g Geometry) Bounds() Rect {
	return Rect{Top: g.Top, Left: g.Left, Width: g.Width, Height: g.Height}
}

// Engine tracks the open state and committed geometry of the menu panel.
type Engine struct {
	gap      int
	minWidth int
	phase    Phase
	geometry Geometry
}

// NewEngine returns a closed engine. A negative gap or a non-positive
// minWidth uses the defaults.
func NewEngine(gap, minWidth int) *Engine {
	if gap < 0 {
		gap = DefaultGap
	}
	if minWidth <= 0 {
		minWidth = DefaultMinWidth
	}
	return &Engine{gap: gap, minWidth: minWidth}
}

// Phase returns the current engine state.
func (e *Engine) Phase() Phase { return e.phase }

// IsOpen reports whether the panel is measuring or positioned.
func (e *Engine) IsOpen() bool { return e.phase != PhaseClosed }

// Geometry returns the last committed placement.
func (e *Engine) Geometry() Geometry { return e.geometry }

// IsPositioned reports whether geometry has been committed.
func (e *Engine) IsPositioned() bool { return e.phase == PhasePositioned }

func (e *Engine) Gap() int { return e.gap }

func (e *Engine) MinWidth() int { return e.minWidth }

// Open starts a measuring pass unless the panel is already open.
func (e *Engine) Open() {
	if e.phase != PhaseClosed {
		return
	}
	e.phase = PhaseMeasuring
	e.geometry = Geometry{}
}

// Close hides the panel and forgets its geometry.
func (e *Engine) Close() {
	e.phase = PhaseClosed
	e.geometry = Geometry{}
}

// Toggle opens a closed panel or closes an open one. It returns the new
// open state.
func (e *Engine) Toggle() bool {
	if e.IsOpen() {
		e.Close()
		return false
	}
	e.Open()
	return true
}

// Invalidate requests a new measuring pass after content affecting the
// panel height has changed. Closed panels stay closed.
func (e *Engine) Invalidate() {
	if e.phase == PhasePositioned {
		e.phase = PhaseMeasuring
	}
}

// Commit turns a measured panel height into geometry placed directly above
// anchor. A nil anchor means it is no longer mounted and the pass is
// skipped. Commit reports whether geometry was committed.
func (e *Engine) Commit(anchor *Rect, height int) bool {
	if e.phase != PhaseMeasuring || anchor == nil {
		return false
	}
	if height < 0 {
		height = 0
	}
	width := anchor.Width
	if width < e.minWidth {
		width = e.minWidth
	}
	e.geometry = Geometry{
		Top:     anchor.Top - height - e.gap,
		Left:    anchor.Left,
		Width:   width,
		Height:  height,
		Visible: true,
		Layer:   TopLayer,
	}
	e.phase = PhasePositioned
	return true
}

// Outside reports whether the pointer at (x, y) falls outside both the
// anchor and the committed panel.
func (e *Engine) Outside(anchor Rect, x, y int) bool {
	if anchor.Contains(x, y) {
		return false
	}
	if e.phase == PhasePositioned && e.geometry.Bounds().Contains(x, y) {
		return false
	}
	return true
}
