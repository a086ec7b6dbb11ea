package scroll

// Curve is a piecewise-linear mapping. Input must be ascending and the same
// length as Output. Values outside the input range clamp to the end points.
type Curve struct {
	Input  []float64
	Output []float64
}

var (
	// OpacityCurve fades a section in towards the middle of its transit and out again.
	OpacityCurve = Curve{Input: []float64{0, 0.5, 1}, Output: []float64{0, 1, 0}}
	// ScaleCurve grows a section to full size mid-transit.
	ScaleCurve = Curve{Input: []float64{0, 0.5, 1}, Output: []float64{0.8, 1, 0.8}}
)

// At evaluates the curve at x.
func (c Curve) At(x float64) float64 {
	n := len(c.Input)
	if n == 0 || len(c.Output) != n {
		return 0
	}
	if x <= c.Input[0] {
		return c.Output[0]
	}
	if x >= c.Input[n-1] {
		return c.Output[n-1]
	}
	for i := 1; i < n; i++ {
		x1 := c.Input[i]
		if x > x1 {
			continue
		}
		x0 := c.Input[i-1]
		y0, y1 := c.Output[i-1], c.Output[i]
		if x == x1 || x1 == x0 {
			return y1
		}
		return y0 + (x-x0)/(x1-x0)*(y1-y0)
	}
	return c.Output[n-1]
}

// Progress is how far a section has travelled through the viewport:
// 0 when its top meets the viewport bottom, 1 when its bottom meets the
// viewport top. It is not clamped.
func Progress(r Rect, scrollY, viewportHeight float64) float64 {
	span := r.Height + viewportHeight
	if span <= 0 {
		return 0
	}
	return (scrollY + viewportHeight - r.Top) / span
}

// Opacity maps progress through OpacityCurve.
func Opacity(progress float64) float64 { return OpacityCurve.At(progress) }

// Scale maps progress through ScaleCurve.
func Scale(progress float64) float64 { return ScaleCurve.At(progress) }

// Style is the visual transform applied to one section.
type Style struct {
	Progress float64 `json:"progress"`
	Opacity  float64 `json:"opacity"`
	Scale    float64 `json:"scale"`
}

// StyleAt derives the style for a given progress.
func StyleAt(progress float64) Style {
	return Style{Progress: progress, Opacity: Opacity(progress), Scale: Scale(progress)}
}

// Engine computes section styles from a viewport. It holds no scroll
// state; every call reads the viewport afresh.
type Engine struct {
	sections []Section
}

// NewEngine returns an engine for the given sections.
func NewEngine(sections []Section) (*Engine, error) {
	if err := ValidateSections(sections); err != nil {
		return nil, err
	}
	return &Engine{sections: cloneSections(sections)}, nil
}

// Style returns the style of one section, or false if it is not rendered.
func (e *Engine) Style(vp Viewport, id string) (Style, bool) {
	r, ok := vp.Element(id)
	if !ok {
		return Style{}, false
	}
	return StyleAt(Progress(r, vp.ScrollY(), vp.Height())), true
}

// Styles returns the style of every rendered section keyed by id.
func (e *Engine) Styles(vp Viewport) map[string]Style {
	out := make(map[string]Style, len(e.sections))
	for _, s := range e.sections {
		if st, ok := e.Style(vp, s.ID); ok {
			out[s.ID] = st
		}
	}
	return out
}
