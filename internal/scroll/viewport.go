package scroll

// Rect is an element's vertical extent relative to the document top.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Bottom returns the document offset of the element's lower edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Viewport is the rendering collaborator the tracker and engine read from.
//
// Element reports false when no element with the id is rendered.
// Subscribe registers fn for scroll notifications and returns a function
// that removes it again. ScrollIntoView starts a smooth scroll that brings
// the element into view; it is only called for ids Element knows about.
type Viewport interface {
	ScrollY() float64
	Height() float64
	Element(id string) (Rect, bool)
	Subscribe(fn func()) (unsubscribe func())
	ScrollIntoView(id string)
}
