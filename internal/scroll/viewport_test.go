package scroll

// fakeViewport is a synthetic page used in place of a browser.
type fakeViewport struct {
	scrollY   float64
	height    float64
	docHeight float64
	elements  map[string]Rect

	nextSub     int
	subs        map[int]func()
	scrollCalls int
}

func newFakeViewport(height float64, tops map[string]float64, sectionHeight float64) *fakeViewport {
	vp := &fakeViewport{height: height, elements: map[string]Rect{}, subs: map[int]func(){}}
	for id, top := range tops {
		r := Rect{Top: top, Height: sectionHeight}
		vp.elements[id] = r
		if r.Bottom() > vp.docHeight {
			vp.docHeight = r.Bottom()
		}
	}
	return vp
}

func (f *fakeViewport) ScrollY() float64 { return f.scrollY }
func (f *fakeViewport) Height() float64  { return f.height }

func (f *fakeViewport) Element(id string) (Rect, bool) {
	r, ok := f.elements[id]
	return r, ok
}

func (f *fakeViewport) Subscribe(fn func()) func() {
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() { delete(f.subs, id) }
}

func (f *fakeViewport) ScrollIntoView(id string) {
	f.scrollCalls++
	r := f.elements[id]
	f.scrollTo(r.Top)
}

func (f *fakeViewport) scrollTo(y float64) {
	if limit := f.docHeight - f.height; y > limit {
		y = limit
	}
	if y < 0 {
		y = 0
	}
	f.scrollY = y
	for _, fn := range f.subs {
		fn()
	}
}
