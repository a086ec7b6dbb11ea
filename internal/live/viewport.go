package live

import (
	"sync"

	"github.com/Zachkp/scrollfolio/internal/scroll"
)

type subscriber struct {
	id int
	fn func()
}

// remoteViewport mirrors the browser's scroll state as reported over the
// socket. Subscribers run in registration order.
type remoteViewport struct {
	mu       sync.Mutex
	scrollY  float64
	height   float64
	elements map[string]scroll.Rect
	subs     []subscriber
	nextSub  int

	scrollTo func(id string, top float64)
}

var _ scroll.Viewport = (*remoteViewport)(nil)

func newRemoteViewport(scrollTo func(id string, top float64)) *remoteViewport {
	return &remoteViewport{elements: map[string]scroll.Rect{}, scrollTo: scrollTo}
}

func (v *remoteViewport) ScrollY() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollY
}

func (v *remoteViewport) Height() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

func (v *remoteViewport) Element(id string) (scroll.Rect, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.elements[id]
	return r, ok
}

func (v *remoteViewport) Subscribe(fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextSub
	v.nextSub++
	v.subs = append(v.subs, subscriber{id: id, fn: fn})
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// ScrollIntoView asks the browser to smooth-scroll to the element. The
// local offset only changes once the browser reports the new position.
func (v *remoteViewport) ScrollIntoView(id string) {
	r, ok := v.Element(id)
	if !ok {
		return
	}
	v.scrollTo(id, r.Top)
}

func (v *remoteViewport) setLayout(scrollY, height float64, elements map[string]scroll.Rect) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollY = clampScroll(scrollY)
	v.height = height
	v.elements = make(map[string]scroll.Rect, len(elements))
	for id, r := range elements {
		v.elements[id] = r
	}
}

func (v *remoteViewport) setScroll(scrollY float64) {
	v.mu.Lock()
	v.scrollY = clampScroll(scrollY)
	v.mu.Unlock()
}

// notify runs every subscriber against the current state.
func (v *remoteViewport) notify() {
	v.mu.Lock()
	subs := append([]subscriber(nil), v.subs...)
	v.mu.Unlock()
	for _, s := range subs {
		s.fn()
	}
}

func clampScroll(y float64) float64 {
	if y < 0 {
		return 0
	}
	return y
}
