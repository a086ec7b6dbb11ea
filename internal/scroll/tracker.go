package scroll

import "sync"

// ChangeFunc is called after the active section moves from prev to next.
type ChangeFunc func(prev, next string)

// Tracker keeps the single active section id for one viewport.
type Tracker struct {
	vp       Viewport
	sections []Section

	// recomputeMu spans the viewport read and the commit so a slow
	// recompute cannot overwrite the result of a newer one.
	recomputeMu sync.Mutex

	mu          sync.Mutex
	active      string
	observers   []ChangeFunc
	unsubscribe func()
}

// NewTracker returns a tracker whose active section starts at the first one.
func NewTracker(vp Viewport, sections []Section) (*Tracker, error) {
	if err := ValidateSections(sections); err != nil {
		return nil, err
	}
	return &Tracker{
		vp:       vp,
		sections: cloneSections(sections),
		active:   sections[0].ID,
	}, nil
}

// ActiveSection applies the halfway rule: the last section in order whose
// top is within half a viewport of the scroll offset wins. Sections missing
// from tops are skipped. When none qualifies the first id is returned.
func ActiveSection(sections []Section, scrollY, viewportHeight float64, tops map[string]float64) string {
	if len(sections) == 0 {
		return ""
	}
	active := sections[0].ID
	for _, s := range sections {
		top, ok := tops[s.ID]
		if ok && scrollY >= top-viewportHeight/2 {
			active = s.ID
		}
	}
	return active
}

// Sections returns a copy of the tracked sections in page order.
func (t *Tracker) Sections() []Section { return cloneSections(t.sections) }

// Active returns the current active section id.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// OnChange registers fn to run whenever the active section changes.
func (t *Tracker) OnChange(fn ChangeFunc) {
	t.mu.Lock()
	t.observers = append(t.observers, fn)
	t.mu.Unlock()
}

// Start subscribes the tracker to the viewport's scroll notifications and
// recomputes once so the initial state matches the current position.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.unsubscribe != nil {
		t.mu.Unlock()
		return
	}
	t.unsubscribe = t.vp.Subscribe(func() { t.Recompute() })
	t.mu.Unlock()
	t.Recompute()
}

// Stop removes the scroll subscription. Safe to call more than once.
func (t *Tracker) Stop() {
	t.mu.Lock()
	unsub := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Recompute reads the viewport and updates the active section.
func (t *Tracker) Recompute() string {
	t.recomputeMu.Lock()
	tops := make(map[string]float64, len(t.sections))
	for _, s := range t.sections {
		if r, ok := t.vp.Element(s.ID); ok {
			tops[s.ID] = r.Top
		}
	}
	next := ActiveSection(t.sections, t.vp.ScrollY(), t.vp.Height(), tops)

	t.mu.Lock()
	prev := t.active
	t.active = next
	observers := append([]ChangeFunc(nil), t.observers...)
	t.mu.Unlock()
	t.recomputeMu.Unlock()

	if prev == next {
		return next
	}

	for _, fn := range observers {
		fn(prev, next)
	}
	return next
}

// Navigate smooth-scrolls the viewport to the section with the given id.
// Unknown or unrendered ids are ignored; the result reports whether a
// scroll was requested.
func (t *Tracker) Navigate(id string) bool {
	if _, ok := t.vp.Element(id); !ok {
		return false
	}
	t.vp.ScrollIntoView(id)
	return true
}
