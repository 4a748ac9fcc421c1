package assets

import (
	"sync"
)

// Tracker aggregates load progress across every requested asset.
// It is safe for concurrent use: loaders report from goroutines while the
// render thread reads the aggregate each frame.
type Tracker struct {
	mu     sync.Mutex
	items  map[string]float32 // locator -> fraction in [0, 1]
	order  []string
	errors map[string]error
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		items:  make(map[string]float32),
		errors: make(map[string]error),
	}
}

// Begin registers a locator as pending. Registering twice resets it.
func (t *Tracker) Begin(locator string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[locator]; !ok {
		t.order = append(t.order, locator)
	}
	t.items[locator] = 0
	delete(t.errors, locator)
}

// Report sets a locator's fraction. Values are clamped and never move backwards.
func (t *Tracker) Report(locator string, fraction float32) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.items[locator]; ok && fraction > cur {
		t.items[locator] = fraction
	}
}

// Done marks a locator finished, successfully or not.
func (t *Tracker) Done(locator string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[locator]; !ok {
		t.order = append(t.order, locator)
	}
	t.items[locator] = 1
	if err != nil {
		t.errors[locator] = err
	}
}

// Progress returns aggregate progress in [0, 100].
func (t *Tracker) Progress() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.items) == 0 {
		return 100
	}
	var sum float32
	for _, f := range t.items {
		sum += f
	}
	return sum / float32(len(t.items)) * 100
}

// Active reports whether any registered load is still pending.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range t.items {
		if f < 1 {
			return true
		}
	}
	return false
}

// Loaded returns how many items have finished and how many are registered.
func (t *Tracker) Loaded() (done, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range t.items {
		if f >= 1 {
			done++
		}
	}
	return done, len(t.items)
}

// Items returns locators in registration order.
func (t *Tracker) Items() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Reset forgets every item.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = make(map[string]float32)
	t.errors = make(map[string]error)
	t.order = nil
}
