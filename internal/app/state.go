// Package app provides application lifecycle management, state, and events.
package app

import (
	"sync"

	"rtl-scope/internal/layoutfile"
	"rtl-scope/internal/scene"
	"rtl-scope/internal/sim"
)

// State holds the application state: the mirrored circuit, its visual tree,
// and the current layout file.
type State struct {
	mu sync.RWMutex

	// Circuit
	Circuit *sim.Component
	Root    *scene.Node

	// Layout file
	LayoutPath string
	Modified   bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventLayoutLoaded EventType = iota
	EventLayoutSaved
	EventModified
	EventValuesChanged
	EventGeometryChanged
	EventSelectionChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState mirrors the circuit into a visual tree and wires the change
// notifications through to the event system.
func NewState(circuit *sim.Component) (*State, error) {
	root, err := scene.Build(circuit)
	if err != nil {
		return nil, err
	}

	s := &State{
		Circuit:   circuit,
		Root:      root,
		listeners: make(map[EventType][]EventListener),
	}

	var watch func(c *sim.Component)
	watch = func(c *sim.Component) {
		c.OnChange(func() { s.Emit(EventValuesChanged, c) })
		for _, sub := range c.SubComponents() {
			watch(sub)
		}
	}
	watch(circuit)

	var hook func(n *scene.Node)
	hook = func(n *scene.Node) {
		n.OnGeometry(func(n *scene.Node) { s.Emit(EventGeometryChanged, n) })
		for _, c := range n.Children() {
			hook(c)
		}
	}
	hook(root)
	return s, nil
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the layout as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadLayout reads a layout file and applies it to the visual tree.
func (s *State) LoadLayout(path string) error {
	doc, err := layoutfile.Load(path)
	if err != nil {
		return err
	}
	if err := s.Root.ApplyLayout(doc); err != nil {
		return err
	}

	s.mu.Lock()
	s.LayoutPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventLayoutLoaded, path)
	return nil
}

// SaveLayout captures the current wire routing and writes it to path,
// appending the default extension if missing. Returns the path written.
func (s *State) SaveLayout(path string) (string, error) {
	final, err := layoutfile.Save(path, s.Root.CaptureLayout())
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.LayoutPath = final
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventLayoutSaved, final)
	return final, nil
}
