package level

import (
	"strings"
	"sync"
)

// Level is an interned severity label. Two levels are the same label iff
// they are the same pointer.
type Level struct {
	name string
}

func (l *Level) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

func (l *Level) String() string {
	return l.Name()
}

// Registry deduplicates level labels case-insensitively. The first spelling
// seen for a label becomes its display name.
type Registry struct {
	mu    sync.Mutex
	byKey map[string]*Level
	order []*Level
}

func NewRegistry() *Registry {
	return &Registry{byKey: map[string]*Level{}}
}

func (r *Registry) Intern(text string) *Level {
	if r == nil {
		panic("level.Registry.Intern: registry must not be nil")
	}
	key := strings.ToLower(text)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byKey[key]; ok {
		return existing
	}
	lvl := &Level{name: text}
	r.byKey[key] = lvl
	r.order = append(r.order, lvl)
	return lvl
}

// All returns every interned level in first-seen order.
func (r *Registry) All() []*Level {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Level(nil), r.order...)
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
