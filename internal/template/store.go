package template

import (
	"sync"

	"github.com/af-corp/scribe/internal/types"
)

// Store holds registered templates. Registration order is preserved for
// listings. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	templates map[string]Template
	order     []string
}

func NewStore() *Store {
	return &Store{
		templates: make(map[string]Template),
	}
}

// NewStoreWithBuiltins creates a store pre-loaded with the built-in
// template collection.
func NewStoreWithBuiltins() *Store {
	s := NewStore()
	for _, t := range Builtins() {
		s.Register(t)
	}
	return s
}

// Register stores the template under its name, replacing any prior entry.
// A template with no variables at all is valid (fixed-content template).
func (s *Store) Register(t Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[t.Name]; !exists {
		s.order = append(s.order, t.Name)
	}
	s.templates[t.Name] = t
}

// Get returns the template registered under name.
func (s *Store) Get(name string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[name]
	if !ok {
		return Template{}, &types.NotFoundError{Template: name}
	}
	return t, nil
}

// Render looks up the named template and renders it with the given
// variables. It returns the rendered prompt and the merged variable map
// (defaults plus caller overrides) used for substitution.
func (s *Store) Render(name string, variables map[string]string) (string, map[string]string, error) {
	t, err := s.Get(name)
	if err != nil {
		return "", nil, err
	}
	return t.Render(variables)
}

// List returns metadata for all registered templates in registration order.
func (s *Store) List() []types.TemplateInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]types.TemplateInfo, 0, len(s.order))
	for _, name := range s.order {
		infos = append(infos, s.templates[name].Info())
	}
	return infos
}

// Len returns the number of registered templates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}
