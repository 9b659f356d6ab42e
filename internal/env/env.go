// Package env exposes the host state the collector reads when it builds a
// record: connectivity, connection class and the current page URL.
package env

import (
	"sync"

	"github.com/gosight/gosight/tracer/internal/model"
)

// Environment is read at record build time. Implementations must be safe
// for concurrent use.
type Environment interface {
	Connection() model.Connection
	URL() string
}

// State is the default Environment. It is the single source of truth for
// connection state: connection-change hooks write here and the record
// builder reads from here.
type State struct {
	mu            sync.RWMutex
	online        bool
	effectiveType model.EffectiveType
	url           string
}

// NewState returns a State that starts online with an unknown connection
// class.
func NewState(url string) *State {
	return &State{
		online:        true,
		effectiveType: model.EffectiveUnknown,
		url:           url,
	}
}

func (s *State) Connection() model.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Connection{Online: s.online, EffectiveType: s.effectiveType}
}

func (s *State) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// SetOnline records the host's online flag.
func (s *State) SetOnline(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
}

// SetEffectiveType records the host's connection class.
func (s *State) SetEffectiveType(t model.EffectiveType) {
	s.mu.Lock()
	s.effectiveType = t
	s.mu.Unlock()
}

// SetURL records the current page URL.
func (s *State) SetURL(url string) {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
}
