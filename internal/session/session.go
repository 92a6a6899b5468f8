package session

import "github.com/zhubert/moodring/internal/logger"

// State holds the active conversation identifier.
type State struct {
	active string
	epoch  uint64
}

// New returns a State with no active conversation.
func New() *State {
	return &State{}
}

// Active returns the active conversation identifier and whether one is set.
func (s *State) Active() (string, bool) {
	return s.active, s.active != ""
}

// ActiveID returns the active identifier, or "" when none is set.
func (s *State) ActiveID() string {
	return s.active
}

// HasActive reports whether a conversation is active.
func (s *State) HasActive() bool {
	return s.active != ""
}

// Epoch returns the current transcript generation.
func (s *State) Epoch() uint64 {
	return s.epoch
}

// IsCurrent reports whether a completion stamped with epoch still belongs to
// the visible transcript.
func (s *State) IsCurrent(epoch uint64) bool {
	return epoch == s.epoch
}

// AdoptCreated records an identifier the server returned for a send. It
// reports whether the active identifier changed.
func (s *State) AdoptCreated(id string) bool {
	if id == "" || id == s.active {
		return false
	}
	logger.WithConversation(id).Debug("adopted conversation from send", "previous", s.active)
	s.active = id
	return true
}

// Reset adopts id unconditionally and starts a new transcript generation.
func (s *State) Reset(id string) {
	logger.WithConversation(id).Debug("reset conversation", "previous", s.active)
	s.active = id
	s.epoch++
}

// Select switches to id when it is non-empty and differs from the active
// conversation. It reports whether a switch happened.
func (s *State) Select(id string) bool {
	if id == "" || id == s.active {
		return false
	}
	logger.WithConversation(id).Debug("selected conversation", "previous", s.active)
	s.active = id
	s.epoch++
	return true
}
