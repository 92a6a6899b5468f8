package session

import "testing"

func TestNew_NoActive(t *testing.T) {
	s := New()
	if s.HasActive() {
		t.Error("new state should have no active conversation")
	}
	if id, ok := s.Active(); ok || id != "" {
		t.Errorf("Active() = (%q, %v), want (\"\", false)", id, ok)
	}
}

func TestAdoptCreated(t *testing.T) {
	tests := []struct {
		name        string
		start       string
		id          string
		wantChanged bool
		wantActive  string
	}{
		{"first send adopts", "", "c1", true, "c1"},
		{"same id is no change", "c1", "c1", false, "c1"},
		{"different id adopts", "c1", "c2", true, "c2"},
		{"empty id ignored", "c1", "", false, "c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{active: tt.start}
			epoch := s.Epoch()

			if got := s.AdoptCreated(tt.id); got != tt.wantChanged {
				t.Errorf("AdoptCreated() = %v, want %v", got, tt.wantChanged)
			}
			if s.ActiveID() != tt.wantActive {
				t.Errorf("active = %q, want %q", s.ActiveID(), tt.wantActive)
			}
			if s.Epoch() != epoch {
				t.Error("AdoptCreated must not bump the epoch")
			}
		})
	}
}

func TestReset_AlwaysAdoptsAndBumps(t *testing.T) {
	s := &State{active: "c1"}
	epoch := s.Epoch()

	s.Reset("c1")
	if s.ActiveID() != "c1" {
		t.Errorf("active = %q, want c1", s.ActiveID())
	}
	if s.IsCurrent(epoch) {
		t.Error("Reset should invalidate the previous epoch even for the same id")
	}

	s.Reset("c2")
	if s.ActiveID() != "c2" {
		t.Errorf("active = %q, want c2", s.ActiveID())
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name        string
		start       string
		id          string
		wantChanged bool
		wantActive  string
	}{
		{"select from empty", "", "c1", true, "c1"},
		{"reselect active is no-op", "c1", "c1", false, "c1"},
		{"select other", "c1", "c2", true, "c2"},
		{"empty id is no-op", "c1", "", false, "c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{active: tt.start}
			epoch := s.Epoch()

			if got := s.Select(tt.id); got != tt.wantChanged {
				t.Errorf("Select() = %v, want %v", got, tt.wantChanged)
			}
			if s.ActiveID() != tt.wantActive {
				t.Errorf("active = %q, want %q", s.ActiveID(), tt.wantActive)
			}
			if s.IsCurrent(epoch) == tt.wantChanged {
				t.Errorf("IsCurrent(old epoch) = %v after changed=%v", s.IsCurrent(epoch), tt.wantChanged)
			}
		})
	}
}
