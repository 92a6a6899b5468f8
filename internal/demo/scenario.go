// Package demo plays scripted sessions against an in-memory chat server and
// captures the rendered frames, for documentation and recordings. It drives
// the same app.Model the terminal runs, without a network or a terminal.
package demo

import (
	"fmt"
	"time"

	"github.com/zhubert/moodring/internal/ui"
)

// StepType represents the type of action in a demo step.
type StepType int

const (
	// StepWait lets time pass: outstanding requests complete, then a frame
	// is captured.
	StepWait StepType = iota
	// StepKey sends a single key press.
	StepKey
	// StepTypeText types a string character by character.
	StepTypeText
	// StepRespond delivers outstanding server responses without capturing.
	StepRespond
	// StepCapture captures the current frame.
	StepCapture
	// StepAnnotate adds an annotation/caption to the next frame.
	StepAnnotate
	// StepFlash shows a footer flash message.
	StepFlash
)

// Step represents a single action in a demo scenario.
type Step struct {
	Type        StepType
	Description string // Human-readable description of what this step does

	// For StepKey
	Key string

	// For StepTypeText
	Text string

	// For StepWait
	Duration time.Duration

	// For StepAnnotate
	Annotation string

	// For StepFlash
	FlashText string
	FlashType ui.FlashType
}

// Scenario defines a complete demo scenario.
type Scenario struct {
	Name        string
	Description string
	Width       int // Terminal width (default 120)
	Height      int // Terminal height (default 40)
	Setup       *ScenarioSetup
	Steps       []Step
}

// ScenarioSetup defines the server contents and initial UI state.
type ScenarioSetup struct {
	// Conversations stored on the server, newest first
	Conversations []SeedConversation

	// Replies the server gives to user turns, in order
	Replies []ScriptedReply

	// Theme to render with (default theme if empty)
	Theme string

	// Initial focus ("sidebar" or "chat")
	Focus string
}

// DefaultSetup returns an empty server with chat focus.
func DefaultSetup() *ScenarioSetup {
	return &ScenarioSetup{Focus: "chat"}
}

// Validate checks that the scenario is valid and fills in defaults.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "scenario name is required"}
	}
	if s.Width <= 0 {
		s.Width = 120
	}
	if s.Height <= 0 {
		s.Height = 40
	}
	if s.Setup == nil {
		s.Setup = DefaultSetup()
	}
	if s.Setup.Theme != "" && !ui.IsThemeName(s.Setup.Theme) {
		return &ValidationError{Field: "Setup.Theme", Message: "unknown theme " + s.Setup.Theme}
	}
	switch s.Setup.Focus {
	case "", "chat", "sidebar":
	default:
		return &ValidationError{Field: "Setup.Focus", Message: "focus must be chat or sidebar"}
	}
	for i, step := range s.Steps {
		if step.Type == StepKey && step.Key == "" {
			return &ValidationError{Field: "Steps", Message: fmt.Sprintf("key step %d has no key", i)}
		}
	}
	return nil
}

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}

// Step builder functions for fluent scenario construction

// Wait creates a wait step.
func Wait(d time.Duration) Step {
	return Step{
		Type:     StepWait,
		Duration: d,
	}
}

// Key creates a key press step.
func Key(key string) Step {
	return Step{
		Type: StepKey,
		Key:  key,
	}
}

// KeyWithDesc creates a key press step with a description.
func KeyWithDesc(key, description string) Step {
	return Step{
		Type:        StepKey,
		Key:         key,
		Description: description,
	}
}

// Type creates a text typing step.
func Type(text string) Step {
	return Step{
		Type: StepTypeText,
		Text: text,
	}
}

// Respond creates a step that delivers outstanding server responses.
func Respond() Step {
	return Step{Type: StepRespond}
}

// Annotate creates an annotation step.
func Annotate(text string) Step {
	return Step{
		Type:       StepAnnotate,
		Annotation: text,
	}
}

// Capture creates a frame capture step.
func Capture() Step {
	return Step{
		Type: StepCapture,
	}
}

// Flash creates a step that shows a footer flash message.
func Flash(text string, flashType ui.FlashType) Step {
	return Step{
		Type:      StepFlash,
		FlashText: text,
		FlashType: flashType,
	}
}
