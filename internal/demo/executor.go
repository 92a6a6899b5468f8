package demo

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/moodring/internal/app"
	"github.com/zhubert/moodring/internal/config"
	"github.com/zhubert/moodring/internal/keys"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui"
)

// Frame represents a captured frame from the demo.
type Frame struct {
	Content    string        // ANSI-encoded terminal content
	Delay      time.Duration // Delay before this frame
	Annotation string        // Optional annotation/caption
	StepIndex  int           // Index of the step that produced this frame
}

// ExecutorConfig configures the demo executor.
type ExecutorConfig struct {
	// CaptureEveryStep captures a frame after every step (default: false)
	CaptureEveryStep bool

	// TypeDelay is the delay between characters when typing (default: 50ms)
	TypeDelay time.Duration

	// KeyDelay is the delay after key presses (default: 100ms)
	KeyDelay time.Duration

	// CommandTimeout bounds how long a command may take to produce its
	// message. Timer commands (animation and flash ticks) exceed it and are
	// dropped, so frames never depend on wall-clock timing.
	CommandTimeout time.Duration
}

// DefaultExecutorConfig returns the default executor configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CaptureEveryStep: false, // Don't capture every step by default for cleaner demos
		TypeDelay:        50 * time.Millisecond,
		KeyDelay:         100 * time.Millisecond,
		CommandTimeout:   25 * time.Millisecond,
	}
}

// maxRounds bounds follow-up commands when delivering responses.
const maxRounds = 10

// Executor runs demo scenarios and captures frames.
type Executor struct {
	config ExecutorConfig
	model  *app.Model
	server *Server
	frames []Frame

	// Commands issued by key presses, run at the next Wait or Respond
	pending []tea.Cmd

	currentAnnotation string
}

// NewExecutor creates a new demo executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultExecutorConfig().CommandTimeout
	}
	return &Executor{
		config: cfg,
		frames: []Frame{},
	}
}

// Server returns the in-memory server of the last run.
func (e *Executor) Server() *Server {
	return e.server
}

// Model returns the app model of the last run.
func (e *Executor) Model() *app.Model {
	return e.model
}

// Run executes a scenario and returns the captured frames. The active theme
// is restored afterwards.
func (e *Executor) Run(scenario *Scenario) ([]Frame, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	prevTheme := ui.CurrentThemeName()
	defer ui.SetTheme(prevTheme)

	e.setup(scenario)
	log := logger.WithComponent("demo")
	log.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))

	// Capture initial frame
	e.captureFrame(0, 500*time.Millisecond)

	for i, step := range scenario.Steps {
		if err := e.executeStep(i, step); err != nil {
			return nil, fmt.Errorf("step %d failed: %w", i, err)
		}
	}

	log.Info("scenario finished", "name", scenario.Name, "frames", len(e.frames))
	return e.frames, nil
}

// setup builds the server and model and loads the initial history.
func (e *Executor) setup(scenario *Scenario) {
	e.frames = []Frame{}
	e.pending = nil
	e.server = NewServer(scenario.Setup.Conversations, scenario.Setup.Replies)

	// No file path: settings changed during a demo are never saved.
	cfg := config.Default()
	if scenario.Setup.Theme != "" {
		cfg.SetTheme(scenario.Setup.Theme)
	}

	e.model = app.New(cfg, func(*config.Config) app.Backend { return e.server }, "demo")
	e.update(tea.WindowSizeMsg{
		Width:  scenario.Width,
		Height: scenario.Height,
	})
	e.deliver(e.model.Init())

	if scenario.Setup.Focus == "sidebar" {
		e.sendKey(keys.Tab)
	}
}

// executeStep executes a single demo step.
func (e *Executor) executeStep(index int, step Step) error {
	switch step.Type {
	case StepWait:
		e.deliverPending()
		e.captureFrame(index, step.Duration)

	case StepKey:
		e.sendKey(step.Key)
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.KeyDelay)
		}

	case StepTypeText:
		for _, ch := range step.Text {
			e.sendKey(string(ch))
			if e.config.CaptureEveryStep {
				e.captureFrame(index, e.config.TypeDelay)
			}
		}

	case StepRespond:
		e.deliverPending()

	case StepAnnotate:
		e.currentAnnotation = step.Annotation
		// Don't capture, annotation applies to next frame

	case StepCapture:
		// Refresh the waiting indicator before capture
		if e.model.IsWaiting() {
			e.update(ui.StopwatchTickMsg(time.Now()))
		}
		e.captureFrame(index, 0)

	case StepFlash:
		e.model.ShowFlash(step.FlashText, step.FlashType)
		e.captureFrame(index, 100*time.Millisecond)

	default:
		return fmt.Errorf("unknown step type %d", step.Type)
	}

	return nil
}

// captureFrame captures the current view as a frame.
func (e *Executor) captureFrame(stepIndex int, delay time.Duration) {
	frame := Frame{
		Content:    e.model.RenderToString(),
		Delay:      delay,
		Annotation: e.currentAnnotation,
		StepIndex:  stepIndex,
	}
	e.frames = append(e.frames, frame)

	// Clear annotation after use
	e.currentAnnotation = ""
}

func (e *Executor) update(msg tea.Msg) tea.Cmd {
	result, cmd := e.model.Update(msg)
	e.model = result.(*app.Model)
	return cmd
}

// sendKey sends a key press and holds its command until time passes.
func (e *Executor) sendKey(key string) {
	if cmd := e.update(keyPress(key)); cmd != nil {
		e.pending = append(e.pending, cmd)
	}
}

func (e *Executor) deliverPending() {
	cmds := e.pending
	e.pending = nil
	e.deliver(tea.Batch(cmds...))
}

// deliver runs cmd and every follow-up it causes, feeding the messages back
// into the model.
func (e *Executor) deliver(cmd tea.Cmd) {
	for round := 0; round < maxRounds && cmd != nil; round++ {
		msgs := e.collect(cmd)
		if len(msgs) == 0 {
			return
		}
		var next []tea.Cmd
		for _, msg := range msgs {
			next = append(next, e.update(msg))
		}
		cmd = tea.Batch(next...)
	}
}

// collect runs cmd, expanding batches, and returns the messages that arrive
// within the command timeout.
func (e *Executor) collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(e.config.CommandTimeout):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, e.collect(c)...)
		}
		return out
	case tea.QuitMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// keyPress converts a key string to a tea.KeyPressMsg.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.ShiftTab:
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case keys.Escape, "escape":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case " ", "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case keys.CtrlE:
		return tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl}
	case keys.CtrlL:
		return tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl}
	case keys.CtrlN:
		return tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	case keys.CtrlR:
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	case keys.CtrlT:
		return tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}
	default:
		if r := []rune(key); len(r) == 1 {
			return tea.KeyPressMsg{Code: r[0], Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}
