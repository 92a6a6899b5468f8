package demo

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/ui"
)

func TestExecutorDefaultConfig(t *testing.T) {
	cfg := DefaultExecutorConfig()

	if cfg.CaptureEveryStep {
		t.Error("CaptureEveryStep should be false by default")
	}
	if cfg.TypeDelay != 50*time.Millisecond {
		t.Errorf("TypeDelay = %v, want 50ms", cfg.TypeDelay)
	}
	if cfg.KeyDelay != 100*time.Millisecond {
		t.Errorf("KeyDelay = %v, want 100ms", cfg.KeyDelay)
	}
	if cfg.CommandTimeout <= 0 {
		t.Error("CommandTimeout should be positive")
	}
}

func chatScenario() *Scenario {
	return &Scenario{
		Name:   "test",
		Width:  100,
		Height: 30,
		Setup: &ScenarioSetup{
			Replies: []ScriptedReply{
				{Sentiment: conversation.SentimentPositive, Text: "**Lovely!**"},
			},
		},
		Steps: []Step{
			Type("hello there"),
			Key("enter"),
			Capture(),
			Annotate("reply"),
			Wait(100 * time.Millisecond),
		},
	}
}

func TestExecutorRun(t *testing.T) {
	executor := NewExecutor(DefaultExecutorConfig())
	frames, err := executor.Run(chatScenario())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Initial frame, the capture, and the wait
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	if frames[0].Delay != 500*time.Millisecond {
		t.Errorf("First frame delay = %v, want 500ms", frames[0].Delay)
	}

	waiting := ansi.Strip(frames[1].Content)
	if !strings.Contains(waiting, "hello there") {
		t.Error("the user turn should show before the reply arrives")
	}
	if strings.Contains(waiting, "Lovely!") {
		t.Error("the reply should not show before time passes")
	}

	done := ansi.Strip(frames[2].Content)
	for _, want := range []string{"hello there", "Positive", "Lovely!"} {
		if !strings.Contains(done, want) {
			t.Errorf("final frame missing %q", want)
		}
	}
	if frames[2].Annotation != "reply" {
		t.Errorf("annotation = %q, want reply", frames[2].Annotation)
	}
	if frames[2].StepIndex != 4 {
		t.Errorf("step index = %d, want 4", frames[2].StepIndex)
	}
}

func TestExecutorRun_CaptureEveryStep(t *testing.T) {
	cfg := DefaultExecutorConfig()
	cfg.CaptureEveryStep = true

	frames, err := NewExecutor(cfg).Run(chatScenario())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// One frame per typed character and key on top of the three above
	if want := 3 + len("hello there") + 1; len(frames) != want {
		t.Errorf("got %d frames, want %d", len(frames), want)
	}
}

func TestExecutorRun_RestoresTheme(t *testing.T) {
	defer ui.SetTheme(ui.DefaultTheme)
	ui.SetTheme(ui.ThemeDracula)

	s := chatScenario()
	s.Setup.Theme = string(ui.ThemeLight)
	if _, err := NewExecutor(DefaultExecutorConfig()).Run(s); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ui.CurrentThemeName() != ui.ThemeDracula {
		t.Errorf("theme = %q, want dracula restored", ui.CurrentThemeName())
	}
}

func TestExecutorRun_SidebarFocusOpensConversation(t *testing.T) {
	s := &Scenario{
		Name: "open",
		Setup: &ScenarioSetup{
			Conversations: []SeedConversation{
				{ID: "first", Messages: []conversation.Message{conversation.UserMessage("one")}},
				{ID: "second", Messages: []conversation.Message{conversation.UserMessage("two")}},
			},
			Focus: "sidebar",
		},
		Steps: []Step{
			Key("down"),
			Key("enter"),
			Wait(time.Second),
		},
	}

	executor := NewExecutor(DefaultExecutorConfig())
	frames, err := executor.Run(s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := executor.Model().Session().ActiveID(); got != "second" {
		t.Errorf("active = %q, want second", got)
	}
	if !strings.Contains(ansi.Strip(frames[len(frames)-1].Content), "two") {
		t.Error("the opened transcript should be shown")
	}
}
