package demo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// clearScreen homes the cursor and clears the screen before each frame.
const clearScreen = "\x1b[H\x1b[2J"

type castHeader struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// WriteCast writes frames as an asciinema v2 recording. Each frame is shown
// after its delay and redraws the whole screen.
func WriteCast(w io.Writer, frames []Frame, width, height int, title string) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(castHeader{
		Version: 2,
		Width:   width,
		Height:  height,
		Title:   title,
		Env:     map[string]string{"TERM": "xterm-256color"},
	}); err != nil {
		return fmt.Errorf("write cast header: %w", err)
	}

	var elapsed time.Duration
	for i, f := range frames {
		elapsed += f.Delay
		data := clearScreen + strings.ReplaceAll(f.Content, "\n", "\r\n")
		if err := enc.Encode([]any{elapsed.Seconds(), "o", data}); err != nil {
			return fmt.Errorf("write cast frame %d: %w", i, err)
		}
	}
	return nil
}

// WriteFrames writes frames as plain text, separated by headers, for
// inspecting a scenario on the terminal.
func WriteFrames(w io.Writer, frames []Frame) error {
	if _, err := fmt.Fprintf(w, "Captured %d frames\n", len(frames)); err != nil {
		return err
	}
	for i, f := range frames {
		fmt.Fprintf(w, "\n=== Frame %d (step %d, delay: %v) ===\n", i, f.StepIndex, f.Delay)
		if f.Annotation != "" {
			fmt.Fprintf(w, "Annotation: %s\n", f.Annotation)
		}
		if _, err := fmt.Fprintln(w, f.Content); err != nil {
			return err
		}
	}
	return nil
}
