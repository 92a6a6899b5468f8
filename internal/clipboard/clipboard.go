// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/moodring/internal/logger"
)

var (
	mu          sync.Mutex
	initialized bool
	initFn      = clipboard.Init
	writeFn     = func(data []byte) { clipboard.Write(clipboard.FmtText, data) }
)

// Init initializes the clipboard. Safe to call multiple times.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	if err := initFn(); err != nil {
		logger.WithComponent("clipboard").Warn("failed to initialize", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

// WriteText places text on the system clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()

	if text == "" {
		return fmt.Errorf("nothing to copy")
	}
	if err := initLocked(); err != nil {
		return err
	}
	writeFn([]byte(text))
	logger.WithComponent("clipboard").Debug("copied text", "bytes", len(text))
	return nil
}
