package cmd

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/zhubert/moodring/internal/api"
	"github.com/zhubert/moodring/internal/app"
	"github.com/zhubert/moodring/internal/config"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui"
)

var (
	debugMode             bool
	configPath            string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "moodring",
	Short: "Terminal client for a sentiment-tagging chat server",
	Long: `Moodring is a terminal chat client. Every message you send is tagged with
its sentiment by the server, conversations are kept in a history panel, and
a whole conversation can be analyzed for its overall mood.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.StringVar(&configPath, "config", "", "Config file (default ~/.moodring/config.yaml)")
	flags.String("server", "", "Chat server address (default "+config.DefaultServerURL+")")
	flags.String("theme", "", "Color theme")
	flags.String("log-file", "", "Debug log path (default "+logger.DefaultLogPath+")")
}

func initLogging() {
	logger.SetDebug(debugMode)
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("moodring %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("moodring %s\n", version)
}

// loadConfig reads the layered configuration for cmd and points the logger
// at the configured file. Callers close the logger when done.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Path:  configPath,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if !ui.IsThemeName(cfg.GetTheme()) {
		return nil, fmt.Errorf("unknown theme %q (available: %v)", cfg.GetTheme(), ui.ThemeNames())
	}
	ui.SetThemeByName(cfg.GetTheme())

	if err := logger.Init(cfg.GetLogFile()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logger.WithComponent("cmd").Debug("config loaded",
		"command", cmd.Name(), "server", cfg.GetServerURL(), "path", cfg.Path())
	return cfg, nil
}

func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.GetServerURL(), cfg.GetRequestTimeout())
}

// outputWidth is the render width for printed transcripts and verdicts.
func outputWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return min(w, ui.DefaultWrapWidth)
	}
	return ui.DefaultWrapWidth
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	m := app.New(cfg, nil, version)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
