package cmd

import (
	"errors"
	"fmt"
	"strings"

	huh "charm.land/huh/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/moodring/internal/config"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui"
	"github.com/zhubert/moodring/internal/ui/modals"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Edit the server address, theme and notifications",
	Long: `Opens an interactive form for the settings stored in the config file.
Values passed as flags or MOODRING_* variables are shown as the starting
point and written to the file when saved.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

// configureAnswers holds the values edited by the configure form.
type configureAnswers struct {
	ServerURL     string
	Theme         string
	Notifications bool
}

func answersFromConfig(cfg *config.Config) *configureAnswers {
	return &configureAnswers{
		ServerURL:     cfg.GetServerURL(),
		Theme:         cfg.GetTheme(),
		Notifications: cfg.GetNotificationsEnabled(),
	}
}

// apply validates the answers and copies them into cfg.
func (a *configureAnswers) apply(cfg *config.Config) error {
	server := strings.TrimRight(strings.TrimSpace(a.ServerURL), "/")
	if err := config.ValidateServerURL(server); err != nil {
		return err
	}
	if !ui.IsThemeName(a.Theme) {
		return fmt.Errorf("unknown theme %q", a.Theme)
	}
	cfg.SetServerURL(server)
	cfg.SetTheme(a.Theme)
	cfg.SetNotificationsEnabled(a.Notifications)
	return nil
}

func newConfigureForm(a *configureAnswers) *huh.Form {
	var themeOptions []huh.Option[string]
	for _, name := range ui.ThemeNames() {
		themeOptions = append(themeOptions, huh.NewOption(ui.GetTheme(name).Name, string(name)))
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Server").
			Description("Address of the sentiment chat server").
			Placeholder(config.DefaultServerURL).
			Value(&a.ServerURL).
			Validate(func(v string) error {
				return config.ValidateServerURL(strings.TrimRight(strings.TrimSpace(v), "/"))
			}),
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&a.Theme),
		huh.NewConfirm().
			Title("Desktop notifications").
			Description("Notify when a reply arrives while the terminal is unfocused").
			Affirmative("On").
			Negative("Off").
			Value(&a.Notifications),
	)).WithTheme(modals.ModalTheme())
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	answers := answersFromConfig(cfg)
	if err := newConfigureForm(answers).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		return fmt.Errorf("error running form: %w", err)
	}

	if err := answers.apply(cfg); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	logger.WithComponent("cmd").Info("config saved", "path", cfg.Path())
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", cfg.Path())
	return nil
}
