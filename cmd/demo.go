package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/moodring/internal/demo"
	"github.com/zhubert/moodring/internal/demo/scenarios"
)

var (
	demoOutput     string
	demoWidth      int
	demoHeight     int
	demoCaptureAll bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate demo recordings of moodring",
	Long: `Generate demo recordings of moodring for documentation.

Scenarios run against a built-in scripted server, so no chat server is needed.

Available subcommands:
  list      - List available demo scenarios
  run       - Run a scenario and print its frames
  cast      - Generate an asciinema cast file`,
}

var demoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available demo scenarios",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listScenarios(cmd.OutOrStdout())
	},
}

var demoRunCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a scenario and print its frames",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemoRun,
}

var demoCastCmd = &cobra.Command{
	Use:   "cast <scenario>",
	Short: "Generate an asciinema cast file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemoCast,
}

func init() {
	for _, c := range []*cobra.Command{demoRunCmd, demoCastCmd} {
		c.Flags().IntVarP(&demoWidth, "width", "w", 0, "Terminal width (scenario default if 0)")
		c.Flags().IntVarP(&demoHeight, "height", "H", 0, "Terminal height (scenario default if 0)")
		c.Flags().BoolVar(&demoCaptureAll, "capture-all", false, "Capture frame after every step (for debugging)")
	}
	demoCastCmd.Flags().StringVarP(&demoOutput, "output", "o", "", "Output file (default <scenario>.cast)")

	demoCmd.AddCommand(demoListCmd)
	demoCmd.AddCommand(demoRunCmd)
	demoCmd.AddCommand(demoCastCmd)
	rootCmd.AddCommand(demoCmd)
}

func listScenarios(w io.Writer) {
	fmt.Fprintln(w, "Available demo scenarios:")
	fmt.Fprintln(w)
	for _, s := range scenarios.All() {
		fmt.Fprintf(w, "  %-15s %s\n", s.Name, s.Description)
	}
}

// getScenario returns a copy of the named scenario with the size overrides
// applied.
func getScenario(name string, width, height int) (*demo.Scenario, error) {
	found := scenarios.Get(name)
	if found == nil {
		return nil, fmt.Errorf("unknown scenario %q\nRun 'moodring demo list' to see available scenarios", name)
	}

	scenario := *found
	if width > 0 {
		scenario.Width = width
	}
	if height > 0 {
		scenario.Height = height
	}
	return &scenario, nil
}

func executeScenario(scenario *demo.Scenario, captureAll bool) ([]demo.Frame, error) {
	execCfg := demo.DefaultExecutorConfig()
	execCfg.CaptureEveryStep = captureAll

	frames, err := demo.NewExecutor(execCfg).Run(scenario)
	if err != nil {
		return nil, fmt.Errorf("error running scenario: %w", err)
	}
	return frames, nil
}

func runDemoRun(cmd *cobra.Command, args []string) error {
	scenario, err := getScenario(args[0], demoWidth, demoHeight)
	if err != nil {
		return err
	}

	frames, err := executeScenario(scenario, demoCaptureAll)
	if err != nil {
		return err
	}
	return demo.WriteFrames(cmd.OutOrStdout(), frames)
}

func runDemoCast(cmd *cobra.Command, args []string) error {
	scenario, err := getScenario(args[0], demoWidth, demoHeight)
	if err != nil {
		return err
	}

	frames, err := executeScenario(scenario, demoCaptureAll)
	if err != nil {
		return err
	}

	outputFile := demoOutput
	if outputFile == "" {
		outputFile = scenario.Name + ".cast"
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()

	title := "moodring: " + scenario.Description
	if err := demo.WriteCast(f, frames, scenario.Width, scenario.Height, title); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d frames)\n", outputFile, len(frames))
	fmt.Fprintf(cmd.OutOrStdout(), "Play it with: asciinema play %s\n", outputFile)
	return nil
}
