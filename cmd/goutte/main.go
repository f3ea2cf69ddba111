package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/goutte-app/goutte/internal/cadence"
	"github.com/goutte-app/goutte/internal/chart"
	"github.com/goutte-app/goutte/internal/config"
	"github.com/goutte-app/goutte/internal/cue"
	"github.com/goutte-app/goutte/internal/infusion"
	"github.com/goutte-app/goutte/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configPath  string
	verbose     bool
	jsonOutput  bool
	modeFlag    string
	volumeML    int
	durationMin int
	pick        bool
	pdfPath     string
	force       bool

	rootCmd = &cobra.Command{
		Use:   "goutte",
		Short: "Drip rate calculator and drop-counting metronome for IV infusions.",
		Long: `goutte converts an infusion volume and duration into a gravity drip rate (drops per minute) and, for solutes, a flow rate in ml/h.
Run without a subcommand for the interactive calculator; its metronome cues each drop for one minute so the rate can be set by eye on the drip chamber.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				logrus.Fatal("the interactive calculator needs a terminal; use 'goutte calc' or 'goutte chart' in scripts")
			}
			cfg, path := loadConfig()
			if err := tui.Run(cmd.Context(), tui.Options{Config: cfg, ConfigPath: path}); err != nil {
				logrus.Fatalf("TUI mode failed: %v", err)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/goutte/config.yaml)")

	calcCmd.Flags().StringVar(&modeFlag, "mode", "", "Infusion mode: solute or blood (default from config)")
	calcCmd.Flags().IntVar(&volumeML, "volume", 0, "Volume in ml (default: the mode's default volume)")
	calcCmd.Flags().IntVar(&durationMin, "duration", 0, "Duration in minutes (default: the mode's default duration)")
	calcCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format instead of rich text")
	calcCmd.Flags().BoolVar(&pick, "pick", false, "Choose mode, volume and duration interactively")
	rootCmd.AddCommand(calcCmd)

	chartCmd.Flags().StringVar(&modeFlag, "mode", "", "Only chart this mode: solute or blood (default: every mode)")
	chartCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the chart rows in JSON format")
	chartCmd.Flags().StringVar(&pdfPath, "pdf", "", "Write a printable PDF chart to this file")
	rootCmd.AddCommand(chartCmd)

	metronomeCmd.Flags().StringVar(&modeFlag, "mode", "", "Infusion mode: solute or blood (default from config)")
	metronomeCmd.Flags().IntVar(&volumeML, "volume", 0, "Volume in ml (default: the mode's default volume)")
	metronomeCmd.Flags().IntVar(&durationMin, "duration", 0, "Duration in minutes (default: the mode's default duration)")
	rootCmd.AddCommand(metronomeCmd)

	configInitCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute the drip rate for one volume and duration",
	Long:  "Compute the drip rate (and for solutes the ml/h flow rate) of one catalog volume and duration. Values must come from the mode's catalog; see 'goutte chart'.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()

		var (
			sel *infusion.Selection
			err error
		)
		if pick {
			sel, err = pickSelection(cfg, modeFlag)
		} else {
			sel, err = resolveSelection(cfg, modeFlag, volumeML, durationMin)
		}
		if err != nil {
			logrus.Fatal(err)
		}

		f := infusion.NewFormatterFor(cfg.Locale)
		if err := printResult(os.Stdout, f, sel.Result(), cfg.Color(sel.Mode()), jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the drip rate of every volume and duration",
	Long:  "Print a lookup table of drops per minute for every catalog volume (rows) and duration (columns). Solute cells also show the ml/h flow rate.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()

		modes := infusion.Modes()
		if modeFlag != "" {
			m, err := infusion.ParseMode(modeFlag)
			if err != nil {
				logrus.Fatal(err)
			}
			modes = []infusion.Mode{m}
		}
		charts := make([]chart.Chart, 0, len(modes))
		for _, m := range modes {
			charts = append(charts, chart.Build(m))
		}
		f := infusion.NewFormatterFor(cfg.Locale)

		if pdfPath != "" {
			path, err := config.Resolve(pdfPath)
			if err != nil {
				logrus.Fatal(err)
			}
			if err := chart.WritePDF(path, f, charts...); err != nil {
				logrus.Fatal(err)
			}
			fmt.Fprintf(os.Stdout, "Chart written to %s\n", path)
			return
		}

		if jsonOutput && len(charts) > 1 {
			out, err := json.MarshalIndent(charts, "", "  ")
			if err != nil {
				logrus.Fatal(err)
			}
			fmt.Fprintln(os.Stdout, string(out))
			return
		}
		for i, c := range charts {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			if err := chart.Print(os.Stdout, c, f, cfg.Color(c.Mode), jsonOutput); err != nil {
				logrus.Fatal(err)
			}
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var metronomeCmd = &cobra.Command{
	Use:   "metronome",
	Short: "Run a one-minute drop-counting session without the TUI",
	Long:  "Cue every drop of the computed drip rate for one minute, printing the countdown. Interrupt (ctrl+c) stops the session.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()
		sel, err := resolveSelection(cfg, modeFlag, volumeML, durationMin)
		if err != nil {
			logrus.Fatal(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reason, err := runMetronome(ctx, os.Stdout, cfg, sel.Result())
		if err != nil {
			logrus.Fatal(err)
		}
		logrus.Debugf("metronome session ended: %s", reason)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, path := loadConfig()
		out, err := yaml.Marshal(cfg)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "# %s\n%s", path, out)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Run: func(cmd *cobra.Command, args []string) {
		path := resolveConfigPath()
		if _, err := os.Stat(path); err == nil && !force {
			logrus.Fatalf("Config file %s already exists; use --force to overwrite it.", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "Config written to %s\n", path)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stdout, resolveConfigPath())
	},
}

func resolveConfigPath() string {
	path, err := config.Resolve(configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	return path
}

// loadConfig loads the config file selected by --config, exiting on invalid content.
func loadConfig() (config.Config, string) {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatal(err)
	}
	return cfg, path
}

// resolveSelection picks the requested catalog values; zero values fall back to the mode defaults.
func resolveSelection(cfg config.Config, mode string, volume, duration int) (*infusion.Selection, error) {
	m := cfg.InitialMode()
	if mode != "" {
		var err error
		if m, err = infusion.ParseMode(mode); err != nil {
			return nil, err
		}
	}
	defaults := infusion.NewSelection(m)
	if volume == 0 {
		volume = defaults.VolumeML()
	}
	if duration == 0 {
		duration = defaults.DurationMin()
	}
	return infusion.SelectValues(m, volume, duration)
}

// printResult writes one result, as indented JSON or as a short styled summary.
func printResult(w io.Writer, f infusion.Formatter, r infusion.Result, color string, jsonOut bool) error {
	if jsonOut {
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	fmt.Fprintf(w, "%s  %s / %s\n", accent.Render(r.Mode.Label()), f.Volume(r.VolumeML), f.Duration(r.DurationMin))
	fmt.Fprintln(w, accent.Render(f.Drops(r)))
	if rate := f.FlowRate(r); rate != "" {
		fmt.Fprintln(w, rate)
	}
	_, err := fmt.Fprintln(w, muted.Render(fmt.Sprintf("drop factor %d gtt/ml", r.DropFactor)))
	return err
}

// runMetronome runs one session at r's drip rate and blocks until it ends.
// The line printed to w is redrawn on every cue and countdown tick.
func runMetronome(ctx context.Context, w io.Writer, cfg config.Config, r infusion.Result) (cadence.StopReason, error) {
	var (
		mu       sync.Mutex
		beats    int
		degraded bool
	)
	redraw := func(remaining int) {
		glyph := "○"
		if beats%2 == 1 {
			glyph = "●"
		}
		fmt.Fprintf(w, "\r%s %d gtt/min  %2d s  (%d drops)", glyph, r.DropsPerMinute, remaining, beats)
	}

	var haptic cue.Modality
	if len(cfg.HapticCommand) > 0 {
		haptic = cue.NewCommandVibrator(cfg.HapticCommand)
	}
	sig := cue.Compound{
		Visual: cue.FlashFunc(func() {
			mu.Lock()
			beats++
			mu.Unlock()
		}),
		Audio:  cue.NewToggle(cue.NewBell(), cfg.Audio),
		Haptic: haptic,
	}

	stopped := make(chan cadence.StopReason, 1)
	driver := cadence.NewDriver(cadence.Realtime(), sig).WithNotifier(func(ev cadence.Event) {
		mu.Lock()
		defer mu.Unlock()
		switch ev.Type {
		case cadence.EventCue:
			if ev.Report.Degraded() && !degraded {
				degraded = true
				logrus.Warnf("cue degraded: audio %s, haptic %s", ev.Report.Audio, ev.Report.Haptic)
			}
			redraw(ev.Session.SecondsRemaining)
		case cadence.EventCountdown, cadence.EventStarted:
			redraw(ev.Session.SecondsRemaining)
		case cadence.EventStopped:
			fmt.Fprintf(w, "\nSession %s after %d drops.\n", ev.Reason, beats)
			stopped <- ev.Reason
		}
	})
	defer driver.Stop()

	if err := driver.Start(ctx, r.DropsPerMinute); err != nil {
		if errors.Is(err, cadence.ErrNonPositiveRate) {
			return cadence.StopCompleted, fmt.Errorf("nothing to pace: %w", err)
		}
		return cadence.StopCompleted, err
	}
	return <-stopped, nil
}
