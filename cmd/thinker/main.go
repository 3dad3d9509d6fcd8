package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pengelbrecht/thinker/internal/engine"
	"github.com/pengelbrecht/thinker/internal/log"
	"github.com/pengelbrecht/thinker/internal/thinking"
	"github.com/pengelbrecht/thinker/internal/tui"
	"github.com/pengelbrecht/thinker/internal/update"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "thinker",
	Short: "An animated \"thinking\" status card for the terminal",
	Long: `Thinker renders a card that scrolls randomized status lines, pausing now and
then as if it were thinking. Hover the card to slow it down; click [+] or
press e to expand it.

When stdout is not a terminal (or with --headless) the lines are printed as
plain text or JSON Lines instead.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runThinker,
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade thinker to the latest version",
	Long:  `Downloads the latest GitHub release and replaces the running binary in-place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Current version: %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Checking for updates...")

		latest, err := update.Update(cmd.Context(), version)
		if errors.Is(err, update.ErrHomebrewInstall) {
			fmt.Fprintf(cmd.ErrOrStderr(), "thinker is managed by Homebrew, %s\n", update.UpdateInstructions(update.InstallHomebrew))
		}
		if err != nil {
			return fmt.Errorf("upgrade: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated to %s\n", latest)
		return nil
	},
}

func init() {
	rootCmd.Flags().Uint64("seed", 0, "Random seed (0 = seed from the clock)")
	rootCmd.Flags().Bool("headless", false, "Run without TUI (stdout only)")
	rootCmd.Flags().Bool("jsonl", false, "Emit JSON Lines in headless mode")
	rootCmd.Flags().Duration("duration", 0, "Stop a headless run after this long (0 = until interrupted)")
	rootCmd.Flags().Bool("debug", false, "Write a debug log to "+log.DefaultPath)
	rootCmd.Flags().Bool("no-update-check", false, "Skip the daily update check")

	rootCmd.AddCommand(upgradeCmd)
}

func runThinker(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetUint64("seed")
	headless, _ := cmd.Flags().GetBool("headless")
	jsonl, _ := cmd.Flags().GetBool("jsonl")
	duration, _ := cmd.Flags().GetDuration("duration")
	debug, _ := cmd.Flags().GetBool("debug")
	noUpdateCheck, _ := cmd.Flags().GetBool("no-update-check")

	if log.Enabled(debug) {
		cleanup, err := log.Init(log.DefaultPath)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	if jsonl && !headless {
		headless = true
	}
	if !headless && !term.IsTerminal(int(os.Stdout.Fd())) {
		headless = true
	}
	log.Info(log.CatStartup, "starting", "version", version, "headless", headless, "seed", seed)

	cfg := thinking.DefaultConfig()
	rng := thinking.NewSource(seed)

	if headless {
		return runHeadless(cmd, cfg, rng, jsonl, duration)
	}

	var check func() string
	if !noUpdateCheck {
		check = func() string { return update.CheckPeriodically(version) }
	}
	return runTUI(cfg, rng, check)
}

func runHeadless(cmd *cobra.Command, cfg thinking.Config, rng thinking.Source, jsonl bool, duration time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := engine.NewHeadlessOutput(jsonl)
	out.SetWriter(cmd.OutOrStdout())

	engine.RunHeadless(ctx, cfg, rng, engine.RealScheduler(), out, duration)
	return nil
}

func runTUI(cfg thinking.Config, rng thinking.Source, check func() string) error {
	zone.NewGlobal()
	defer zone.Close()

	m := tui.New(tui.Config{
		Scroller:    cfg,
		Rand:        rng,
		UpdateCheck: check,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		log.ErrorErr(log.CatStartup, "tui exited", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
