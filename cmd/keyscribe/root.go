package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keyscribe/internal/app"
	"keyscribe/internal/config"
	"keyscribe/internal/hotkey/keyboard"
	"keyscribe/internal/logger"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

var (
	flagProfile string
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:           "keyscribe",
	Short:         "Voice typing from the system tray",
	Long:          "Hold the hotkey, speak, release: the speech is transcribed and typed into the focused window.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := os.Getenv(config.EnvLogLevel)
		if flagDebug {
			level = "debug"
		}
		logger.Setup(os.Stderr, level)
	},
	RunE: runTray,
}

// Execute запускает корневую команду.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "keyscribe:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "Profile name (defaults to the OS user)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func profilePaths() (config.Paths, error) {
	return config.ResolvePaths(flagProfile)
}

func runTray(*cobra.Command, []string) error {
	paths, err := profilePaths()
	if err != nil {
		return err
	}

	var runErr error
	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	keyboard.RunOnMainThread(func() {
		logger.Info("keyscribe starting", "version", Version, "profile", paths.Dir)
		source, err := keyboard.NewSource()
		if err != nil {
			runErr = fmt.Errorf("hotkey source: %w", err)
			return
		}
		application, err := app.New(paths, source)
		if err != nil {
			source.Close()
			runErr = fmt.Errorf("init: %w", err)
			return
		}
		application.Run()
	})
	return runErr
}
