// softrender renders OBJ and glTF models on the CPU, one lesson of the
// classic tiny renderer at a time, and previews them in the terminal.
//
// Usage:
//
//	softrender render --shader specular --diffuse d.tga --normal-map n.tga --specular-map s.tga head.obj
//	softrender shadow --diffuse d.tga --normal-map n.tga --specular-map s.tga head.obj
//	softrender ambient --iterations 1000 head.obj
//	softrender view head.obj
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/render"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), rootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := newConfig()
	root := &cobra.Command{
		Use:   "softrender",
		Short: "A CPU software renderer",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			setupLogging(cfg.verbose)
			return cfg.validate()
		},
		SilenceUsage: true,
	}
	cfg.bindGlobal(root)
	root.AddCommand(
		renderCmd(cfg),
		flatCmd(cfg),
		wireframeCmd(cfg),
		triangleCmd(cfg),
		shadowCmd(cfg),
		ambientCmd(cfg),
		ssaoCmd(cfg),
		viewCmd(cfg),
	)
	return root
}

// setupLogging routes both the command's and the library's logs to stderr.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)
}
