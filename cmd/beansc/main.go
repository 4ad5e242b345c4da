// Command beansc is the Beans shader compiler CLI.
//
// Usage:
//
//	beansc <command> [flags] <input>...
//
// Examples:
//
//	beansc compile shader.bsl                # Writes shader.spv
//	beansc compile -o out.spv shader.bsl     # Compile to a chosen file
//	beansc compile a.bsl b.bsl c.bsl         # Compile several in parallel
//	beansc dis shader.spv                    # Disassemble a binary
//	beansc tokens shader.bsl                 # Dump the token stream
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/beans/bsl"
	"github.com/gogpu/beans/config"
)

// app carries state shared by every subcommand.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer

	configPath string
	colorMode  string
	verbose    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "beansc",
		Short:         "Beans Shading Language compiler",
		Long:          `beansc compiles Beans Shading Language source into SPIR-V binaries`,
		Version:       beansVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to beans.toml (default: search upwards)")
	root.PersistentFlags().StringVar(&a.colorMode, "color", "", "colorize output (auto|on|off)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(newCompileCmd(a))
	root.AddCommand(newDisCmd(a))
	root.AddCommand(newTokensCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

// setup loads the configuration and applies the global flags.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return err
		}
		if ok {
			path = found
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = a.colorMode
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	color.NoColor = !a.useColor()

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	if path != "" {
		a.log.Debug("loaded configuration", "path", path)
	}
	return nil
}

func (a *app) useColor() bool {
	switch a.cfg.Color {
	case config.ColorOn:
		return true
	case config.ColorOff:
		return false
	}
	f, ok := a.stderr.(*os.File)
	return ok && isTerminal(f)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var errorLabel = color.New(color.FgRed, color.Bold)

// report prints err, with source context for compile errors.
func (a *app) report(path string, err error) {
	var se *bsl.SourceError
	if !errors.As(err, &se) {
		fmt.Fprintf(a.stderr, "%s %v\n", errorLabel.Sprint("error:"), err)
		return
	}
	text := strings.TrimPrefix(se.FormatWithContext(), "error: ")
	text = strings.Replace(text, "  --> line ", "  --> "+path+":", 1)
	fmt.Fprintf(a.stderr, "%s %s", errorLabel.Sprint("error:"), text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(a.stderr)
	}
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel.Sprint("error:"), err)
		}
		os.Exit(1)
	}
}
