package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/beans"
	"github.com/gogpu/beans/shadercache"
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("compilation failed")

func newCompileCmd(a *app) *cobra.Command {
	var (
		output string
		clean  bool
	)
	cmd := &cobra.Command{
		Use:   "compile [flags] file.bsl...",
		Short: "Compile BSL sources to SPIR-V",
		Long: `Compile translates each source file into a SPIR-V binary.
Without -o every input is written next to itself with a .spv extension.
--clean empties the disk cache before compiling.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("-o needs exactly one input, got %d", len(args))
			}
			return a.compileAll(args, output, clean)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single input only)")
	cmd.Flags().BoolVar(&clean, "clean", false, "drop cached binaries before compiling")
	return cmd
}

// outputPath returns the .spv path written for input.
func outputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".spv"
}

func (a *app) compileAll(inputs []string, output string, clean bool) error {
	var disk *shadercache.DiskCache
	if a.cfg.Cache.Enabled && a.cfg.Cache.Dir != "" {
		d, err := shadercache.OpenDiskCache(a.cfg.Cache.Dir)
		if err != nil {
			a.log.Warn("disk cache unavailable", "dir", a.cfg.Cache.Dir, "error", err)
		} else {
			disk = d
			a.log.Debug("using disk cache", "dir", disk.Dir())
		}
	}
	if clean {
		if disk == nil {
			a.log.Warn("--clean ignored, disk cache is disabled")
		} else if err := disk.DropAll(); err != nil {
			return fmt.Errorf("failed to clean disk cache %s: %w", disk.Dir(), err)
		}
	}

	jobs := a.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Results are indexed by input so reports come out in argument order.
	errs := make([]error, len(inputs))
	var g errgroup.Group
	g.SetLimit(min(jobs, len(inputs)))
	for i, input := range inputs {
		g.Go(func() error {
			dst := output
			if dst == "" {
				dst = outputPath(input)
			}
			errs[i] = a.compileFile(input, dst, disk)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			a.report(inputs[i], err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errReported, failed, len(inputs))
	}
	return nil
}

func (a *app) compileFile(input, dst string, disk *shadercache.DiskCache) error {
	source, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	opts := beans.Options{Limits: a.cfg.Limits}

	var key shadercache.Key
	if disk != nil {
		key = shadercache.KeyFor(source, opts.Limits)
		if code, ok, err := disk.Get(key); err == nil && ok {
			a.log.Debug("disk cache hit", "input", input)
			return os.WriteFile(dst, code, 0o644)
		}
	}

	code, err := beans.Compile(source, opts)
	if err != nil {
		return err
	}
	if disk != nil {
		if err := disk.Put(key, code); err != nil {
			a.log.Warn("disk cache write failed", "input", input, "error", err)
		}
	}
	if err := os.WriteFile(dst, code, 0o644); err != nil {
		return err
	}
	a.log.Debug("compiled", "input", input, "output", dst, "bytes", len(code))
	return nil
}
