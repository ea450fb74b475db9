// Copyright 2025 go-boxblur Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-boxblur/boxblur"
	"github.com/ajroetker/go-boxblur/raster"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitInvocation = 2
)

// invocationError marks a malformed command line.
type invocationError struct {
	msg string
}

func (e *invocationError) Error() string { return e.msg }

func invocationf(format string, args ...any) error {
	return &invocationError{msg: fmt.Sprintf(format, args...)}
}

var negativeInt = regexp.MustCompile(`^-[0-9]+$`)

type config struct {
	grain   int
	workers int
	verbose bool
	format  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfg config

	cmd := &cobra.Command{
		Use:   "boxblur [flags] <radius> <input> <output>",
		Short: "Blur an image with a square box filter",
		Long: `boxblur replaces every pixel with the mean of the pixels within <radius>
of it, per color channel, clamping the window at the image border.
Means are truncated toward zero.`,
		Example: "  boxblur 5 in.ppm out.ppm\n  boxblur --grain 8 -v 12 photo.png blurred.png",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return invocationf("expected <radius> <input> <output>, got %d argument(s)", len(args))
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			radius, err := parseRadius(args[0])
			if err != nil {
				return err
			}
			if cfg.grain < 0 {
				return invocationf("--grain must not be negative, got %d", cfg.grain)
			}
			if cfg.workers < 0 {
				return invocationf("--workers must not be negative, got %d", cfg.workers)
			}
			format, err := outputFormat(cfg.format, args[2])
			if err != nil {
				return err
			}
			return blurFile(cfg, radius, args[1], args[2], format, newLogger(stderr, cfg.verbose))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return invocationf("%v", err)
	})

	flags := cmd.Flags()
	flags.IntVar(&cfg.grain, "grain", 0, "rows or columns per task; 0 uses $"+boxblur.GrainEnv+" or a CPU-based default")
	flags.IntVar(&cfg.workers, "workers", 0, "worker goroutines; 0 uses $"+boxblur.WorkersEnv+" or GOMAXPROCS")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "log stage timings to stderr")
	flags.StringVar(&cfg.format, "format", "", "output format (bmp, jpeg, png, ppm, tiff); default from the output extension")
	flags.SortFlags = false
	return cmd
}

// parseRadius validates the radius argument.
func parseRadius(arg string) (int, error) {
	r, err := strconv.Atoi(arg)
	if err != nil {
		return 0, invocationf("radius must be a non-negative integer, got %q", arg)
	}
	if r < 0 {
		return 0, invocationf("radius must be a non-negative integer, got %d", r)
	}
	return r, nil
}

// outputFormat picks the output encoding: the --format flag, then the file
// extension, then PPM.
func outputFormat(flag, path string) (raster.Format, error) {
	if flag != "" {
		f, err := raster.ParseFormat(flag)
		if err != nil {
			return "", invocationf("--format: %v", err)
		}
		return f, nil
	}
	f, ok := raster.FormatFromPath(path)
	if !ok {
		return raster.FormatPPM, nil
	}
	if _, err := raster.ParseFormat(string(f)); err != nil {
		return "", invocationf("cannot write %s: %v", path, err)
	}
	return f, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func blurFile(cfg config, radius int, in, out string, format raster.Format, logger *slog.Logger) error {
	boxblur.SetLogger(logger)
	defer boxblur.SetLogger(nil)
	began := time.Now()

	img, err := raster.ReadFile(in)
	if err != nil {
		return err
	}
	logger.Debug("read input", "path", in, "width", img.Width(), "height", img.Height(), "elapsed", time.Since(began))

	b := boxblur.New(boxblur.WithGrain(cfg.grain), boxblur.WithWorkers(cfg.workers))
	defer b.Close()

	blurred, err := b.Blur(img, radius)
	if err != nil {
		return err
	}
	if err := raster.WriteFile(out, blurred, format); err != nil {
		return err
	}
	logger.Info("wrote output", "path", out, "format", format, "radius", radius, "total", time.Since(began))
	return nil
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	// pflag reads "-3" as a shorthand flag; report it as the radius it was
	// meant to be.
	var flagErr *invocationError
	if errors.As(err, &flagErr) {
		for _, a := range args {
			if negativeInt.MatchString(a) && isUnknownFlag(cmd.Flags(), a) {
				err = invocationf("radius must be a non-negative integer, got %s", a)
				break
			}
		}
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.As(err, &flagErr) {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, cmd.UsageString())
		return exitInvocation
	}
	return exitFailure
}

func isUnknownFlag(flags *pflag.FlagSet, arg string) bool {
	return flags.ShorthandLookup(arg[1:2]) == nil
}
