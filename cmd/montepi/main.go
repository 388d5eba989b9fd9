// Copyright Project GoHPC Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/qcserestipy/montepi/pkg/montecarlo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type envConfig struct {
	LogLevel  string `env:"MONTEPI_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"MONTEPI_LOG_FORMAT" envDefault:"text"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	cfg := envConfig{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: env.ToMap(environ)}); err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	logger, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to configure logging: %v\n", err)
		return 1
	}

	cmd := newRootCmd(logger, stdout)
	// cobra reads os.Args when given nil
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err = cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Error: %v\n%s", err, cmd.UsageString())
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func newLogger(cfg envConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	switch cfg.LogFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return logger, nil
}

func newRootCmd(logger *logrus.Logger, stdout io.Writer) *cobra.Command {
	var (
		remainder string
		seed      uint64
	)

	cmd := &cobra.Command{
		Use:   "montepi <num_threads> <num_samples>",
		Short: "Estimate π by parallel Monte Carlo sampling",
		Long: `montepi splits num_samples points across num_threads workers, counts the
points landing inside the unit circle and prints the resulting estimate of π.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return &UsageError{Got: len(args)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := parsePositive("num_threads", args[0])
			if err != nil {
				return err
			}
			samples, err := parsePositive("num_samples", args[1])
			if err != nil {
				return err
			}
			policy, err := montecarlo.ParseRemainderPolicy(remainder)
			if err != nil {
				return err
			}

			cfg := montecarlo.Config{
				Threads:   int(threads),
				Samples:   samples,
				Remainder: policy,
			}
			if seed != 0 {
				cfg.Seed = &seed
			}

			logger.Info("Starting Monte Carlo π approximation")
			res, err := montecarlo.Run(cmd.Context(), cfg, montecarlo.WithLogger(logger))
			if err != nil {
				return err
			}
			return res.Report(stdout)
		},
	}

	cmd.Flags().StringVar(&remainder, "remainder", string(montecarlo.RemainderDrop),
		"what to do with num_samples % num_threads: drop or distribute")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "fixed seed for reproducible runs (0 draws from OS entropy)")

	return cmd
}

// parsePositive parses an integer argument. Values <= 0 are reported as
// degenerate input rather than parse failures.
func parsePositive(name, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, strconv.IntSize)
	if err != nil {
		return 0, &ParseError{Name: name, Value: s, Err: err}
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s=%d", montecarlo.ErrDegenerateInput, name, v)
	}
	return v, nil
}
