// gracec compiles Grace source files to native executables through LLVM
// (§1/§6), or, in one of its two pipe modes, emits assembly or an
// intermediate IR listing for a program read from standard input.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ntua-el19005/gracec/driver"
)

// version is gracec's own release identifier, surfaced by -v/--version
// (supplemented ambient flag, not part of the Grace language surface).
const version = "0.1.0"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	exitCode := 0

	app := &cli.App{
		Name:    "gracec",
		Usage:   "compile a Grace source file to a native executable",
		Version: version,
		ArgsUsage: "<filename>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "O",
				Aliases: []string{"optimize"},
				Usage:   "enable backend optimizations",
			},
			&cli.BoolFlag{
				Name:  "f",
				Usage: "read source from standard input, emit assembly to standard output, skip linking",
			},
			&cli.BoolFlag{
				Name:  "i",
				Usage: "read source from standard input, emit the intermediate listing to standard output, skip linking",
			},
			&cli.StringFlag{
				Name:  "runtime-path",
				Usage: "directory passed to the linker's -L flag for the runtime library",
				Value: "",
			},
			&cli.StringFlag{
				Name:  "runtime-name",
				Usage: "library name passed to the linker's -l flag for the runtime library",
				Value: "gracert",
			},
		},
		Action: func(c *cli.Context) error {
			logger, err := newLogger()
			if err != nil {
				return cli.Exit(fmt.Sprintf("setting up logging: %s", err), 1)
			}
			defer func() { _ = logger.Sync() }()

			opts := driver.Options{
				Filename:      c.Args().First(),
				StdinAssembly: c.Bool("f"),
				StdinIR:       c.Bool("i"),
				Optimize:      c.Bool("O"),
				RuntimePath:   c.String("runtime-path"),
				RuntimeName:   c.String("runtime-name"),
				Stdin:         os.Stdin,
				Stdout:        os.Stdout,
				Stderr:        os.Stderr,
				Logger:        logger.Sugar(),
			}
			exitCode = driver.Run(opts)
			return nil
		},
	}

	if err := app.Run(args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// newLogger builds the driver's internal tracing logger: console-encoded,
// no caller/stacktrace noise, since gracec runs as a short-lived one-shot
// CLI rather than a long-running service.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	return cfg.Build()
}
