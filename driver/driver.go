// Package driver implements Grace's end-to-end compilation pipeline (§2,
// §5): lexer → parser (wrapper + sema) → codegen → backend → external
// linker, run as a single blocking, sequential traversal with no
// suspension or cancellation.
//
// Every compilation allocates its own fresh [backend.Session] (§5's
// "multiple compilations in one process" requirement) so test harnesses
// can drive [Run] repeatedly without a process restart.
package driver

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ntua-el19005/gracec/backend"
	"github.com/ntua-el19005/gracec/codegen"
	"github.com/ntua-el19005/gracec/diag"
	"github.com/ntua-el19005/gracec/lexer"
	"github.com/ntua-el19005/gracec/parser"
)

// Options configures one invocation of the pipeline (§6's command-line
// surface, abstracted away from flag parsing so main.go and tests can both
// drive it directly).
type Options struct {
	// Filename is the source path in file mode. Empty in stdin mode
	// (StdinAssembly or StdinIR set).
	Filename string

	// StdinAssembly ("-f"): read source from stdin, emit assembly to
	// Stdout, skip linking. Takes precedence over StdinIR if both are set.
	StdinAssembly bool
	// StdinIR ("-i"): read source from stdin, emit the intermediate
	// listing to Stdout, skip linking.
	StdinIR bool

	// Optimize ("-O"): run the backend's optimization pipeline.
	Optimize bool

	// RuntimePath/RuntimeName feed the linker's -L/-l flags (§6).
	RuntimePath string
	RuntimeName string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.SugaredLogger
}

func (o *Options) logger() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop().Sugar()
}

// Run executes the full pipeline per opts and returns the process exit
// code (§6's "Exit codes": 0 success, 1 any compiler-side error, else the
// linker's own code).
func Run(opts Options) int {
	log := opts.logger()

	if opts.StdinAssembly || opts.StdinIR {
		return runStdinMode(opts, log)
	}
	return runFileMode(opts, log)
}

func runStdinMode(opts Options, log *zap.SugaredLogger) int {
	src, err := io.ReadAll(opts.Stdin)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "%s\n", diag.InternalError("reading standard input: %s", err))
		return 1
	}

	sess, _, err := compileSource("<stdin>", string(src), opts.Optimize, log)
	if err != nil {
		reportError(opts.Stderr, log, err)
		return 1
	}
	defer sess.Dispose()

	if opts.StdinAssembly {
		asm, err := sess.EmitAssembly()
		if err != nil {
			reportError(opts.Stderr, log, diag.InternalError("emitting assembly: %s", err))
			return 1
		}
		opts.Stdout.Write(asm)
		return 0
	}

	// opts.StdinIR
	fmt.Fprint(opts.Stdout, sess.EmitIR())
	return 0
}

func runFileMode(opts Options, log *zap.SugaredLogger) int {
	if opts.Filename == "" {
		fmt.Fprintln(opts.Stderr, "usage error: a source filename is required unless -f or -i is given")
		return 1
	}

	//nolint:gosec // the filename is an explicit user-supplied CLI argument, not attacker input
	src, err := os.ReadFile(opts.Filename)
	if err != nil {
		reportError(opts.Stderr, log, diag.InternalError("reading %q: %s", opts.Filename, err))
		return 1
	}

	stem := strings.TrimSuffix(opts.Filename, filepath.Ext(opts.Filename))

	sess, _, err := compileSource(opts.Filename, string(src), opts.Optimize, log)
	if err != nil {
		reportError(opts.Stderr, log, err)
		return 1
	}
	defer sess.Dispose()

	if err := writeSinks(sess, stem); err != nil {
		reportError(opts.Stderr, log, err)
		return 1
	}

	log.Infow("invoking linker", "stem", stem)
	return runLinker(stem, opts.RuntimePath, opts.RuntimeName)
}

// reportError writes the single diagnostic line §7 requires to stderr.
// compileSource attaches pkg/errors context to frontend failures via
// [diag.Wrap]; [diag.AsError] walks that chain back to the underlying
// *diag.Error so the printed line stays exactly the wire format, while
// the wrap context itself still reaches the log for troubleshooting.
func reportError(stderr io.Writer, log *zap.SugaredLogger, err error) {
	de, ok := diag.AsError(err)
	if !ok {
		fmt.Fprintln(stderr, err.Error())
		return
	}
	if de.Error() != err.Error() {
		log.Debugw("compilation failed", "context", err.Error())
	}
	fmt.Fprintln(stderr, de.Error())
}

// compileSource runs lexing, parsing (with inline wrapper/sema), and
// codegen over src, returning a disposed-by-caller Session on success.
func compileSource(file, src string, optimize bool, log *zap.SugaredLogger) (*backend.Session, []diag.Warning, error) {
	l := lexer.New(file, src)
	prog, wctx, err := parser.Parse(l)
	if err != nil {
		return nil, nil, diag.Wrap(err, "compiling "+file)
	}

	sess, err := backend.NewSession(file, optimize)
	if err != nil {
		return nil, nil, err
	}

	log.Debugw("running codegen", "file", file)
	if err := codegen.New(sess, wctx).Generate(prog); err != nil {
		sess.Dispose()
		return nil, nil, diag.Wrap(err, "compiling "+file)
	}

	for _, w := range wctx.Warnings {
		log.Warnw(w.Message, "file", w.Pos.File, "line", w.Pos.Line, "column", w.Pos.Column)
		fmt.Fprintln(os.Stderr, w.String())
	}

	return sess, wctx.Warnings, nil
}

// writeSinks emits the three file-mode output artifacts of §4.5/§6:
// <stem>.imm, <stem>.asm, <stem>.o.
func writeSinks(sess *backend.Session, stem string) error {
	if err := os.WriteFile(stem+".imm", []byte(sess.EmitIR()), 0o644); err != nil {
		return diag.InternalError("writing %s.imm: %s", stem, err)
	}

	asm, err := sess.EmitAssembly()
	if err != nil {
		return diag.InternalError("emitting assembly: %s", err)
	}
	if err := os.WriteFile(stem+".asm", asm, 0o644); err != nil {
		return diag.InternalError("writing %s.asm: %s", stem, err)
	}

	obj, err := sess.EmitObject()
	if err != nil {
		return diag.InternalError("emitting object code: %s", err)
	}
	if err := os.WriteFile(stem+".o", obj, 0o644); err != nil {
		return diag.InternalError("writing %s.o: %s", stem, err)
	}
	return nil
}

// runLinker invokes the external linker per §6: `-no-pie -o <stem>.exe
// <stem>.o -L <runtimePath> -l <runtimeName>`, propagating its exit code.
func runLinker(stem, runtimePath, runtimeName string) int {
	args := []string{"-no-pie", "-o", stem + ".exe", stem + ".o"}
	if runtimePath != "" {
		args = append(args, "-L", runtimePath)
	}
	if runtimeName != "" {
		args = append(args, "-l", runtimeName)
	}

	cmd := exec.Command("cc", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		fmt.Fprintln(os.Stderr, diag.InternalError("invoking linker: %s", err).Error())
		return 1
	}
	return 0
}
