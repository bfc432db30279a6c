// Package execcode runs the code blocks of a slide through an interpreter
// and turns the result, or the failure, into text for the slide.
package execcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-shellwords"

	"slider/internal/markdown"
)

// DefaultTimeout bounds a single run.
const DefaultTimeout = 10 * time.Second

// Language is an interpreter that code blocks can be run with.
type Language int

const (
	Bash Language = iota
	Python
	Ruby
	Perl
	Rust
)

func (l Language) String() string {
	switch l {
	case Bash:
		return "bash"
	case Python:
		return "python"
	case Ruby:
		return "ruby"
	case Perl:
		return "perl"
	case Rust:
		return "rust"
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

// Code is an executable code block.
type Code struct {
	Language Language
	Source   string
}

// Detect maps a fence language tag to an executable code block.
func Detect(language, source string) (Code, bool) {
	var l Language
	switch strings.ToLower(language) {
	case "bash", "sh", "shell":
		l = Bash
	case "python", "python3", "py":
		l = Python
	case "ruby", "rb":
		l = Ruby
	case "perl", "pl":
		l = Perl
	case "rust", "rs":
		l = Rust
	default:
		return Code{}, false
	}
	return Code{Language: l, Source: source}, true
}

// Find returns the first top-level code block with a supported language.
func Find(blocks []markdown.Block) (Code, bool) {
	for _, b := range blocks {
		if cb, ok := b.(markdown.CodeBlock); ok && cb.Language != "" {
			if code, ok := Detect(cb.Language, cb.Code); ok {
				return code, true
			}
		}
	}
	return Code{}, false
}

// DefaultCommands are the interpreter command lines. The source is fed on
// standard input. For Rust, "{out}" is replaced by the binary path.
var DefaultCommands = map[Language]string{
	Bash:   "bash -",
	Python: "python3 -",
	Ruby:   "ruby -",
	Perl:   "perl -",
	Rust:   "rustc -o {out} -",
}

var errTimeout = errors.New("execution timed out")

// Runner executes code. The zero value uses DefaultCommands and DefaultTimeout.
type Runner struct {
	Timeout  time.Duration
	Commands map[Language]string
	Log      *slog.Logger
}

// Run executes code and returns what the slide should show: the output on
// success, the error stream on a non-zero exit, or a description of the
// failure. It never returns an error.
func (r *Runner) Run(ctx context.Context, code Code) string {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	var (
		out string
		err error
	)
	if code.Language == Rust {
		out, err = r.compileAndRun(ctx, code)
	} else if args, argErr := r.args(code.Language); argErr != nil {
		err = argErr
	} else {
		out, err = r.execute(ctx, args, code.Source)
	}
	r.logger().Info("executed code block", "language", code.Language, "duration", time.Since(start), "err", err)

	switch {
	case errors.Is(err, errTimeout):
		return fmt.Sprintf("Error running %s:\n%v after %v", code.Language, err, timeout)
	case err != nil:
		return fmt.Sprintf("Error running %s:\n%v", code.Language, err)
	}
	return out
}

func (r *Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

func (r *Runner) compileAndRun(ctx context.Context, code Code) (string, error) {
	dir, err := os.MkdirTemp("", "slider-rust")
	if err != nil {
		return "", fmt.Errorf("could not create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	args, err := r.args(Rust)
	if err != nil {
		return "", err
	}
	bin := filepath.Join(dir, "rustc.out")
	for i, a := range args {
		args[i] = strings.ReplaceAll(a, "{out}", bin)
	}
	out, err := r.execute(ctx, args, code.Source)
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(bin); statErr != nil {
		// compiler exited without a binary; show what it printed
		return out, nil
	}
	return r.execute(ctx, []string{bin}, "")
}

func (r *Runner) args(l Language) ([]string, error) {
	commandLine := DefaultCommands[l]
	if cmd, ok := r.Commands[l]; ok {
		commandLine = cmd
	}
	args, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("bad command %q: %w", commandLine, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no command for %s", l)
	}
	return args, nil
}

// execute runs a command with stdin. A non-zero exit is not an error: its
// error stream (or, when that is empty, its output) is the result.
func (r *Runner) execute(ctx context.Context, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.WaitDelay = 500 * time.Millisecond
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", errTimeout
		}
		return "", ctxErr
	}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		if stderr.Len() > 0 {
			return text(stderr.Bytes())
		}
		return text(stdout.Bytes())
	case err != nil:
		return "", err
	}
	return text(append(stdout.Bytes(), stderr.Bytes()...))
}

func text(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.New("output is not valid UTF-8")
	}
	return string(b), nil
}
