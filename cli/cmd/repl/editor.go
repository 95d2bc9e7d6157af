package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/sexp/lang"
	"github.com/ardnew/sexp/log"
	"github.com/ardnew/sexp/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-evaluate-retry
// loop. It writes the session bindings as a program to a temp file, opens
// the user's editor, and evaluates the result into a fresh scope. On error
// the user is prompted to re-edit; declining exits the program.
type editCommand struct {
	scope    *lang.Scope
	opts     []lang.Option
	ctxFunc  func() context.Context
	newScope *lang.Scope
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-evaluate-retry loop. If the user clears the file,
// newScope stays nil. If the user declines to re-edit, it returns
// [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.scope.Format(ctx, &buf); err != nil {
		return fmt.Errorf("format scope: %w", err)
	}

	content := buf.String()

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*"+pkg.Ext)
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		// An emptied file cancels the edit.
		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		scope, evalErr := c.evaluate(ctx, string(data))

		c.logger.TraceContext(
			ctx,
			"editor evaluate attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", evalErr == nil),
		)

		if evalErr == nil {
			c.newScope = scope

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\nError: %s\n", evalErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// evaluate runs program in a new root scope.
func (c *editCommand) evaluate(ctx context.Context, program string) (*lang.Scope, error) {
	scope := lang.NewScope()

	if _, err := lang.Evaluate(ctx, program, scope, c.opts...); err != nil {
		return nil, err
	}

	return scope, nil
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
