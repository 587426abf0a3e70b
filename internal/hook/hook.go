// Package hook runs a user-supplied shell command for each discovered
// accessible resource, e.g. to fire a notification mid-scan.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"restscout/internal/probe"
)

// resourceJSON is the JSON payload sent to the hook command via stdin.
type resourceJSON struct {
	Name       string `json:"name"`
	Class      string `json:"class"`
	StatusCode int    `json:"status"`
	Rows       int    `json:"sample_rows"`
}

// Runner executes a shell command for each accessible resource.
type Runner struct {
	cmd   string
	quiet bool
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string, quiet bool) *Runner {
	return &Runner{cmd: cmd, quiet: quiet}
}

// Run executes the hook command with the outcome as JSON on stdin.
// The command runs with a 30-second timeout. Errors are logged but
// do not halt the scan.
func (r *Runner) Run(o probe.Outcome) {
	payload := resourceJSON{
		Name:       o.Resource,
		Class:      o.Class.String(),
		StatusCode: o.StatusCode,
		Rows:       len(o.Sample),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hook] marshal error: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shell, args := shellCommand()
	// Replace {name} and {status} placeholders in the command.
	expanded := r.cmd
	expanded = strings.ReplaceAll(expanded, "{name}", o.Resource)
	expanded = strings.ReplaceAll(expanded, "{status}", fmt.Sprintf("%d", o.StatusCode))
	expanded = strings.ReplaceAll(expanded, "{class}", o.Class.String())

	cmd := exec.CommandContext(ctx, shell, append(args, expanded)...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	if err != nil {
		if !r.quiet {
			fmt.Fprintf(os.Stderr, "[hook] error: %v\n", err)
		}
		return
	}

	if len(output) > 0 && !r.quiet {
		fmt.Fprintf(os.Stderr, "[hook] %s", output)
	}
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
