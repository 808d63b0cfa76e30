package runner

import (
	"fmt"
	"io"
	"os"
)

// diagnostics returns the writer for verbose execution details
func (c *Config) diagnostics() io.Writer {
	if c.Log != nil {
		return c.Log
	}
	return os.Stderr
}

// PrintPreExecution prints command details before execution
func PrintPreExecution(w io.Writer, shell string, config *Config) {
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Shell:   %s -c\n", shell)
	fmt.Fprintf(w, "Command: %s\n", config.Command)
	if config.Timeout > 0 {
		fmt.Fprintf(w, "Timeout: %s\n", config.Timeout)
	}
}

// PrintPostExecution prints execution results after command completion
func PrintPostExecution(w io.Writer, status Status, exitCode int, executionTime int64) {
	fmt.Fprintf(w, "Status:         %s\n", status)
	fmt.Fprintf(w, "Exit Code:      %d\n", exitCode)
	fmt.Fprintf(w, "Execution Time: %d ms\n", executionTime)
	fmt.Fprintln(w, "----------------------------------------")
}
