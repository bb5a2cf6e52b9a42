package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainCommand(t *testing.T) {
	if os.Getenv("BE_MAIN") == "1" {
		os.Args = append([]string{"rpcdoc-gen"}, strings.Fields(os.Getenv("MAIN_ARGS"))...)
		main()
		return
	}

	tests := []struct {
		name     string
		args     string
		wantExit int
	}{
		{name: "help command", args: "--help", wantExit: 0},
		{name: "invalid flag", args: "--invalid-flag", wantExit: 1},
		{name: "unknown command", args: "frobnicate", wantExit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestMainCommand$")
			cmd.Env = append(os.Environ(), "BE_MAIN=1", "MAIN_ARGS="+tt.args)

			err := cmd.Run()
			if tt.wantExit == 0 {
				assert.NoError(t, err)
				return
			}

			var exitErr *exec.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.wantExit, exitErr.ExitCode())
		})
	}
}
