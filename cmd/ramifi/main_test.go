package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunWithoutContainer(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", nil, false},
		{"help flag", []string{"--help"}, true},
		{"short help", []string{"list", "-h"}, true},
		{"version", []string{"--version"}, true},
		{"help command", []string{"help", "list"}, true},
		{"completion", []string{"completion", "bash"}, true},
		{"regular command", []string{"list", "--filter", "all"}, false},
		{"help after terminator", []string{"comment", "3", "--", "--help"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runWithoutContainer(tt.args))
		})
	}
}

func TestVerboseRequested(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"absent", []string{"list"}, false},
		{"flag", []string{"--verbose", "list"}, true},
		{"after subcommand", []string{"list", "--verbose"}, true},
		{"explicit true", []string{"--verbose=true"}, true},
		{"after terminator", []string{"comment", "3", "--", "--verbose"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verboseRequested(tt.args))
		})
	}
}
