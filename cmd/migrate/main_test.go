package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		args []string
		want command
	}{
		{nil, command{name: "up"}},
		{[]string{"up"}, command{name: "up"}},
		{[]string{"down"}, command{name: "down"}},
		{[]string{"version"}, command{name: "version"}},
		{[]string{"force", "1"}, command{name: "force", version: 1}},
	}
	for _, tc := range cases {
		got, err := parseCommand(tc.args)
		require.NoError(t, err, "args %v", tc.args)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, args := range [][]string{{"force"}, {"force", "x"}, {"sideways"}} {
		_, err := parseCommand(args)
		assert.Error(t, err, "args %v", args)
	}
}
