package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/config"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd(config.Config{DatabaseURL: "postgres://x"}, zerolog.Nop())

	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "create-admin")
}

func TestCreateAdmin_RequiresFlags(t *testing.T) {
	root := newRootCmd(config.Config{DatabaseURL: "postgres://x"}, zerolog.Nop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"create-admin", "--email", "a@b.com"})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "password" not set`)
}
