package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsCmd_ListsEveryTool(t *testing.T) {
	resetRootFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"tools", "--no-color"})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	for _, name := range []string{
		"get_study",
		"get_association",
		"get_variant",
		"get_trait",
		"search_variants_in_region",
		"get_variants_from_efo_ids",
		"trait_variant_ranking",
		"get_study_associations",
		"get_trait_studies",
		"get_trait_associations",
		"get_region_trait_associations",
		"get_associations_from_variant",
	} {
		assert.Contains(t, out, name)
	}
}

func TestToolsCmd_RejectsArgs(t *testing.T) {
	err := toolsCmd.Args(toolsCmd, []string{"extra"})
	assert.Error(t, err)
}

func TestVersionCmd_IsRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "version" {
			found = true
			break
		}
	}
	assert.True(t, found, "version command should be registered on rootCmd")
	assert.Error(t, versionCmd.Args(versionCmd, []string{"extra"}))
}
