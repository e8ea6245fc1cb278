package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_no_args_prints_help_and_errors(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := NewMain()
	err := m.Run(context.Background(), nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "crawl")
}

func TestMain_help_command(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := NewMain()
	err := m.Run(context.Background(), []string{"help"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "docmill")
	assert.Contains(t, stdout.String(), "Crawl documentation sites")
}

func TestMain_unknown_command(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := NewMain()
	err := m.Run(context.Background(), []string{"frobnicate"}, &stdout, &stderr)
	require.Error(t, err)
}

func TestMain_crawl_requires_url(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := NewMain()
	err := m.Run(context.Background(), []string{"crawl"}, &stdout, &stderr)
	require.Error(t, err)
}

func TestMain_presets_lists_frameworks(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := NewMain()
	err := m.Run(context.Background(), []string{"presets"}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	for _, framework := range []string{"sphinx", "docusaurus", "mkdocs", "vuepress", "vitepress", "gitbook", "nextra"} {
		assert.True(t, strings.Contains(out, framework), "presets output should mention %s", framework)
	}
}

func TestMain_crawl_rejects_bad_flag_values(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := NewMain()
	err := m.Run(context.Background(),
		[]string{"crawl", "https://example.com/", "--mode", "sideways"}, &stdout, &stderr)
	require.Error(t, err)
}
