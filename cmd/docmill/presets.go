package main

import (
	"fmt"
	"strings"

	"github.com/docmill/docmill"
)

// presetOrder keeps listing output stable.
var presetOrder = []docmill.Framework{
	docmill.FrameworkDocusaurus,
	docmill.FrameworkMkDocs,
	docmill.FrameworkSphinx,
	docmill.FrameworkVuePress,
	docmill.FrameworkVitePress,
	docmill.FrameworkGitBook,
	docmill.FrameworkNextra,
}

// Run executes the presets command.
func (c *PresetsCmd) Run(deps *Dependencies) error {
	for _, f := range presetOrder {
		preset, ok := docmill.PresetFilter(f)
		if !ok {
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s\n", f)
		if len(preset.NonContentSelectors) > 0 {
			fmt.Fprintf(deps.Stdout, "  remove:   %s\n", strings.Join(preset.NonContentSelectors, ", "))
		}
		if len(preset.PreserveSelectors) > 0 {
			fmt.Fprintf(deps.Stdout, "  preserve: %s\n", strings.Join(preset.PreserveSelectors, ", "))
		}
		if len(preset.FuzzyKeywords) > 0 {
			fmt.Fprintf(deps.Stdout, "  fuzzy:    %s\n", strings.Join(preset.FuzzyKeywords, ", "))
		}
	}
	return nil
}
