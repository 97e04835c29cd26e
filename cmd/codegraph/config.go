package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/codegraph/orchestrator"
)

// fileConfig is the on-disk shape for --config, letting a build be
// driven by a checked-in file instead of a long flag list.
type fileConfig struct {
	Source              string   `yaml:"source"`
	Output              string   `yaml:"output"`
	ExtensionsToSkip    []string `yaml:"extensionsToSkip"`
	NamesToSkip         []string `yaml:"namesToSkip"`
	MaxFileSizeMiB      float64  `yaml:"maxFileSizeMiB"`
	UseGitignore        bool     `yaml:"useGitignore"`
	AuxiliaryIgnorePath string   `yaml:"auxiliaryIgnorePath"`
	HierarchyOnly       bool     `yaml:"hierarchyOnly"`
	EnvironmentTag      string   `yaml:"environmentTag"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc := &fileConfig{UseGitignore: true, MaxFileSizeMiB: 0.8}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, err
	}
	return fc, nil
}

func (fc *fileConfig) toOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		RootPath:            fc.Source,
		ExtensionsToSkip:    fc.ExtensionsToSkip,
		NamesToSkip:         fc.NamesToSkip,
		MaxFileSizeMiB:      fc.MaxFileSizeMiB,
		UseGitignore:        fc.UseGitignore,
		AuxiliaryIgnorePath: fc.AuxiliaryIgnorePath,
		HierarchyOnly:       fc.HierarchyOnly,
		EnvironmentTag:      fc.EnvironmentTag,
	}
}
