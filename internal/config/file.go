package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout of the optional config file
type fileConfig struct {
	ProjectPath       string            `yaml:"project_path"`
	TestDir           string            `yaml:"test_dir"`
	ExternalCorpusDir string            `yaml:"external_corpus_dir"`
	ScratchDir        string            `yaml:"scratch_dir"`
	FileExtension     string            `yaml:"file_extension"`
	Engine            string            `yaml:"engine"`
	Reference         string            `yaml:"reference"`
	ReferenceDSN      string            `yaml:"reference_dsn"`
	StrictColumnTypes *bool             `yaml:"strict_column_types"`
	Processors        int               `yaml:"processors"`
	PathsToIgnore     []string          `yaml:"paths_to_ignore"`
	RequiredFixtures  map[string]string `yaml:"required_fixtures"`
	Prefixes          struct {
		Sqlite      string `yaml:"sqlite"`
		LargeCorpus string `yaml:"large_corpus"`
		Compat      string `yaml:"compat"`
	} `yaml:"prefixes"`
	Output struct {
		Dir  string `yaml:"dir"`
		File string `yaml:"file"`
	} `yaml:"output"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&c.ProjectPath, fc.ProjectPath)
	setString(&c.TestDir, fc.TestDir)
	setString(&c.ExternalCorpusDir, fc.ExternalCorpusDir)
	setString(&c.ScratchDir, fc.ScratchDir)
	setString(&c.FileExtension, fc.FileExtension)
	setString(&c.Engine, fc.Engine)
	setString(&c.Reference, fc.Reference)
	setString(&c.ReferenceDSN, fc.ReferenceDSN)
	setString(&c.SqlitePrefix, fc.Prefixes.Sqlite)
	setString(&c.LargeCorpusPrefix, fc.Prefixes.LargeCorpus)
	setString(&c.CompatFilePrefix, fc.Prefixes.Compat)
	setString(&c.OutputJSONDir, fc.Output.Dir)
	setString(&c.OutputJSONFile, fc.Output.File)

	if fc.StrictColumnTypes != nil {
		c.StrictColumnTypes = *fc.StrictColumnTypes
	}
	if fc.Processors > 0 {
		c.Processors = fc.Processors
	}
	if len(fc.PathsToIgnore) > 0 {
		c.PathsToIgnore = append([]string(nil), fc.PathsToIgnore...)
	}
	for prefix, required := range fc.RequiredFixtures {
		c.RequiredFixtures[prefix] = required
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
