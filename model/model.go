package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type ConfigFile struct {
	Confluence     *ConfluenceSettings `yaml:"confluence,omitempty"`
	Renderer       *RendererSettings   `yaml:"renderer,omitempty"`
	Substitutions  []Substitution      `yaml:"substitutions,omitempty"`
	TimeoutSeconds int                 `yaml:"timeoutSeconds,omitempty"`
}

type ConfluenceSettings struct {
	BaseURL  string `yaml:"baseURL"`
	SpaceKey string `yaml:"spaceKey,omitempty"`
	Username string `yaml:"username,omitempty"`
}

type RendererSettings struct {
	// Command, when set, is an external diff-to-HTML command invoked in
	// place of the built-in renderer. The placeholders {a}, {b} and {out}
	// are replaced with the two input paths and the output path.
	Command     []string `yaml:"command,omitempty"`
	ColorScheme string   `yaml:"colorScheme,omitempty"`
}

type Substitution struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// ComparisonRow is one parsed entry of a batch description file.
type ComparisonRow struct {
	SourceLocator1 string
	FetchID1       string
	SourceLocator2 string
	FetchID2       string
	OutputLocator  string
	PublishID      string

	// LineNumber is the 1-based line in the batch file, for diagnostics.
	LineNumber int
}

// RowOutcome is the aggregated result of running one comparison row. Row
// failures are recorded here, never raised as errors.
type RowOutcome struct {
	Rendered  bool
	Published bool
	Errors    []string
}

// BatchResult is the aggregate outcome of a batch run. A row counts as
// succeeded when a rendering was produced; a publish failure alone does not
// fail the row.
type BatchResult struct {
	TotalRows     int
	SucceededRows int
	FailedRows    int
}

func ReadConfigFile(path string) (ConfigFile, error) {

	config := ConfigFile{}

	content, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("unable to parse '%s': %w", path, err)
	}

	return config, nil
}
