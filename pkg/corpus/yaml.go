package corpus

// yamlTranslation is the intermediate struct for parsing a translation case.
type yamlTranslation struct {
	ID        string `yaml:"id"`
	Dialect   string `yaml:"dialect"`
	Pattern   string `yaml:"pattern"`
	BOM       bool   `yaml:"bom,omitempty"`
	Multiline bool   `yaml:"multiline,omitempty"`
	Expected  string `yaml:"expected"`
}

// yamlStep is one expected Exec result. A null step expects no match.
type yamlStep struct {
	Index     int       `yaml:"index"`
	Groups    []*string `yaml:"groups"`
	LastIndex *float64  `yaml:"last_index,omitempty"`
}

// yamlExecution is the intermediate struct for parsing an execution case.
type yamlExecution struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description,omitempty"`
	Pattern     string      `yaml:"pattern"`
	Flags       string      `yaml:"flags,omitempty"`
	Literal     bool        `yaml:"literal,omitempty"`
	Input       string      `yaml:"input"`
	LastIndex   float64     `yaml:"last_index,omitempty"`
	Requires    []string    `yaml:"requires,omitempty"`
	Error       string      `yaml:"error,omitempty"`
	Steps       []*yamlStep `yaml:"steps,omitempty"`
}

// yamlCasesFile represents the top-level structure of a cases YAML file.
type yamlCasesFile struct {
	Translations []yamlTranslation `yaml:"translations,omitempty"`
	Executions   []yamlExecution   `yaml:"executions,omitempty"`
}
