package domain

// Scenario is a scripted sequence of governance steps run against a space
type Scenario struct {
	Name  string         `yaml:"name"`
	Steps []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one command. Which fields matter depends on Do.
type ScenarioStep struct {
	Do       string   `yaml:"do"`
	From     string   `yaml:"from,omitempty"`
	Proposal *uint64  `yaml:"proposal,omitempty"`
	Target   string   `yaml:"target,omitempty"`
	Kind     string   `yaml:"kind,omitempty"`
	Option   string   `yaml:"option,omitempty"`
	TryEarly bool     `yaml:"try_early,omitempty"`
	Actions  []string `yaml:"actions,omitempty"`
	Metadata string   `yaml:"metadata,omitempty"`
	Duration string   `yaml:"duration,omitempty"`
	Blocks   uint64   `yaml:"blocks,omitempty"`

	// Settings replaces the voting settings through a proposal when set
	Settings map[string]string `yaml:"settings,omitempty"`

	// ExpectError makes the step pass only if it fails with a matching message
	ExpectError string `yaml:"expect_error,omitempty"`
}
