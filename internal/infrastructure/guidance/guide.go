package guidance

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed states.yaml
var statesYAML []byte

type stateEntry struct {
	Name         string   `yaml:"name"`
	Abbreviation string   `yaml:"abbreviation"`
	Guidance     string   `yaml:"guidance"`
	Aliases      []string `yaml:"aliases,omitempty"`
}

type statesFile struct {
	Default string       `yaml:"default"`
	States  []stateEntry `yaml:"states"`
}

// Guide resolves a user's jurisdiction string (full state name or USPS
// abbreviation, any casing) to the guidance text fed into the prompt.
type Guide struct {
	byKey        map[string]string
	defaultText  string
	knownEntries int
}

func Load() (*Guide, error) {
	var file statesFile
	if err := yaml.Unmarshal(statesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse states guidance: %w", err)
	}
	if len(file.States) == 0 {
		return nil, fmt.Errorf("states guidance table is empty")
	}

	g := &Guide{
		byKey:        make(map[string]string, len(file.States)*2),
		defaultText:  file.Default,
		knownEntries: len(file.States),
	}
	for _, entry := range file.States {
		g.byKey[normalize(entry.Name)] = entry.Guidance
		g.byKey[normalize(entry.Abbreviation)] = entry.Guidance
		for _, alias := range entry.Aliases {
			g.byKey[normalize(alias)] = entry.Guidance
		}
	}
	return g, nil
}

// GuidanceFor reports the state-specific text and whether the state was
// recognized. Unrecognized jurisdictions get the neutral default.
func (g *Guide) GuidanceFor(state string) (string, bool) {
	if text, ok := g.byKey[normalize(state)]; ok {
		return text, true
	}
	return g.defaultText, false
}

func (g *Guide) Known() int {
	return g.knownEntries
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ".")
	return strings.Join(strings.Fields(s), " ")
}
