package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/SpeedsterCollective/Tweeks/pkg/target"
)

// DetectionRule overrides or adds the pattern set for one target.
type DetectionRule struct {
	Target   string   `json:"target"`   // Target display name
	Patterns []string `json:"patterns"` // Ordered match patterns
	Enabled  bool     `json:"enabled"`  // Rule active
}

// DetectionRules is the on-disk rules file.
type DetectionRules struct {
	Rules []DetectionRule `json:"rules"`
}

// LoadRules reads the detection-rules file. A missing file is not an error:
// it returns an empty rule set so the built-in targets apply unchanged.
func LoadRules(path string) (*DetectionRules, error) {
	if path == "" {
		return &DetectionRules{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &DetectionRules{}, nil
		}
		return nil, errors.Wrap(err, "failed to read detection rules")
	}

	var rules DetectionRules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, errors.Wrap(err, "failed to parse detection rules")
	}

	return &rules, nil
}

// Targets merges the rules over the built-in targets. A rule naming an
// existing target replaces its pattern list; a rule with a new name appends
// a target; a disabled rule removes the target entirely.
func (r *DetectionRules) Targets() []target.Target {
	targets := target.Defaults()

	for _, rule := range r.Rules {
		if rule.Target == "" {
			continue
		}

		idx := -1
		for i, t := range targets {
			if t.Name == rule.Target {
				idx = i
				break
			}
		}

		if !rule.Enabled {
			if idx >= 0 {
				targets = append(targets[:idx], targets[idx+1:]...)
			}
			continue
		}

		if len(rule.Patterns) == 0 {
			continue
		}

		if idx >= 0 {
			targets[idx].Patterns = append([]string(nil), rule.Patterns...)
		} else {
			targets = append(targets, target.Target{
				Name:     rule.Target,
				Patterns: append([]string(nil), rule.Patterns...),
			})
		}
	}

	return targets
}
