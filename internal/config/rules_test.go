package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detection-rules.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRulesMissingFile(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(rules.Rules) != 0 {
		t.Errorf("expected empty rule set, got %d rules", len(rules.Rules))
	}
}

func TestLoadRulesEmptyPath(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("empty path should not be an error: %v", err)
	}
	if len(rules.Rules) != 0 {
		t.Errorf("expected empty rule set, got %d rules", len(rules.Rules))
	}
}

func TestLoadRulesMalformed(t *testing.T) {
	path := writeRulesFile(t, `{not json`)
	if _, err := LoadRules(path); err == nil {
		t.Error("malformed rules file should be an error")
	}
}

func TestRulesTargets(t *testing.T) {
	t.Run("no rules keeps defaults", func(t *testing.T) {
		targets := (&DetectionRules{}).Targets()
		if len(targets) != 2 {
			t.Fatalf("targets = %d, want 2", len(targets))
		}
	})

	t.Run("override patterns", func(t *testing.T) {
		rules := &DetectionRules{Rules: []DetectionRule{
			{Target: "Corporate Clash", Patterns: []string{"myclash"}, Enabled: true},
		}}
		for _, tgt := range rules.Targets() {
			if tgt.Name == "Corporate Clash" {
				if len(tgt.Patterns) != 1 || tgt.Patterns[0] != "myclash" {
					t.Errorf("patterns = %v, want [myclash]", tgt.Patterns)
				}
				return
			}
		}
		t.Fatal("Corporate Clash missing after override")
	})

	t.Run("disabled rule removes target", func(t *testing.T) {
		rules := &DetectionRules{Rules: []DetectionRule{
			{Target: "Toontown Rewritten", Enabled: false},
		}}
		for _, tgt := range rules.Targets() {
			if tgt.Name == "Toontown Rewritten" {
				t.Fatal("disabled target still present")
			}
		}
	})

	t.Run("new target appended", func(t *testing.T) {
		rules := &DetectionRules{Rules: []DetectionRule{
			{Target: "My Game", Patterns: []string{"mygame"}, Enabled: true},
		}}
		targets := rules.Targets()
		if len(targets) != 3 {
			t.Fatalf("targets = %d, want 3", len(targets))
		}
		if targets[2].Name != "My Game" {
			t.Errorf("appended target = %q", targets[2].Name)
		}
	})

	t.Run("enabled rule without patterns is ignored", func(t *testing.T) {
		rules := &DetectionRules{Rules: []DetectionRule{
			{Target: "Corporate Clash", Enabled: true},
		}}
		for _, tgt := range rules.Targets() {
			if tgt.Name == "Corporate Clash" && len(tgt.Patterns) == 0 {
				t.Error("pattern-less rule wiped the default patterns")
			}
		}
	})
}

func TestLoadRulesRoundTrip(t *testing.T) {
	path := writeRulesFile(t, `{
  "rules": [
    {"target": "Corporate Clash", "patterns": ["clash_custom"], "enabled": true},
    {"target": "Toontown Rewritten", "enabled": false}
  ]
}`)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}

	targets := rules.Targets()
	if len(targets) != 1 {
		t.Fatalf("targets = %d, want 1", len(targets))
	}
	if targets[0].Name != "Corporate Clash" || targets[0].Patterns[0] != "clash_custom" {
		t.Errorf("unexpected merged target: %+v", targets[0])
	}
}
