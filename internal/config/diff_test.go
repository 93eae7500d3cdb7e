package config_test

import (
	"testing"

	"github.com/vaani-ai/vaani/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{LogLevel: config.LogInfo},
		Domains: []config.DomainConfig{
			{
				Name:         "hr_admin",
				SystemPrompt: "You are an HR assistant.",
				Glossary:     []string{"UAN", "PF"},
				Voice:        config.VoiceConfig{Speaker: "manisha", LanguageCode: "hi-IN"},
			},
			{
				Name:         "grievance",
				SystemPrompt: "You help workers file grievances.",
				Voice:        config.VoiceConfig{Speaker: "manisha", LanguageCode: "hi-IN"},
			},
		},
	}
}

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()

	d := config.Diff(old, new)
	if d.DomainsChanged {
		t.Error("DomainsChanged should be false for identical configs")
	}
	if d.LogLevelChanged {
		t.Error("LogLevelChanged should be false for identical configs")
	}
}

func TestDiff_LogLevelChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Server.LogLevel = config.LogDebug

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Fatal("LogLevelChanged should be true")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("NewLogLevel: got %q, want debug", d.NewLogLevel)
	}
}

func TestDiff_SystemPromptChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domains[0].SystemPrompt = "You are a very formal HR assistant."

	d := config.Diff(old, new)
	if !d.DomainsChanged {
		t.Fatal("DomainsChanged should be true")
	}
	found := false
	for _, dd := range d.DomainChanges {
		if dd.Name == "hr_admin" && dd.SystemPromptChanged {
			found = true
		}
	}
	if !found {
		t.Errorf("expected hr_admin SystemPromptChanged, got %+v", d.DomainChanges)
	}
}

func TestDiff_GlossaryChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domains[0].Glossary = append(new.Domains[0].Glossary, "ESIC")

	d := config.Diff(old, new)
	if !d.DomainsChanged {
		t.Fatal("DomainsChanged should be true")
	}
	found := false
	for _, dd := range d.DomainChanges {
		if dd.Name == "hr_admin" && dd.GlossaryChanged {
			found = true
		}
	}
	if !found {
		t.Errorf("expected hr_admin GlossaryChanged, got %+v", d.DomainChanges)
	}
}

func TestDiff_VoiceChanged(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domains[1].Voice.Speaker = "arvind"

	d := config.Diff(old, new)
	found := false
	for _, dd := range d.DomainChanges {
		if dd.Name == "grievance" && dd.VoiceChanged {
			found = true
		}
	}
	if !found {
		t.Errorf("expected grievance VoiceChanged, got %+v", d.DomainChanges)
	}
}

func TestDiff_DomainAddedAndRemoved(t *testing.T) {
	t.Parallel()
	old := baseConfig()
	new := baseConfig()
	new.Domains = new.Domains[:1] // remove grievance
	new.Domains = append(new.Domains, config.DomainConfig{
		Name:         "helpdesk",
		SystemPrompt: "You are a helpdesk assistant.",
	})

	d := config.Diff(old, new)
	if !d.DomainsChanged {
		t.Fatal("DomainsChanged should be true")
	}

	var added, removed bool
	for _, dd := range d.DomainChanges {
		if dd.Name == "helpdesk" && dd.Added {
			added = true
		}
		if dd.Name == "grievance" && dd.Removed {
			removed = true
		}
	}
	if !added {
		t.Error("expected helpdesk to be reported as added")
	}
	if !removed {
		t.Error("expected grievance to be reported as removed")
	}
}
