package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked.
type ConfigDiff struct {
	DomainsChanged  bool         // true if any domain prompt, glossary, or voice changed
	DomainChanges   []DomainDiff // per-domain diffs
	LogLevelChanged bool
	NewLogLevel     LogLevel
}

// DomainDiff describes what changed for a single domain between two configs.
type DomainDiff struct {
	Name                string
	SystemPromptChanged bool
	GlossaryChanged     bool
	VoiceChanged        bool
	Added               bool
	Removed             bool
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	// Log level
	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	// Build domain lookup maps keyed by name.
	oldDomains := make(map[string]*DomainConfig, len(old.Domains))
	for i := range old.Domains {
		oldDomains[old.Domains[i].Name] = &old.Domains[i]
	}
	newDomains := make(map[string]*DomainConfig, len(new.Domains))
	for i := range new.Domains {
		newDomains[new.Domains[i].Name] = &new.Domains[i]
	}

	// Detect modified and removed domains.
	for name, oldDom := range oldDomains {
		newDom, exists := newDomains[name]
		if !exists {
			d.DomainChanges = append(d.DomainChanges, DomainDiff{
				Name:    name,
				Removed: true,
			})
			d.DomainsChanged = true
			continue
		}
		dd := diffDomain(name, oldDom, newDom)
		if dd.SystemPromptChanged || dd.GlossaryChanged || dd.VoiceChanged {
			d.DomainChanges = append(d.DomainChanges, dd)
			d.DomainsChanged = true
		}
	}

	// Detect added domains.
	for name := range newDomains {
		if _, exists := oldDomains[name]; !exists {
			d.DomainChanges = append(d.DomainChanges, DomainDiff{
				Name:  name,
				Added: true,
			})
			d.DomainsChanged = true
		}
	}

	return d
}

// diffDomain compares two domain configs with the same name.
func diffDomain(name string, old, new *DomainConfig) DomainDiff {
	dd := DomainDiff{Name: name}

	if old.SystemPrompt != new.SystemPrompt {
		dd.SystemPromptChanged = true
	}
	if !equalGlossaries(old.Glossary, new.Glossary) {
		dd.GlossaryChanged = true
	}
	if old.Voice != new.Voice {
		dd.VoiceChanged = true
	}

	return dd
}

// equalGlossaries reports whether two glossaries contain the same terms in
// the same order.
func equalGlossaries(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
