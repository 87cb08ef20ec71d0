package config

import (
	"sort"
)

// WidgetChanges lists widgets that differ between two configs by name.
type WidgetChanges struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether nothing changed.
func (c WidgetChanges) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// DiffWidgets compares the widget lists of two configs. Either may be nil.
func DiffWidgets(oldCfg, newCfg *Config) WidgetChanges {
	index := func(cfg *Config) map[string]WidgetConfig {
		m := map[string]WidgetConfig{}
		if cfg == nil {
			return m
		}
		for _, w := range cfg.Widgets {
			m[w.Name] = w
		}
		return m
	}
	before, after := index(oldCfg), index(newCfg)

	var out WidgetChanges
	for name, w := range after {
		prev, ok := before[name]
		switch {
		case !ok:
			out.Added = append(out.Added, name)
		case !sameWidget(prev, w):
			out.Changed = append(out.Changed, name)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			out.Removed = append(out.Removed, name)
		}
	}

	sort.Strings(out.Added)
	sort.Strings(out.Removed)
	sort.Strings(out.Changed)
	return out
}

func sameWidget(a, b WidgetConfig) bool {
	clampA := a.ClampToZero == nil || *a.ClampToZero
	clampB := b.ClampToZero == nil || *b.ClampToZero
	a.ClampToZero, b.ClampToZero = nil, nil
	return a == b && clampA == clampB
}
