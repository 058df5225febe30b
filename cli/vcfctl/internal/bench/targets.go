package bench

import (
	"fmt"
	"sort"
	"strings"

	"vcfkit/cli/vcfctl/internal/config"
)

// factory builds a target, returning nil when cfg does not configure it.
type factory func(cfg config.Bench) Target

var factories = map[string]factory{
	"sqlite": func(cfg config.Bench) Target {
		if strings.TrimSpace(cfg.SQLite.Path) == "" {
			return nil
		}
		return NewSQLite(cfg.SQLite.Path, cfg.SQLite.Statements)
	},
}

// TargetNames lists the built-in target names.
func TargetNames() []string {
	names := make([]string, 0, len(factories))
	for k := range factories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Targets resolves a comma list ("all" or "sqlite,...") to configured targets. With
// "all", unconfigured targets are left out; a named unconfigured target is an error.
func Targets(list string, cfg config.Bench) ([]Target, error) {
	list = strings.TrimSpace(list)
	all := list == "" || strings.EqualFold(list, "all")
	names := TargetNames()
	if !all {
		names = nil
		for _, n := range strings.Split(list, ",") {
			if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
				names = append(names, n)
			}
		}
	}
	var out []Target
	for _, n := range names {
		f, ok := factories[n]
		if !ok {
			return nil, fmt.Errorf("unknown benchmark target %q (known: %s)", n, strings.Join(TargetNames(), ", "))
		}
		t := f(cfg)
		if t == nil {
			if all {
				continue
			}
			return nil, fmt.Errorf("benchmark target %q is not configured", n)
		}
		out = append(out, t)
	}
	return out, nil
}
