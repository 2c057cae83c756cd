package pathway

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Mode selects which pathways survive filtering.
type Mode string

const (
	// ModeCurated keeps only the catalog's curated pathways.
	ModeCurated Mode = "curated"
	// ModeAll keeps everything but the top-level categories, then drops
	// pathways contained in another retained pathway.
	ModeAll Mode = "all"
)

// ParseMode accepts "curated" or "all", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCurated, "":
		return ModeCurated, nil
	case ModeAll:
		return ModeAll, nil
	default:
		return "", fmt.Errorf("unknown pathway mode %q", s)
	}
}

// Expander resolves an identifier into itself plus its aggregate members.
type Expander interface {
	Expansion(id string) []string
}

// Filter turns raw pathway files into a Set.
type Filter struct {
	mode     Mode
	catalog  Catalog
	expander Expander
	logger   *slog.Logger
}

// NewFilter returns a Filter. A nil logger discards output.
func NewFilter(mode Mode, catalog Catalog, expander Expander, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Filter{mode: mode, catalog: catalog, expander: expander, logger: logger}
}

// LoadDir reads the pathway directory and applies the filter.
func (f *Filter) LoadDir(dir string) (*Set, error) {
	raw, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	return f.Apply(raw), nil
}

// Apply expands the raw pathway members and prunes pathways per the mode.
func (f *Filter) Apply(raw map[string][]string) *Set {
	pathways := make(map[string]members, len(raw))
	switch f.mode {
	case ModeAll:
		for name, ids := range raw {
			pathways[name] = f.expand(ids)
		}
	default:
		curated := toSet(f.catalog.Curated)
		for name, ids := range raw {
			if curated.has(name) {
				pathways[name] = f.expand(ids)
			}
		}
		for _, name := range f.catalog.Curated {
			if _, ok := raw[name]; !ok {
				f.logger.Warn("curated pathway missing", "pathway", name)
			}
		}
	}
	f.logger.Info("pathways loaded", "mode", string(f.mode), "files", len(raw), "pathways", len(pathways))

	if f.mode == ModeAll {
		for _, name := range f.catalog.TopLevel {
			delete(pathways, name)
		}
		f.logger.Info("top-level pathways removed", "pathways", len(pathways))

		redundant := Redundant(pathways)
		for _, name := range redundant {
			delete(pathways, name)
		}
		f.logger.Info("redundant pathways removed", "removed", len(redundant), "pathways", len(pathways))
	}

	set := newSet(pathways)
	f.logger.Info("pathways retained", "pathways", set.Len(), "nodes", set.NumNodes())
	for _, name := range set.Names() {
		f.logger.Debug("retained pathway", "pathway", name, "nodes", set.Size(name))
	}
	return set
}

func (f *Filter) expand(ids []string) members {
	out := make(members, len(ids))
	for _, id := range ids {
		if f.expander == nil {
			out[id] = struct{}{}
			continue
		}
		for _, m := range f.expander.Expansion(id) {
			out[m] = struct{}{}
		}
	}
	return out
}

// Redundant returns, in name order, the pathways contained in another
// pathway. Among pathways with equal member sets only the one with the
// smallest name is kept.
func Redundant[M ~map[string]struct{}](pathways map[string]M) []string {
	names := make([]string, 0, len(pathways))
	for name := range pathways {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, a := range names {
		pa := members(pathways[a])
		for _, b := range names {
			if a == b {
				continue
			}
			pb := members(pathways[b])
			if !pa.subsetOf(pb) {
				continue
			}
			if len(pa) < len(pb) || b < a {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func toSet(ids []string) members {
	out := make(members, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
