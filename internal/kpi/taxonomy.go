// Package kpi defines the canonical KPI taxonomy and the keyword
// classifier that maps raw section/label text onto it.
package kpi

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// KPI is one canonical executive KPI with the keyword phrases that map
// free-text findings onto it.
type KPI struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is the immutable, ordered set of canonical KPIs. The slice
// order is both the classification evaluation order (first match wins)
// and the display order of the summary table.
type Taxonomy struct {
	kpis  []KPI
	index map[string]int
}

// New builds a validated Taxonomy. Names must be unique and non-empty,
// and every KPI needs at least one keyword.
func New(kpis []KPI) (*Taxonomy, error) {
	if len(kpis) == 0 {
		return nil, eris.New("kpi: taxonomy is empty")
	}

	index := make(map[string]int, len(kpis))
	normalized := make([]KPI, len(kpis))
	for i, k := range kpis {
		name := strings.TrimSpace(k.Name)
		if name == "" {
			return nil, eris.Errorf("kpi: entry %d has an empty name", i)
		}
		if _, dup := index[name]; dup {
			return nil, eris.Errorf("kpi: duplicate name %q", name)
		}
		if len(k.Keywords) == 0 {
			return nil, eris.Errorf("kpi: %q has no keywords", name)
		}

		kws := make([]string, 0, len(k.Keywords))
		for _, kw := range k.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, eris.Errorf("kpi: %q has an empty keyword", name)
			}
			kws = append(kws, kw)
		}

		index[name] = i
		normalized[i] = KPI{Name: name, Keywords: kws}
	}

	return &Taxonomy{kpis: normalized, index: index}, nil
}

// Load reads a taxonomy override from a YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "kpi: read taxonomy %s", path)
	}

	var doc struct {
		KPIs []KPI `yaml:"kpis"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "kpi: parse taxonomy %s", path)
	}

	return New(doc.KPIs)
}

// Len returns the number of canonical KPIs (13 for the default taxonomy).
func (t *Taxonomy) Len() int {
	return len(t.kpis)
}

// Names returns the canonical KPI names in display order.
func (t *Taxonomy) Names() []string {
	names := make([]string, len(t.kpis))
	for i, k := range t.kpis {
		names[i] = k.Name
	}
	return names
}

// Index returns the display-order position of a canonical name, or -1.
func (t *Taxonomy) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Classify maps a (section, label) text pair onto a canonical KPI.
// The two strings are concatenated and lowercased, and each KPI's
// keywords are tested as substrings in taxonomy order; the first KPI
// with any match wins. Returns ok=false when nothing matches, in which
// case the record is excluded from the summary.
func (t *Taxonomy) Classify(section, label string) (string, bool) {
	combo := strings.ToLower(section + " " + label)
	for _, k := range t.kpis {
		for _, kw := range k.Keywords {
			if strings.Contains(combo, kw) {
				return k.Name, true
			}
		}
	}
	return "", false
}
