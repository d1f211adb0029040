package best

import (
	"fmt"
	"strconv"

	"github.com/faircloth-lab/meta/internal/psl"
	"gopkg.in/ini.v1"
)

// Tally counts winning records by target species.
type Tally struct {
	keys   []string
	counts map[string]int
}

// Count tallies records by the first delim separated component of their target name.
func Count(records []*psl.Record, delim string) *Tally {
	t := &Tally{counts: make(map[string]int)}
	for _, r := range records {
		t.Add(r.Species(delim))
	}
	return t
}

// Add counts one more occurrence of key.
func (t *Tally) Add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.keys = append(t.keys, key)
	}
	t.counts[key]++
}

// Get is the count for key (0 if never seen).
func (t *Tally) Get(key string) int {
	return t.counts[key]
}

// Keys are the observed keys in first-seen order.
func (t *Tally) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Total is the sum of all counts.
func (t *Tally) Total() (n int) {
	for _, c := range t.counts {
		n += c
	}
	return
}

// Row renders the tally as report cells. With an expected key order, there is
// one cell per expected key (empty if that key wasn't observed) and keys outside
// the template are left out. Without one, each observed key is a "key:count" cell.
func (t *Tally) Row(expected []string) []string {
	if expected == nil {
		cells := make([]string, 0, len(t.keys))
		for _, k := range t.keys {
			cells = append(cells, fmt.Sprintf("%s:%d", k, t.counts[k]))
		}
		return cells
	}

	cells := make([]string, len(expected))
	for i, k := range expected {
		if c, ok := t.counts[k]; ok {
			cells[i] = strconv.Itoa(c)
		}
	}
	return cells
}

// ReadTemplate reads the expected key order from section of an INI file. The
// keys are the section's values in file order; the option names are ignored.
func ReadTemplate(path, section string) ([]string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}

	if !cfg.HasSection(section) {
		return nil, fmt.Errorf("failed to find section [%s] in %s", section, path)
	}

	keys := []string{}
	for _, k := range cfg.Section(section).Keys() {
		keys = append(keys, k.Value())
	}
	return keys, nil
}
