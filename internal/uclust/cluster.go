package uclust

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/faircloth-lab/meta/internal/seqio"
)

// Counts is the set of distinct reads in each cluster of one .uc file.
type Counts struct {
	// Name is the .uc file's name
	Name string

	reads map[int]map[string]struct{}
	max   int
}

// Count collects the distinct read ids of each cluster. Every clustered record
// is counted; a read appearing more than once in a cluster is counted once.
// Records without a cluster (no hits) are skipped.
func Count(name string, records []*Record) *Counts {
	c := &Counts{Name: name, reads: make(map[int]map[string]struct{}), max: -1}
	for _, r := range records {
		if !r.Clustered() {
			continue
		}

		n := r.ClusterNumber.Int
		set, ok := c.reads[n]
		if !ok {
			set = make(map[string]struct{})
			c.reads[n] = set
		}
		set[r.ReadID()] = struct{}{}

		if n > c.max {
			c.max = n
		}
	}
	return c
}

// Get is the number of distinct reads in cluster n.
func (c *Counts) Get(n int) int {
	return len(c.reads[n])
}

// Clusters are the cluster numbers present, ascending.
func (c *Counts) Clusters() []int {
	ns := make([]int, 0, len(c.reads))
	for n := range c.reads {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

// Max is the largest cluster number, or -1 if there are none.
func (c *Counts) Max() int {
	return c.max
}

// Table lines up the Counts of many .uc files into rows of equal width.
type Table struct {
	counts []*Counts
}

// Add appends c to the table.
func (t *Table) Add(c *Counts) {
	t.counts = append(t.counts, c)
}

// Width is one more than the largest cluster number of any file.
func (t *Table) Width() int {
	max := -1
	for _, c := range t.counts {
		if c.Max() > max {
			max = c.Max()
		}
	}
	return max + 1
}

// Rows renders one row per file, ordered by file name: the name then one cell per
// cluster number, empty where the file has no such cluster. If sorted, the counts
// are ordered largest first with the empty cells last.
func (t *Table) Rows(sorted bool) [][]string {
	counts := append([]*Counts(nil), t.counts...)
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Name < counts[j].Name })

	width := t.Width()
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		// -1 marks a cluster missing from this file
		slots := make([]int, width)
		for i := range slots {
			slots[i] = -1
		}
		for _, n := range c.Clusters() {
			if n >= 0 {
				slots[n] = c.Get(n)
			}
		}
		if sorted {
			sort.Sort(sort.Reverse(sort.IntSlice(slots)))
		}

		row := make([]string, 0, width+1)
		row = append(row, c.Name)
		for _, s := range slots {
			if s < 0 {
				row = append(row, "")
			} else {
				row = append(row, strconv.Itoa(s))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// IdentifierMismatchError is returned when a .uc file and the reads that were
// clustered to make it don't agree on read ids.
type IdentifierMismatchError struct {
	// Source is the .uc file or read set being cross-referenced
	Source string

	// ID is the read id without a partner
	ID string

	// MissingRead is true when a .uc label has no read, false when a read has no label
	MissingRead bool
}

func (e *IdentifierMismatchError) Error() string {
	if e.MissingRead {
		return fmt.Sprintf("%s: clustered read %s not found in the source reads", e.Source, e.ID)
	}
	return fmt.Sprintf("%s: read %s not found in the cluster assignments", e.Source, e.ID)
}

// Unclustered is the assignment of a read that UCLUST reported without a cluster.
const Unclustered = -1

// Assign maps each read id to its cluster number, or Unclustered. A later
// record for the same read overrides an earlier one.
func Assign(records []*Record) map[string]int {
	assigned := make(map[string]int, len(records))
	for _, r := range records {
		if !r.Clustered() {
			assigned[r.ReadID()] = Unclustered
			continue
		}
		assigned[r.ReadID()] = r.ClusterNumber.Int
	}
	return assigned
}

// Membership holds the reads of each cluster.
type Membership struct {
	order []int
	reads map[int][]*seqio.Read
}

// Clusters are the cluster numbers in the order their first read was seen.
func (m *Membership) Clusters() []int {
	return append([]int(nil), m.order...)
}

// Reads are the reads of cluster n, in source order.
func (m *Membership) Reads(n int) []*seqio.Read {
	return m.reads[n]
}

// Split sorts reads into their clusters. Every read must have an assignment and
// every assigned id must be among the reads, or an IdentifierMismatchError is
// returned. Unclustered reads are left out. source names the inputs in errors.
func Split(source string, assigned map[string]int, reads []*seqio.Read) (*Membership, error) {
	m := &Membership{reads: make(map[int][]*seqio.Read)}
	seen := make(map[string]bool, len(reads))

	for _, r := range reads {
		id := readID(r.ID)
		n, ok := assigned[id]
		if !ok {
			return nil, &IdentifierMismatchError{Source: source, ID: id}
		}
		seen[id] = true
		if n == Unclustered {
			continue
		}

		if _, ok := m.reads[n]; !ok {
			m.order = append(m.order, n)
		}
		m.reads[n] = append(m.reads[n], r)
	}

	// report the first missing read in a stable order
	var missing []string
	for id := range assigned {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &IdentifierMismatchError{Source: source, ID: missing[0], MissingRead: true}
	}

	return m, nil
}
