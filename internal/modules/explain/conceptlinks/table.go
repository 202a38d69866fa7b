package conceptlinks

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Table maps normalized concept names to verified documentation URLs.
// Reads are lock-free; every write publishes a fresh copy of the map.
type Table struct {
	writeMu sync.Mutex
	urls    atomic.Pointer[map[string]string]
}

func NewTable(seed map[string]string) *Table {
	t := &Table{}
	t.Replace(seed)
	return t
}

// Key normalizes a concept name for lookup.
func Key(concept string) string {
	return strings.ToLower(strings.TrimSpace(concept))
}

func (t *Table) Lookup(concept string) (string, bool) {
	m := t.urls.Load()
	if m == nil {
		return "", false
	}
	u, ok := (*m)[Key(concept)]
	return u, ok
}

// Upsert overwrites any existing mapping. Blank keys are ignored.
func (t *Table) Upsert(concept, url string) {
	key := Key(concept)
	if key == "" {
		return
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	cur := t.snapshotLocked()
	next := make(map[string]string, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[key] = strings.TrimSpace(url)
	t.urls.Store(&next)
}

// Replace swaps the whole table. Keys are normalized; blank keys dropped.
func (t *Table) Replace(urls map[string]string) {
	next := make(map[string]string, len(urls))
	for k, v := range urls {
		if key := Key(k); key != "" {
			next[key] = strings.TrimSpace(v)
		}
	}
	t.writeMu.Lock()
	t.urls.Store(&next)
	t.writeMu.Unlock()
}

// Concepts returns the sorted list of known keys.
func (t *Table) Concepts() []string {
	m := t.urls.Load()
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(*m))
	for k := range *m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of the current mapping.
func (t *Table) Snapshot() map[string]string {
	cur := t.urls.Load()
	if cur == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(*cur))
	for k, v := range *cur {
		out[k] = v
	}
	return out
}

func (t *Table) Len() int {
	if m := t.urls.Load(); m != nil {
		return len(*m)
	}
	return 0
}

func (t *Table) snapshotLocked() map[string]string {
	if m := t.urls.Load(); m != nil {
		return *m
	}
	return nil
}
