package storage

// Cache remembers the identifiers selected per working directory.
type Cache interface {
	// Lookup returns the most recent identifier stored for dir
	Lookup(dir string) (string, bool, error)
	// Store records id as the latest selection for dir
	Store(dir, id string) error
	// History returns every identifier remembered for dir, oldest first
	History(dir string) ([]string, error)
	// Clear forgets dir
	Clear(dir string) error
	// ClearAll forgets every directory
	ClearAll() error
	// Snapshot returns a copy of the whole cache
	Snapshot() (Document, error)
}

// DefaultHistoryLimit caps how many identifiers are kept per directory
const DefaultHistoryLimit = 50

// Document is the persisted cache layout.
// LastTest is the legacy single-value form; it is only read and is folded
// into TestHistory on load.
type Document struct {
	TestHistory map[string][]string `json:"test_history" yaml:"test_history"`
	LastTest    map[string]string   `json:"last_test,omitempty" yaml:"-"`
}

func newDocument() Document {
	return Document{TestHistory: map[string][]string{}}
}

// migrate folds legacy entries into the history
func (d *Document) migrate() bool {
	if d.TestHistory == nil {
		d.TestHistory = map[string][]string{}
	}
	if len(d.LastTest) == 0 {
		d.LastTest = nil
		return false
	}
	for dir, id := range d.LastTest {
		if len(d.TestHistory[dir]) == 0 {
			d.TestHistory[dir] = []string{id}
		}
	}
	d.LastTest = nil
	return true
}

func (d Document) clone() Document {
	out := newDocument()
	for dir, ids := range d.TestHistory {
		out.TestHistory[dir] = append([]string(nil), ids...)
	}
	return out
}

// appendHistory moves id to the end of history, dropping the oldest
// entries beyond limit
func appendHistory(history []string, id string, limit int) []string {
	out := make([]string, 0, len(history)+1)
	for _, h := range history {
		if h != id {
			out = append(out, h)
		}
	}
	out = append(out, id)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
