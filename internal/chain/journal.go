package chain

// Journal records an undo closure for every state write made during a
// transaction. Reverting to a snapshot replays the closures in reverse.
type Journal struct {
	entries []func()
}

// NewJournal creates an empty journal
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends an undo closure
func (j *Journal) Record(undo func()) {
	j.entries = append(j.entries, undo)
}

// Snapshot returns an identifier for the current journal position
func (j *Journal) Snapshot() int {
	return len(j.entries)
}

// RevertToSnapshot undoes every write recorded after the snapshot was taken
func (j *Journal) RevertToSnapshot(id int) {
	for i := len(j.entries) - 1; i >= id; i-- {
		j.entries[i]()
	}
	j.entries = j.entries[:id]
}

// Reset forgets all entries, committing the writes they guarded
func (j *Journal) Reset() {
	j.entries = j.entries[:0]
}

// Len returns the number of recorded writes
func (j *Journal) Len() int {
	return len(j.entries)
}

// Set assigns v to *ptr and records the previous value
func Set[T any](j *Journal, ptr *T, v T) {
	old := *ptr
	j.Record(func() { *ptr = old })
	*ptr = v
}

// MapSet assigns m[k] = v and records the previous entry, if any
func MapSet[K comparable, V any](j *Journal, m map[K]V, k K, v V) {
	old, existed := m[k]
	j.Record(func() {
		if existed {
			m[k] = old
		} else {
			delete(m, k)
		}
	})
	m[k] = v
}

// MapDelete removes m[k] and records the previous entry
func MapDelete[K comparable, V any](j *Journal, m map[K]V, k K) {
	old, existed := m[k]
	if !existed {
		return
	}
	j.Record(func() { m[k] = old })
	delete(m, k)
}

// Append appends v to *s and records the previous length
func Append[T any](j *Journal, s *[]T, v T) {
	n := len(*s)
	j.Record(func() { *s = (*s)[:n] })
	*s = append(*s, v)
}
