package dashbin

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCapacity is the record bound Store.Add enforces.
const DefaultCapacity = 5000

// Record is one shelved command.
type Record struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Pinned    bool      `json:"pinned"`
}

// Saver persists whole-collection snapshots. Implementations own atomicity
// and retries; the store treats saves as fire-and-forget and only logs
// failures, so persistence trouble never blocks interactive use.
type Saver interface {
	Save(records []Record, groups []Group) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(records []Record, groups []Group) error

// Save calls f.
func (f SaverFunc) Save(records []Record, groups []Group) error {
	return f(records, groups)
}

// Store is the command shelf: an ordered, deduplicated, capacity-bounded
// record list plus named groups. All access goes through one mutex so
// mutations are serialized, and read methods return copies so UI iteration
// observes a consistent snapshot while a mutation is pending.
type Store struct {
	mu       sync.RWMutex
	records  []Record // most recent first
	groups   []Group
	capacity int
	saver    Saver
	logger   *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCapacity overrides the record bound.
func WithCapacity(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithSaver registers the persistence collaborator notified after every
// mutation.
func WithSaver(sv Saver) StoreOption {
	return func(s *Store) { s.saver = sv }
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates an empty shelf with the default capacity.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		capacity: DefaultCapacity,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// --- Record Methods ---

// Add shelves a command at the front. Input is trimmed; empty input is a
// no-op. A record whose trimmed text already exists is moved to the front
// with a fresh timestamp instead of duplicated, keeping its id and pinned
// flag. Past capacity the oldest non-pinned record is evicted.
func (s *Store) Add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.mu.Lock()
	rec := Record{ID: uuid.NewString(), Text: text, CreatedAt: time.Now()}
	for i, r := range s.records {
		if r.Text == text {
			rec.ID = r.ID
			rec.Pinned = r.Pinned
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.records = append([]Record{rec}, s.records...)
	s.evictInternal()
	s.mu.Unlock()
	s.persist()
}

// Edit replaces a record's text. The trimmed replacement must be non-empty.
func (s *Store) Edit(id, newText string) bool {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return false
	}
	s.mu.Lock()
	ok := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Text = newText
			ok = true
			break
		}
	}
	s.mu.Unlock()
	if ok {
		s.persist()
	}
	return ok
}

// Delete removes a record by id.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	ok := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			ok = true
			break
		}
	}
	s.mu.Unlock()
	if ok {
		s.persist()
	}
	return ok
}

// TogglePin flips a record's pinned flag. Pinned records are never evicted
// by the capacity bound.
func (s *Store) TogglePin(id string) bool {
	s.mu.Lock()
	ok := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Pinned = !s.records[i].Pinned
			ok = true
			break
		}
	}
	s.mu.Unlock()
	if ok {
		s.persist()
	}
	return ok
}

// List returns records matching query. An empty query returns every record
// in current order, most recent first. A non-empty query returns only
// records the fuzzy scorer matches, in descending score order; the sort is
// stable, so ties keep their recency order.
func (s *Store) List(query string) []Record {
	s.mu.RLock()
	if strings.TrimSpace(query) == "" {
		out := make([]Record, len(s.records))
		copy(out, s.records)
		s.mu.RUnlock()
		return out
	}

	type scored struct {
		rec   Record
		score float64
	}
	matches := make([]scored, 0, len(s.records))
	for _, r := range s.records {
		if sc, ok := Score(r.Text, query); ok {
			matches = append(matches, scored{rec: r, score: sc})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	out := make([]Record, len(matches))
	for i, m := range matches {
		out[i] = m.rec
	}
	return out
}

// Suggest returns the text of the most recent record whose text starts with
// query, for ghost-text completion.
func (s *Store) Suggest(query string) (string, bool) {
	return Suggest(query, s.Texts())
}

// Texts returns every record text in current (recency) order.
func (s *Store) Texts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Text
	}
	return out
}

// Len returns the number of shelved records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns copies of the record and group collections for the
// persistence collaborator.
func (s *Store) Snapshot() ([]Record, []Group) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotInternal()
}

func (s *Store) snapshotInternal() ([]Record, []Group) {
	records := make([]Record, len(s.records))
	copy(records, s.records)
	groups := make([]Group, len(s.groups))
	for i, g := range s.groups {
		members := make([]Record, len(g.Records))
		copy(members, g.Records)
		groups[i] = Group{ID: g.ID, Name: g.Name, Records: members}
	}
	return records, groups
}

// Restore replaces the store contents from a loaded snapshot. The capacity
// bound is re-applied, still honoring pins.
func (s *Store) Restore(records []Record, groups []Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]Record, len(records))
	copy(s.records, records)
	s.groups = make([]Group, len(groups))
	for i, g := range groups {
		members := make([]Record, len(g.Records))
		copy(members, g.Records)
		s.groups[i] = Group{ID: g.ID, Name: g.Name, Records: members}
	}
	s.evictInternal()
}

// evictInternal drops the oldest non-pinned records until the store fits its
// capacity. The front record is never the victim: evicting what was just
// added would make the bound a write barrier. When everything else is pinned
// the store stays over capacity until an unpin; that is the documented
// policy, not a leak.
func (s *Store) evictInternal() {
	for len(s.records) > s.capacity {
		victim := -1
		for i := len(s.records) - 1; i >= 1; i-- {
			if !s.records[i].Pinned {
				victim = i
				break
			}
		}
		if victim < 0 {
			return
		}
		s.records = append(s.records[:victim], s.records[victim+1:]...)
	}
}

// persist pushes a snapshot to the saver. Failures are logged and swallowed;
// a missed save never surfaces to the user.
func (s *Store) persist() {
	if s.saver == nil {
		return
	}
	records, groups := s.Snapshot()
	if err := s.saver.Save(records, groups); err != nil {
		s.logger.Warn("shelf save failed", zap.Error(err))
	}
}
