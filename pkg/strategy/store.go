package strategy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
)

// Store holds the live strategy pair. Reads are lock-free snapshot
// loads; writes are serialized by a mutex and publish a fresh snapshot
// with a single pointer swap, so an in-flight operation always sees one
// consistent pair.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	persist Persister
}

// Persister externalizes snapshots so an operator-tuned strategy
// survives restart. Save errors are reported to the caller of the
// mutating operation; the in-memory swap has already happened.
type Persister interface {
	Save(snap Snapshot) error
	Load() (Snapshot, bool, error)
}

// Option configures a Store.
type Option func(*Store)

// WithPersister attaches snapshot persistence.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// NewStore creates a store initialized from the named preset. If a
// persister is attached and holds a saved snapshot, the saved snapshot
// wins over the preset.
func NewStore(preset string, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := Preset(preset)
	if err != nil {
		return nil, fmt.Errorf("load preset %q: %w", preset, err)
	}
	if s.persist != nil {
		saved, ok, err := s.persist.Load()
		if err != nil {
			return nil, fmt.Errorf("load persisted strategy: %w", err)
		}
		if ok {
			snap = saved
		}
	}
	s.current.Store(&snap)
	return s, nil
}

// Get returns the current snapshot. The returned value is a copy; the
// caller can hold it for the duration of an operation without seeing
// later updates.
func (s *Store) Get() Snapshot {
	return *s.current.Load()
}

// LoadPreset replaces the live pair with the named preset.
func (s *Store) LoadPreset(name string) (Snapshot, error) {
	snap, err := Preset(name)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(snap)
}

// Update applies a partial, key-wise deep merge onto one of the two
// trees. Keys absent from the partial keep their current values; any
// key not present in the tree fails the whole update and leaves the
// snapshot untouched. A successful update marks the pair custom.
func (s *Store) Update(kind Kind, partial map[string]any) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := *s.current.Load()
	next := cur
	switch kind {
	case KindExtraction:
		merged, err := mergeTree(cur.Extraction, partial)
		if err != nil {
			return Snapshot{}, err
		}
		if err := json.Unmarshal(merged, &next.Extraction); err != nil {
			return Snapshot{}, fmt.Errorf("decode merged extraction strategy: %w", err)
		}
	case KindRetrieval:
		merged, err := mergeTree(cur.Retrieval, partial)
		if err != nil {
			return Snapshot{}, err
		}
		if err := json.Unmarshal(merged, &next.Retrieval); err != nil {
			return Snapshot{}, fmt.Errorf("decode merged retrieval strategy: %w", err)
		}
	default:
		return Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	next.Preset = nil
	return s.swap(next)
}

// Replace publishes a caller-supplied snapshot wholesale, for seeding
// the live pair from a file exported elsewhere.
func (s *Store) Replace(snap Snapshot) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(snap)
}

// Reset restores the default preset.
func (s *Store) Reset() (Snapshot, error) {
	snap, err := Preset(DefaultPreset)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(snap)
}

// Presets lists the available presets.
func (s *Store) Presets() []PresetInfo {
	return Presets()
}

// swap publishes a snapshot and persists it. Callers hold s.mu.
func (s *Store) swap(snap Snapshot) (Snapshot, error) {
	s.current.Store(&snap)
	if s.persist != nil {
		if err := s.persist.Save(snap); err != nil {
			return snap, fmt.Errorf("persist strategy snapshot: %w", err)
		}
	}
	return snap, nil
}

// mergeTree deep-merges a partial map onto a strategy tree and returns
// the merged JSON. The strict re-decode pass rejects keys the tree does
// not have.
func mergeTree(tree any, partial map[string]any) ([]byte, error) {
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode strategy tree: %w", err)
	}
	var base map[string]any
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("decode strategy tree: %w", err)
	}

	deepMerge(base, partial)

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode merged tree: %w", err)
	}
	if err := strictDecodeCheck(merged, tree); err != nil {
		return nil, err
	}
	return merged, nil
}

// deepMerge overlays src onto dst in place. Nested maps merge key-wise;
// any other value (including slices) replaces wholesale.
func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				deepMerge(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}

// strictDecodeCheck decodes merged JSON into a throwaway value of the
// tree's type with unknown fields disallowed, surfacing bad keys.
func strictDecodeCheck(merged []byte, tree any) error {
	var target any
	switch tree.(type) {
	case ExtractionStrategy:
		target = &ExtractionStrategy{}
	case RetrievalStrategy:
		target = &RetrievalStrategy{}
	default:
		return fmt.Errorf("%w: %T", ErrInvalidKind, tree)
	}
	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownKey, err)
	}
	return nil
}
