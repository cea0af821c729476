// Package usage tracks per-day focus seconds for each target application.
package usage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// document is the persisted shape: {"date": "YYYY-MM-DD", "usage": {...}}.
type document struct {
	Date  string                 `json:"date"`
	Usage map[string]interface{} `json:"usage"`
}

// Store accumulates focus seconds per process key for the current day.
// The mapping is replaced wholesale at the local-date rollover.
type Store struct {
	path string

	mu    sync.Mutex
	date  string
	usage map[string]float64

	now func() time.Time
}

func NewStore(path string) *Store {
	s := &Store{
		path:  path,
		usage: make(map[string]float64),
		now:   time.Now,
	}
	s.date = s.today()
	return s
}

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}

// Load reads the usage file. A missing file starts empty; a corrupt file or
// malformed entries are logged and skipped rather than failing.
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("usage load failed, starting fresh")
		}
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("usage file corrupt, starting fresh")
		s.mu.Lock()
		s.date = s.today()
		s.usage = make(map[string]float64)
		s.mu.Unlock()
		return
	}

	cleaned := make(map[string]float64)
	for k, v := range doc.Usage {
		sec, ok := v.(float64)
		if !ok {
			continue
		}
		cleaned[strings.ToLower(k)] = sec
	}

	s.mu.Lock()
	if doc.Date != "" {
		s.date = doc.Date
	} else {
		s.date = s.today()
	}
	s.usage = cleaned
	s.mu.Unlock()

	s.ResetIfNewDay()
}

// Save writes the usage file atomically. The lock is held only while the
// in-memory state is serialized; the disk write happens outside it.
func (s *Store) Save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(document{Date: s.date, Usage: toAny(s.usage)}, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func toAny(m map[string]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ResetIfNewDay replaces the whole mapping when the stored date is no longer
// today. Called opportunistically on every poll tick.
func (s *Store) ResetIfNewDay() {
	t := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.date != t {
		s.date = t
		s.usage = make(map[string]float64)
	}
}

// AddSeconds adds focus time for a process. Non-positive deltas and empty
// keys are ignored.
func (s *Store) AddSeconds(procName string, seconds float64) {
	if procName == "" || seconds <= 0 {
		return
	}
	key := strings.ToLower(procName)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[key] += seconds
}

// GetSeconds returns the accumulated seconds for a process, 0 if absent.
func (s *Store) GetSeconds(procName string) float64 {
	if procName == "" {
		return 0
	}
	key := strings.ToLower(procName)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage[key]
}

// Snapshot returns the current date and a copy of the mapping, safe for
// concurrent readers.
func (s *Store) Snapshot() (string, map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.usage))
	for k, v := range s.usage {
		out[k] = v
	}
	return s.date, out
}
