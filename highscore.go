package cabinet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	maxHighScores    = 10
	maxHighScoreName = 5
)

// HighScore is one entry of the persisted ledger.
type HighScore struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	DisplayScore string  `json:"displayScore"`
	Date         string  `json:"date"`
}

// Store is a key-value string store with browser localStorage semantics.
// The high-score ledger persists one JSON record per game name.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemStore is an in-memory Store, used by default and in tests.
type MemStore map[string]string

// Get returns the stored value for key.
func (m MemStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Set stores value under key.
func (m MemStore) Set(key, value string) {
	m[key] = value
}

// FileStore is a Store backed by a single JSON file. Writes persist
// immediately; a write failure is logged as a warning and the in-memory
// value is kept, matching the "transient I/O never halts" policy.
type FileStore struct {
	path  string
	cache map[string]string
}

// NewFileStore loads (or initializes) the store at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, cache: make(map[string]string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.cache); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	return s, nil
}

// Get returns the stored value for key.
func (s *FileStore) Get(key string) (string, bool) {
	v, ok := s.cache[key]
	return v, ok
}

// Set stores value under key and flushes the file.
func (s *FileStore) Set(key, value string) {
	s.cache[key] = value
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		warnf("store: marshal: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		warnf("store: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		warnf("store: write %s: %v", s.path, err)
	}
}

// highScoreKey is the per-game record name in the store.
func (a *App) highScoreKey() string {
	return "highscores:" + a.name
}

// HighScores returns the persisted ledger, descending by score. A missing
// or unreadable record yields an empty ledger.
func (a *App) HighScores() []HighScore {
	raw, ok := a.store.Get(a.highScoreKey())
	if !ok {
		return nil
	}
	var list []HighScore
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		warnf("high scores for %q unreadable, starting fresh: %v", a.name, err)
		return nil
	}
	return list
}

func (a *App) saveHighScores(list []HighScore) {
	data, err := json.Marshal(list)
	if err != nil {
		warnf("high scores: marshal: %v", err)
		return
	}
	a.store.Set(a.highScoreKey(), string(data))
}

// scoreRank finds the insertion position for score: the first entry whose
// score is strictly less than it. Ties keep existing entries ahead.
func scoreRank(list []HighScore, score float64) int {
	for i, e := range list {
		if e.Score < score {
			return i
		}
	}
	return len(list)
}

// recordScore runs the high-score insertion algorithm: when the score ranks
// inside the top ten, prompt for a name, insert, truncate, and persist.
func (a *App) recordScore(score float64, displayScore string) {
	if displayScore == "" {
		displayScore = formatScore(score)
	}
	list := a.HighScores()
	rank := scoreRank(list, score)
	if rank >= maxHighScores {
		return
	}

	name := "YOU"
	if a.namePrompt != nil {
		a.invoke("NamePrompt", func() { name = a.namePrompt(rank) })
		if a.halted {
			return
		}
	}
	if len(name) > maxHighScoreName {
		name = name[:maxHighScoreName]
	}

	entry := HighScore{
		Name:         name,
		Score:        score,
		DisplayScore: displayScore,
		Date:         a.clock.now().Format("2006-01-02"),
	}
	list = append(list, HighScore{})
	copy(list[rank+1:], list[rank:])
	list[rank] = entry
	if len(list) > maxHighScores {
		list = list[:maxHighScores]
	}
	a.saveHighScores(list)
}

// formatScore renders a numeric score the way the default screens show it:
// integers without a fraction, everything else with one decimal.
func formatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%.1f", score)
}
