package sessionstore

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/ports"
)

const (
	defaultSessionsDir = "sessions"
	indexFile          = "index.jsonl"
)

type JSONStore struct {
	rootDir         string
	sessionsDirName string
	writeIndex      bool
	now             func() time.Time
	newID           func() string
}

type Option func(*JSONStore)

// WithIndex toggles the JSONL index: sessions/index.jsonl (on by default).
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	sessionsDir := cfg.Paths.SessionsDir
	if strings.TrimSpace(sessionsDir) == "" {
		sessionsDir = defaultSessionsDir
	}

	s := &JSONStore{
		rootDir:         root,
		sessionsDirName: sessionsDir,
		writeIndex:      true,
		now:             time.Now,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.SessionStore = (*JSONStore)(nil)

func (s *JSONStore) dir() string {
	return filepath.Join(s.rootDir, s.sessionsDirName)
}

// SaveSession writes snap to sessions/<id>.json, assigning a new ID when
// snap has none. Saving an existing ID overwrites it in place.
func (s *JSONStore) SaveSession(snap domain.SessionSnapshot) (string, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "sessionstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	if snap.ID == "" {
		snap.ID = s.newID()
	} else if err := validateID(snap.ID); err != nil {
		return "", err
	}

	now := s.now().UTC()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = now
	}
	snap.UpdatedAt = now

	filename := snap.ID + ".json"
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "sessionstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "sessionstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "sessionstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		if err := s.appendIndex(dir, filename, snap); err != nil {
			return "", &domain.OpError{
				Op:   "sessionstore.index",
				Kind: domain.KindExecution,
				Path: filepath.Join(dir, indexFile),
				Err:  err,
			}
		}
	}

	return snap.ID, nil
}

func (s *JSONStore) appendIndex(dir, filename string, snap domain.SessionSnapshot) error {
	names := make([]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		names = append(names, p.Name)
	}

	line, err := json.Marshal(domain.SessionRef{
		ID:      snap.ID,
		File:    filename,
		CardSet: snap.CardSet,
		Players: names,
		SavedAt: snap.UpdatedAt,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

func (s *JSONStore) LoadSession(id string) (domain.SessionSnapshot, error) {
	if err := validateID(id); err != nil {
		return domain.SessionSnapshot{}, err
	}

	path := filepath.Join(s.dir(), id+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.SessionSnapshot{}, &domain.OpError{
			Op:   "sessionstore.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return domain.SessionSnapshot{}, &domain.OpError{
			Op:   "sessionstore.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return snap, nil
}

// LatestSession loads the most recently saved session.
func (s *JSONStore) LatestSession() (domain.SessionSnapshot, error) {
	refs, err := s.ListSessions()
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	if len(refs) == 0 {
		return domain.SessionSnapshot{}, domain.Errorf("sessionstore.latest", domain.KindNotFound,
			"no saved sessions in %s", s.dir())
	}
	return s.LoadSession(refs[0].ID)
}

// ListSessions returns one ref per session, most recently saved first.
// The index is authoritative; without one the directory is scanned.
func (s *JSONStore) ListSessions() ([]domain.SessionRef, error) {
	dir := s.dir()
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.OpError{Op: "sessionstore.list", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	refs, err := s.readIndex(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, &domain.OpError{
				Op:   "sessionstore.list",
				Kind: domain.KindExecution,
				Path: filepath.Join(dir, indexFile),
				Err:  err,
			}
		}
		refs, err = s.scan(dir)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(refs, func(i, j int) bool { return refs[i].SavedAt.After(refs[j].SavedAt) })
	}
	return refs, nil
}

// readIndex returns the last line of every session ID, newest line first.
func (s *JSONStore) readIndex(dir string) ([]domain.SessionRef, error) {
	f, err := os.Open(filepath.Join(dir, indexFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []domain.SessionRef
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ref domain.SessionRef
		if err := json.Unmarshal([]byte(line), &ref); err != nil || ref.ID == "" {
			// A torn trailing line from an interrupted append.
			continue
		}
		lines = append(lines, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	refs := make([]domain.SessionRef, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		ref := lines[i]
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		if _, err := os.Stat(filepath.Join(dir, ref.File)); err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *JSONStore) scan(dir string) ([]domain.SessionRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{Op: "sessionstore.list", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	var refs []domain.SessionRef
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if validateID(id) != nil {
			continue
		}
		snap, err := s.LoadSession(id)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(snap.Players))
		for _, p := range snap.Players {
			names = append(names, p.Name)
		}
		refs = append(refs, domain.SessionRef{
			ID:      snap.ID,
			File:    name,
			CardSet: snap.CardSet,
			Players: names,
			SavedAt: snap.UpdatedAt,
		})
	}
	return refs, nil
}

// validateID only admits UUIDs, so an ID can never escape the sessions dir.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.OpError{
			Op:   "sessionstore.id",
			Kind: domain.KindUnexpectedValue,
			Err:  err,
		}
	}
	return nil
}
