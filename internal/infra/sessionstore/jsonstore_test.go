package sessionstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/monoledger/internal/domain"
)

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(time.Second)
		return t
	}
}

func snapshot(players ...string) domain.SessionSnapshot {
	snap := domain.SessionSnapshot{CardSet: "classic"}
	for i, name := range players {
		snap.Players = append(snap.Players, domain.Player{
			ID:      domain.PlayerID(i + 1),
			Name:    name,
			Money:   1500,
			GoMoney: 200,
			History: []int{1500},
		})
	}
	return snap
}

func TestSaveSession_WritesFileAndIndex(t *testing.T) {
	tmp := t.TempDir()
	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	store := NewJSONStore(tmp, domain.DefaultConfig(), WithNow(fixedClock(start)))

	id, err := store.SaveSession(snapshot("Ann", "Bob"))
	if err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(tmp, "sessions", id+".json"))
	if err != nil {
		t.Fatalf("read session file: %v", err)
	}
	var decoded domain.SessionSnapshot
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != id || !decoded.CreatedAt.Equal(start) || !decoded.UpdatedAt.Equal(start) {
		t.Fatalf("unexpected header: id=%s created=%v updated=%v", decoded.ID, decoded.CreatedAt, decoded.UpdatedAt)
	}
	if len(decoded.Players) != 2 || decoded.Players[1].Name != "Bob" {
		t.Fatalf("unexpected players: %+v", decoded.Players)
	}

	idx, err := os.ReadFile(filepath.Join(tmp, "sessions", "index.jsonl"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(idx), `"players":["Ann","Bob"]`) {
		t.Fatalf("unexpected index line: %s", idx)
	}

	if _, err := os.Stat(filepath.Join(tmp, "sessions", id+".json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err=%v", err)
	}
}

func TestSaveSession_OverwritesExistingID(t *testing.T) {
	tmp := t.TempDir()
	start := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	store := NewJSONStore(tmp, domain.DefaultConfig(), WithNow(fixedClock(start)))

	id, err := store.SaveSession(snapshot("Ann"))
	if err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}

	snap, err := store.LoadSession(id)
	if err != nil {
		t.Fatalf("LoadSession error: %v", err)
	}
	snap.Players[0].Money = 900
	if again, err := store.SaveSession(snap); err != nil || again != id {
		t.Fatalf("expected same id, got=%s err=%v", again, err)
	}

	got, err := store.LoadSession(id)
	if err != nil {
		t.Fatalf("LoadSession error: %v", err)
	}
	if got.Players[0].Money != 900 {
		t.Fatalf("expected overwritten money, got=%d", got.Players[0].Money)
	}
	if !got.CreatedAt.Equal(start) || !got.UpdatedAt.Equal(start.Add(time.Second)) {
		t.Fatalf("unexpected timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	refs, err := store.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions error: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected one ref per session, got=%d", len(refs))
	}
}

func TestLatestSession_LastSavedWins(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig(), WithNow(fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))

	first, _ := store.SaveSession(snapshot("Ann"))
	second, _ := store.SaveSession(snapshot("Bob"))

	latest, err := store.LatestSession()
	if err != nil {
		t.Fatalf("LatestSession error: %v", err)
	}
	if latest.ID != second {
		t.Fatalf("expected %s, got=%s", second, latest.ID)
	}

	// Touching the first session makes it the latest again.
	snap, _ := store.LoadSession(first)
	if _, err := store.SaveSession(snap); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}
	latest, err = store.LatestSession()
	if err != nil {
		t.Fatalf("LatestSession error: %v", err)
	}
	if latest.ID != first {
		t.Fatalf("expected %s, got=%s", first, latest.ID)
	}

	refs, _ := store.ListSessions()
	if len(refs) != 2 || refs[0].ID != first || refs[1].ID != second {
		t.Fatalf("unexpected order: %+v", refs)
	}
}

func TestLatestSession_Empty(t *testing.T) {
	store := NewJSONStore(t.TempDir(), domain.DefaultConfig())
	if _, err := store.LatestSession(); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestListSessions_WithoutIndexScansDir(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig(),
		WithIndex(false),
		WithNow(fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))),
	)

	a, _ := store.SaveSession(snapshot("Ann"))
	b, _ := store.SaveSession(snapshot("Bob"))

	if _, err := os.Stat(filepath.Join(tmp, "sessions", "index.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("expected no index, stat err=%v", err)
	}

	refs, err := store.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions error: %v", err)
	}
	if len(refs) != 2 || refs[0].ID != b || refs[1].ID != a {
		t.Fatalf("expected newest first, got %+v", refs)
	}
}

func TestLoadSession_RejectsNonUUID(t *testing.T) {
	store := NewJSONStore(t.TempDir(), domain.DefaultConfig())

	if _, err := store.LoadSession("../../etc/passwd"); !domain.IsKind(err, domain.KindUnexpectedValue) {
		t.Fatalf("expected unexpected_value, got %v", err)
	}
	if _, err := store.LoadSession("6f1c2d1e-0000-4000-8000-000000000000"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestReadIndex_SkipsTornLines(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())

	id, err := store.SaveSession(snapshot("Ann"))
	if err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}

	f, err := os.OpenFile(filepath.Join(tmp, "sessions", "index.jsonl"), os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	_, _ = f.WriteString(`{"id":"broken`)
	_ = f.Close()

	latest, err := store.LatestSession()
	if err != nil {
		t.Fatalf("LatestSession error: %v", err)
	}
	if latest.ID != id {
		t.Fatalf("expected %s, got=%s", id, latest.ID)
	}
}
