package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func TestConfig_SaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("COUNTRY_EDITOR_CONFIG_DIR", t.TempDir())

	// Missing file => empty config.
	cfg0, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg0, &Config{}) {
		t.Fatalf("expected empty config; got %#v", cfg0)
	}

	want := &Config{
		APIBase:     "http://localhost:9000",
		Concurrency: 4,
		NameCache:   true,
		TUI:         &TUIConfig{Glyphs: "ascii"},
	}
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	if c.APIBase != DefaultAPIBase || c.Concurrency != 1 || c.TimeoutSeconds != 30 {
		t.Fatalf("unexpected defaults: %#v", c)
	}
	c = Config{APIBase: "http://x", Concurrency: 3}.WithDefaults()
	if c.APIBase != "http://x" || c.Concurrency != 3 {
		t.Fatalf("defaults overrode set values: %#v", c)
	}
}

func TestUIState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	st0, err := s.LoadUIState()
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if st0 == nil || st0.Version != 1 || st0.FocusColumn != 0 {
		t.Fatalf("expected default state; got %#v", st0)
	}

	want := &UIState{Version: 1, FocusColumn: 2, ShowHelp: true}
	if err := s.SaveUIState(want); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	got, err := s.LoadUIState()
	if err != nil {
		t.Fatalf("LoadUIState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestUIState_CorruptOrOutOfRange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Dir: dir}

	if err := os.WriteFile(filepath.Join(dir, uiStateFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := s.LoadUIState()
	if err != nil || st.Version != 1 {
		t.Fatalf("corrupt file should load as default; got %#v, %v", st, err)
	}

	if err := os.WriteFile(filepath.Join(dir, uiStateFileName), []byte(`{"focusColumn":7}`), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err = s.LoadUIState()
	if err != nil {
		t.Fatal(err)
	}
	if st.FocusColumn != 1 {
		t.Fatalf("expected focus column reduced to 1; got %d", st.FocusColumn)
	}
}

type countingResolver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingResolver) CountryName(ctx context.Context, code string) (string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	return "Name of " + code, nil
}

func TestNameCache_CachedResolver(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	cache, err := s.OpenNameCache(ctx)
	if err != nil {
		t.Fatalf("OpenNameCache: %v", err)
	}
	defer cache.Close()

	next := &countingResolver{}
	r := CachedResolver{Cache: cache, Next: next}

	for i := 0; i < 3; i++ {
		name, err := r.CountryName(ctx, "SWE")
		if err != nil {
			t.Fatalf("CountryName: %v", err)
		}
		if name != "Name of SWE" {
			t.Fatalf("unexpected name %q", name)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one upstream call; got %d", next.calls)
	}
	if n, err := cache.Len(ctx); err != nil || n != 1 {
		t.Fatalf("expected 1 cached row; got %d (%v)", n, err)
	}

	next.err = errors.New("down")
	if _, err := r.CountryName(ctx, "NOR"); err == nil {
		t.Fatalf("expected upstream error for uncached code")
	}

	if err := cache.Purge(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(ctx, "SWE"); ok {
		t.Fatalf("expected purge to drop SWE")
	}
}

func TestNameCache_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	c1, err := s.OpenNameCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := c1.Put(ctx, "AFG", "Afghanistan"); err != nil {
		t.Fatal(err)
	}
	_ = c1.Close()

	c2, err := s.OpenNameCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()
	name, ok, err := c2.Get(ctx, "AFG")
	if err != nil || !ok || name != "Afghanistan" {
		t.Fatalf("expected cached Afghanistan; got %q ok=%v err=%v", name, ok, err)
	}
}

type scriptedResolver struct{ name string }

func (r *scriptedResolver) CountryName(context.Context, string) (string, error) {
	return r.name, nil
}

func TestNameCache_DoesNotKeepUnavailableAnswers(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	cache, err := s.OpenNameCache(ctx)
	if err != nil {
		t.Fatalf("OpenNameCache: %v", err)
	}
	defer cache.Close()

	next := &scriptedResolver{name: "N/A"}
	r := CachedResolver{Cache: cache, Next: next}

	if name, err := r.CountryName(ctx, "XYZ"); err != nil || name != "N/A" {
		t.Fatalf("expected N/A; got %q (%v)", name, err)
	}
	if _, ok, _ := cache.Get(ctx, "XYZ"); ok {
		t.Fatalf("expected N/A not to be cached")
	}

	// The service learns the name later.
	next.name = "Xyzland"
	if name, _ := r.CountryName(ctx, "XYZ"); name != "Xyzland" {
		t.Fatalf("expected fresh name; got %q", name)
	}
	if name, ok, _ := cache.Get(ctx, "XYZ"); !ok || name != "Xyzland" {
		t.Fatalf("expected Xyzland cached; got %q ok=%v", name, ok)
	}
}
