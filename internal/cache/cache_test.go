package cache

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	sig := &ModuleSignature{
		Module:  "App.User",
		Session: "00000000-0000-0000-0000-000000000000",
		Checked: 1700000000,
		Decls: []DeclSignature{
			{Name: "age", Type: "Int"},
			{Name: "greet", Type: "String -> String"},
		},
	}
	if err := store.Put("abc123", sig); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := store.Get("App.User", "abc123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatalf("Get() ok = false, want hit")
	}
	if got.Module != sig.Module || len(got.Decls) != 2 {
		t.Errorf("Get() = %#v, want %#v", got, sig)
	}
	if got.Decls[1].Type != "String -> String" {
		t.Errorf("Decls[1].Type = %q, want String -> String", got.Decls[1].Type)
	}
}

func TestGetMiss(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Get("App.User", "nope"); err != nil || ok {
		t.Errorf("Get() = ok %v, err %v; want miss without error", ok, err)
	}
}

func TestPutReplaces(t *testing.T) {
	store := openTestStore(t)

	first := &ModuleSignature{Module: "M", Decls: []DeclSignature{{Name: "x", Type: "Int"}}}
	second := &ModuleSignature{Module: "M", Decls: []DeclSignature{{Name: "x", Type: "Float"}}}
	if err := store.Put("h", first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put("h", second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := store.Get("M", "h")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if got.Decls[0].Type != "Float" {
		t.Errorf("Decls[0].Type = %q, want Float", got.Decls[0].Type)
	}
}

func TestStatsAndClear(t *testing.T) {
	store := openTestStore(t)

	for i, module := range []string{"A", "B", "C"} {
		sig := &ModuleSignature{Module: module}
		if err := store.Put(string(rune('a'+i)), sig); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	n, err := store.Stats()
	if err != nil || n != 3 {
		t.Errorf("Stats() = %d, %v; want 3", n, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	n, err = store.Stats()
	if err != nil || n != 0 {
		t.Errorf("Stats() after Clear = %d, %v; want 0", n, err)
	}
}
