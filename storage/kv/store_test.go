package kv

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
)

type mapStore map[string][]byte

func (st mapStore) Get(_ context.Context, key string) ([]byte, error) {
	if data, ok := st[key]; ok {
		return data, nil
	}
	return nil, ErrKeyNotFound
}

func (st mapStore) Set(_ context.Context, key string, data []byte) error {
	st[key] = data
	return nil
}

type testLogger struct{ warns int }

func (l *testLogger) Enable(bool)                      {}
func (l *testLogger) Debug(string, ...interface{})     {}
func (l *testLogger) Info(string, ...interface{})      {}
func (l *testLogger) Warn(string, ...interface{})      { l.warns++ }
func (l *testLogger) Error(string, ...interface{})     {}
func (l *testLogger) Fatal(msg string, _ ...interface{}) {
	log.New(os.Stderr, "", 0).Fatal(msg)
}

type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := mapStore{}
	logger := &testLogger{}
	ctx := context.Background()

	seed := []entry{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}
	if err := SaveSlice(ctx, st, "entries", seed); err != nil {
		t.Fatalf("SaveSlice() failed: %v", err)
	}

	var got []entry
	LoadSlice(ctx, st, logger, "entries", &got, nil)
	if len(got) != 2 || got[0].ID != "1" || got[1].Name != "b" {
		t.Errorf("LoadSlice() = %v, want %v", got, seed)
	}
	if logger.warns != 0 {
		t.Errorf("unexpected warnings: %d", logger.warns)
	}
}

func TestLoadSliceFallbacks(t *testing.T) {
	def := []entry{{ID: "seed", Name: "seed"}}

	wrapped := func(version int, data string) []byte {
		b, _ := json.Marshal(snapshot{Version: version, Data: json.RawMessage(data)})
		return b
	}

	tests := []struct {
		name     string
		stored   []byte // nil: key absent
		def      []entry
		want     int // expected result length
		wantSeed bool
		wantWarn bool
	}{
		{name: "missing key uses empty slice", want: 0},
		{name: "missing key uses default", def: def, want: 1, wantSeed: true},
		{name: "garbage envelope", stored: []byte("{not json"), def: def, want: 1, wantSeed: true, wantWarn: true},
		{name: "version mismatch", stored: wrapped(99, `[{"id":"x"}]`), def: def, want: 1, wantSeed: true, wantWarn: true},
		{name: "garbage payload", stored: wrapped(snapshotVersion, `"nope"`), def: def, want: 1, wantSeed: true, wantWarn: true},
		{name: "stored empty list with non-empty default", stored: wrapped(snapshotVersion, `[]`), def: def, want: 1, wantSeed: true},
		{name: "stored empty list with no default", stored: wrapped(snapshotVersion, `[]`), want: 0},
		{name: "stored data wins over default", stored: wrapped(snapshotVersion, `[{"id":"x"},{"id":"y"}]`), def: def, want: 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			st := mapStore{}
			if tt.stored != nil {
				st["entries"] = tt.stored
			}
			logger := &testLogger{}

			var got []entry
			var defArg interface{}
			if tt.def != nil {
				defArg = tt.def
			}
			LoadSlice(context.Background(), st, logger, "entries", &got, defArg)

			if len(got) != tt.want {
				t.Fatalf("LoadSlice() len = %d, want %d (%v)", len(got), tt.want, got)
			}
			if tt.wantSeed && got[0].ID != "seed" {
				t.Errorf("LoadSlice() = %v, want seed default", got)
			}
			if tt.wantWarn && logger.warns == 0 {
				t.Error("expected a warning")
			}
			if !tt.wantWarn && logger.warns != 0 {
				t.Errorf("unexpected warnings: %d", logger.warns)
			}
		})
	}
}
