// Package kv is the persistence surface of the portal: every entity
// collection is a JSON-serialized snapshot stored under a string key.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is a minimal byte-oriented key-value backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// snapshots are wrapped in a versioned envelope so a shape change in a new
// build discards old data instead of mis-decoding it.
const snapshotVersion = 1

type snapshot struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// LoadSlice fills dst (a pointer to a slice) from the snapshot stored under
// key, falling back to def when the key is missing, unreadable, of an
// unknown version, or a stored empty list while def is non-empty (a partial
// write must not lose seed data). Failures are logged, never surfaced.
func LoadSlice(ctx context.Context, st Store, logger core.Logger, key string, dst, def interface{}) {
	dstVal := reflect.ValueOf(dst).Elem()
	useDefault := func() {
		if def == nil {
			dstVal.Set(reflect.MakeSlice(dstVal.Type(), 0, 0))
			return
		}
		dstVal.Set(reflect.ValueOf(def))
	}

	data, err := st.Get(ctx, key)
	if err != nil {
		if errors.Cause(err) != ErrKeyNotFound {
			logger.Warn(fmt.Sprintf("kv: reading %q, using default", key), err)
		}
		useDefault()
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn(fmt.Sprintf("kv: decoding %q envelope, using default", key), err)
		useDefault()
		return
	}
	if snap.Version != snapshotVersion {
		logger.Warn(fmt.Sprintf("kv: %q snapshot version %d (want %d), using default", key, snap.Version, snapshotVersion))
		useDefault()
		return
	}
	if err := json.Unmarshal(snap.Data, dst); err != nil {
		logger.Warn(fmt.Sprintf("kv: decoding %q, using default", key), err)
		useDefault()
		return
	}

	var defLen int
	if def != nil {
		defLen = reflect.ValueOf(def).Len()
	}
	if dstVal.Len() == 0 && defLen > 0 {
		useDefault()
	}
}

// SaveSlice serializes and stores the collection unconditionally.
func SaveSlice(ctx context.Context, st Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "kv: encoding %q", key)
	}
	envelope, err := json.Marshal(snapshot{Version: snapshotVersion, Data: data})
	if err != nil {
		return errors.Wrapf(err, "kv: encoding %q envelope", key)
	}
	return st.Set(ctx, key, envelope)
}
