package flags

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gofrs/flock"
)

// ErrNotObject is returned when a flag file holds valid JSON that is not an
// object.
var ErrNotObject = errors.New("flag file is not a JSON object")

// LockSuffix is appended to a flag file path to name its lock file.
const LockSuffix = ".lock"

// Read returns the flags stored at path. A missing file yields an empty map.
// Numbers are returned as json.Number so large integers keep their exact
// value.
func Read(path string) (map[string]any, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(raw))
	for key, data := range raw {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("parse flag %q in %s: %w", key, path, err)
		}
		values[key] = value
	}
	return values, nil
}

// Write sets key to value in the flag file at path. Every other key keeps
// its raw JSON value. The file is created when missing and
// rewritten in place otherwise. Writers racing on the same path may lose
// updates; the last write wins.
func Write(path, key string, value any) error {
	values, err := readRaw(path)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal flag %q: %w", key, err)
	}
	values[key] = encoded

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal flags: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write flag file: %w", err)
	}
	return nil
}

// readRaw decodes the top-level object at path without interpreting values.
func readRaw(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read flag file: %w", err)
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse flag file %s: %w", path, err)
	}
	if values == nil {
		return nil, fmt.Errorf("parse flag file %s: %w", path, ErrNotObject)
	}
	return values, nil
}

// WriteLocked is Write guarded by an exclusive lock on path+LockSuffix, so
// cooperating writers never drop each other's keys.
func WriteLocked(path, key string, value any) error {
	lock := flock.New(path + LockSuffix)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire flag lock: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return Write(path, key, value)
}
