// Package storage is the key-value persistence boundary for everything the
// game remembers between sessions.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrClosed is returned by a backend used after Close.
var ErrClosed = errors.New("storage: closed")

// KV is a string key-value store. Get reports ok=false for a missing key.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

type prefixed struct {
	prefix string
	kv     KV
}

// WithPrefix namespaces every key of kv under prefix.
func WithPrefix(prefix string, kv KV) KV {
	if prefix == "" {
		return kv
	}
	return &prefixed{prefix: prefix, kv: kv}
}

func (p *prefixed) Get(key string) (string, bool, error) { return p.kv.Get(p.prefix + key) }
func (p *prefixed) Set(key, value string) error          { return p.kv.Set(p.prefix+key, value) }
func (p *prefixed) Remove(key string) error              { return p.kv.Remove(p.prefix + key) }

// GetJSON decodes the value at key into v. ok is false when the key is absent.
func GetJSON(kv KV, key string, v any) (bool, error) {
	raw, ok, err := kv.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(key, string(data))
}
