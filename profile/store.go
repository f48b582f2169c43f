package profile

import (
	"time"

	"io73k/storage"

	"go.uber.org/zap"
)

// Key is the storage key of the profile record.
const Key = "corruption_profile"

// Store persists the profile. Implementations never fail towards the
// caller: errors are logged and an in-memory default is used instead.
type Store interface {
	// Load returns the stored profile (or a fresh one) with PlayCount
	// incremented, and persists it immediately.
	Load() *Profile
	Save(p *Profile)
	Reset()
}

// KVStore is a Store over a storage.KV.
type KVStore struct {
	kv  storage.KV
	log *zap.Logger
	now func() time.Time
}

func NewKVStore(kv storage.KV, log *zap.Logger) *KVStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &KVStore{kv: kv, log: log.Named("profile"), now: time.Now}
}

func (s *KVStore) Load() *Profile {
	now := s.now().UnixMilli()

	var p Profile
	ok, err := storage.GetJSON(s.kv, Key, &p)
	if err != nil {
		s.log.Warn("failed to load profile, starting fresh", zap.Error(err))
	}
	if err != nil || !ok {
		fresh := New(now)
		s.Save(fresh)
		return fresh
	}

	p.normalize()
	p.PlayCount++
	s.Save(&p)
	return &p
}

func (s *KVStore) Save(p *Profile) {
	p.LastUpdated = s.now().UnixMilli()
	if err := storage.SetJSON(s.kv, Key, p); err != nil {
		s.log.Warn("failed to save profile", zap.Error(err))
	}
}

func (s *KVStore) Reset() {
	if err := s.kv.Remove(Key); err != nil {
		s.log.Warn("failed to reset profile", zap.Error(err))
	}
}
