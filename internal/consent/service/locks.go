package service

import (
	"context"
	"sync"

	dErrors "marketaccess/pkg/domain-errors"
)

// numConsentShards spreads per-consent locking over a fixed set of mutexes so
// responses to different consents rarely contend.
const numConsentShards = 64

type shardedLocks struct {
	shards [numConsentShards]chan struct{}
	once   sync.Once
}

func (l *shardedLocks) init() {
	for i := range l.shards {
		l.shards[i] = make(chan struct{}, 1)
	}
}

// lock serializes mutations of one consent id. It gives up when ctx is done.
func (l *shardedLocks) lock(ctx context.Context, consentID int64) (func(), error) {
	l.once.Do(l.init)
	shard := l.shards[hashConsentID(consentID)%numConsentShards]
	select {
	case shard <- struct{}{}:
		return func() { <-shard }, nil
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "consent update aborted: context cancelled")
	}
}

// hashConsentID is FNV-1a over the id's bytes.
func hashConsentID(id int64) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	u := uint64(id)
	for i := 0; i < 8; i++ {
		h ^= uint32(u & 0xff)
		h *= fnvPrime
		u >>= 8
	}
	return h
}
