package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"marketaccess/internal/credential"
	"marketaccess/internal/platform/logger"
	"marketaccess/internal/storage"
)

type CacheSuite struct {
	suite.Suite
	ctx   context.Context
	kv    *storage.Memory
	cache *Cache
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = storage.NewMemory()
	s.cache = New(s.kv, WithLogger(logger.Discard()))
}

func cred(id, typ string, subject map[string]any) credential.Credential {
	return credential.Credential{
		ID: id,
		ParsedDocument: credential.Document{
			ID:                "urn:uuid:" + id,
			Type:              []string{"VerifiableCredential", typ},
			Issuer:            "did:web:issuer",
			IssuanceDate:      "2026-01-01T00:00:00Z",
			CredentialSubject: subject,
		},
	}
}

func (s *CacheSuite) TestCacheDedupesStructurally() {
	a := cred("1", "LegalParticipant", map[string]any{"name": "acme", "country": "DE"})
	aCopy := cred("1", "LegalParticipant", map[string]any{"country": "DE", "name": "acme"})
	b := cred("2", "EmailPass", nil)

	merged, err := s.cache.Cache(s.ctx, []credential.Credential{a, b, aCopy})
	s.Require().NoError(err)
	s.Equal([]credential.Credential{a, b}, merged)

	s.Run("first seen wins and order is kept", func() {
		c := cred("3", "EmailPass", nil)
		merged, err := s.cache.Cache(s.ctx, []credential.Credential{c, b})
		s.Require().NoError(err)
		s.Equal([]string{"1", "2", "3"}, ids(merged))
	})
}

func (s *CacheSuite) TestCacheIsIdempotent() {
	list := []credential.Credential{
		cred("1", "LegalParticipant", nil),
		cred("1", "LegalParticipant", nil),
		cred("2", "EmailPass", nil),
	}
	once, err := s.cache.Cache(s.ctx, list)
	s.Require().NoError(err)
	twice, err := s.cache.Cache(s.ctx, once)
	s.Require().NoError(err)
	s.Equal(once, twice)
	s.Equal(once, s.cache.ReadAll(s.ctx))
}

func (s *CacheSuite) TestLookupFiltersByTypeTag() {
	s.Require().NoError(s.cache.Write(s.ctx, []credential.Credential{
		cred("1", "LegalParticipant", nil),
		cred("2", "EmailPass", nil),
		cred("3", "LegalParticipant", nil),
	}))

	s.Equal([]string{"1", "3"}, ids(s.cache.Lookup(s.ctx, []string{"LegalParticipant"})))
	s.Empty(s.cache.Lookup(s.ctx, []string{"Unknown"}))
	s.Len(s.cache.ReadAll(s.ctx), 3, "lookup must not modify the cache")
}

func (s *CacheSuite) TestCorruptStorageReadsAsEmpty() {
	s.Require().NoError(s.kv.Set(s.ctx, KeyCachedCredentials, "[{broken"))
	s.Empty(s.cache.ReadAll(s.ctx))

	merged, err := s.cache.Cache(s.ctx, []credential.Credential{cred("1", "EmailPass", nil)})
	s.Require().NoError(err)
	s.Len(merged, 1)
}

func (s *CacheSuite) TestClearAndSelections() {
	_, err := s.cache.Cache(s.ctx, []credential.Credential{cred("1", "EmailPass", nil)})
	s.Require().NoError(err)
	s.Require().NoError(s.cache.Clear(s.ctx))
	s.Empty(s.cache.ReadAll(s.ctx))

	s.Require().NoError(s.cache.SetSelections(s.ctx, []string{" EmailPass", "EmailPass", "", "LegalParticipant"}))
	s.Equal([]string{"EmailPass", "LegalParticipant"}, s.cache.Selections(s.ctx))
}

func ids(list []credential.Credential) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}
