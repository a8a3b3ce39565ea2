package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		t.Setenv("POLICY_SERVER_TIMEOUT", "")
		t.Setenv("CREDENTIAL_VALIDITY", "")
		cfg := FromEnv()
		assert.Equal(t, DefaultPolicyTimeout, cfg.Policy.Timeout)
		assert.Equal(t, DefaultConsentsTimeout, cfg.Consents.Timeout)
		assert.Equal(t, DefaultCredentialValidity, cfg.Credentials.Validity)
		assert.Equal(t, time.Second, cfg.Credentials.TickInterval)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("POLICY_SERVER_TIMEOUT", "2s")
		t.Setenv("CREDENTIAL_VALIDITY", "10m")
		t.Setenv("CHAIN_ID", "11155111")
		cfg := FromEnv()
		assert.Equal(t, 2*time.Second, cfg.Policy.Timeout)
		assert.Equal(t, 10*time.Minute, cfg.Credentials.Validity)
		assert.Equal(t, int64(11155111), cfg.Chain.ChainID)
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		t.Setenv("POLICY_SERVER_TIMEOUT", "soon")
		t.Setenv("CHAIN_ID", "mainnet")
		cfg := FromEnv()
		assert.Equal(t, DefaultPolicyTimeout, cfg.Policy.Timeout)
		assert.Equal(t, int64(1), cfg.Chain.ChainID)
	})
}
