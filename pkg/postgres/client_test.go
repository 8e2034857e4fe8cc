package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	pc, err := Config{
		DatabaseURL:     "postgres://app:secret@db:5432/leads?sslmode=disable",
		MaxConns:        8,
		MaxConnLifetime: time.Hour,
	}.poolConfig()
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, "leads", pc.ConnConfig.Database)

	_, err = Config{}.poolConfig()
	assert.Error(t, err)

	_, err = Config{DatabaseURL: "postgres://%zz"}.poolConfig()
	assert.Error(t, err)
}
