package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", samplerFor("development").Description())
	assert.Contains(t, samplerFor("production").Description(), "TraceIDRatioBased{0.1}")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger("production"))
	assert.NotNil(t, GetLogger())
	assert.NotNil(t, SessionLogger("s1"))
}
