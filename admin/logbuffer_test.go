package admin

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBuffer(t *testing.T) {
	buffer := NewLogBuffer(3)
	logger := log.New()
	logger.AddHook(buffer)
	logger.SetOutput(discard{})

	assert.Empty(t, buffer.Entries())

	logger.Info("one")
	logger.WithField("guildID", 7).Warn("two")

	entries := buffer.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Message)
	assert.Equal(t, "warning", entries[0].Level)
	assert.Equal(t, 7, entries[0].Fields["guildID"])

	logger.Info("three")
	logger.Info("four")

	entries = buffer.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"four", "three", "two"}, []string{entries[0].Message, entries[1].Message, entries[2].Message})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
