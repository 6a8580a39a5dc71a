package sink

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/gobench/pkg/bench"
	"github.com/momentics/gobench/pkg/logger"
)

func TestNewMessage(t *testing.T) {
	wf := bench.Waveform{Channel: 2, Time: []float64{0, 1e-6}, Value: []float64{0.5, 0.25}}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	msg := NewMessage("scope", "DSOX1204G", wf, at)

	assert.Equal(t, 2, msg.Channel)
	assert.Equal(t, 2, msg.Points)
	assert.Equal(t, time.UTC, msg.AcquiredAt.Location())
	assert.True(t, msg.AcquiredAt.Equal(at))
}

func TestEncode(t *testing.T) {
	msg := Message{
		Instrument: "scope",
		Model:      "MSO2014B",
		Channel:    1,
		AcquiredAt: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
		Points:     3,
		Time:       []float64{0, 1, 2},
		Value:      []float64{-1, 0, 1},
	}

	data, err := Encode(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "scope", decoded["instrument"])
	assert.Equal(t, "MSO2014B", decoded["model"])
	assert.Equal(t, "2024-03-01T11:00:00Z", decoded["acquired_at"])
	assert.Len(t, decoded["value"], 3)
}

func TestHistoryKey(t *testing.T) {
	assert.Equal(t, "gobench:psu:waveforms", HistoryKey("psu"))
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	log := logger.NewSlogWriter(io.Discard, logger.ErrorLevel, false)
	_, err := NewRedis(ctx, Config{Addr: "127.0.0.1:1", Channel: "wf"}, log)
	assert.Error(t, err)
}
