package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispenseStatisticJSON(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	stat := DispenseStatistic{
		ID:          "abc",
		Module:      1,
		DispensedAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		PickedUpAt:  time.Date(2024, 1, 1, 3, 5, 0, 123456789, est),
		RecordedAt:  time.Date(2024, 1, 1, 8, 6, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(stat)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "abc", got["id"])
	assert.Equal(t, float64(1), got["module"])
	assert.Equal(t, "2024-01-01T08:00:00.000Z", got["dispensedAt"])
	assert.Equal(t, "2024-01-01T08:05:00.123Z", got["pickedUpAt"])
	assert.Equal(t, "2024-01-01T08:06:00.000Z", got["recordedAt"])
	assert.Len(t, got, 5)
}

func TestPillDefinitionJSON(t *testing.T) {
	pill := PillDefinition{
		ID:              "p1",
		Name:            "Paracetamol",
		IntervalSeconds: 15,
		Module:          1,
		CreatedAt:       time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(pill)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Paracetamol","intervalSeconds":15,"module":1,"createdAt":"2025-03-09T10:00:00.000Z"}`, string(raw))
}

func TestPickupDelay(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	stat := DispenseStatistic{DispensedAt: base, PickedUpAt: base.Add(5 * time.Minute)}
	assert.Equal(t, 5*time.Minute, stat.PickupDelay())

	stat.PickedUpAt = base.Add(-time.Minute)
	assert.Equal(t, -time.Minute, stat.PickupDelay())
}

func TestModuleBucketsEmptyJSON(t *testing.T) {
	raw, err := json.Marshal(ModuleBuckets{Modulo1: []PillDefinition{}, Modulo2: []PillDefinition{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"modulo1":[],"modulo2":[]}`, string(raw))
}
