package state

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataApply(t *testing.T) {
	m := RandomMetadata(rand.New(rand.NewPCG(1, 2)))

	err := m.Apply(map[string]any{
		"bandwidth_capacity": 250.0,
		"buffer_size":        2048,
		"frequency_band":     "Ka",
	})
	require.NoError(t, err)
	assert.Equal(t, 250.0, m.BandwidthCapacity)
	assert.Equal(t, 2048, m.BufferSize)
	assert.Equal(t, "Ka", m.FrequencyBand)
}

func TestMetadataApplyRejectsUnknownFieldAtomically(t *testing.T) {
	m := RandomMetadata(rand.New(rand.NewPCG(1, 2)))
	before := m

	err := m.Apply(map[string]any{
		"bandwidth_capacity": 999.0,
		"no_such_field":      1,
	})
	require.Error(t, err)
	assert.Equal(t, before, m, "a rejected update must not apply any field")
}

func TestMetadataApplyRejectsWrongType(t *testing.T) {
	m := Metadata{}
	err := m.Apply(map[string]any{"bandwidth_capacity": "fast"})
	require.Error(t, err)

	err = m.Apply(map[string]any{"buffer_size": 1.5})
	require.Error(t, err)

	// ints coerce into float fields
	err = m.Apply(map[string]any{"transmission_delay": 20})
	require.NoError(t, err)
	assert.Equal(t, 20.0, m.TransmissionDelay)
}

func TestRecordTransmission(t *testing.T) {
	m := Metadata{}
	m.RecordTransmission(10, 9)
	m.RecordTransmission(10, 7)
	assert.Equal(t, 20, m.TotalPacketsSent)
	assert.Equal(t, 16, m.TotalPacketsReceived)
	assert.Equal(t, 0.8, m.SuccessfulTransmission)
}

func TestThroughput(t *testing.T) {
	m := Metadata{BandwidthCapacity: 200, MaxBandwidthUtilization: 0.75}
	assert.Equal(t, 150.0, m.Throughput())
}

func TestCoordinatesFromMap(t *testing.T) {
	c, err := CoordinatesFromMap(map[string]float64{
		"latitude":  12.5,
		"longitude": -30.0,
		"altitude":  550,
	})
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Latitude: 12.5, Longitude: -30.0, Altitude: 550}, c)

	_, err = CoordinatesFromMap(map[string]float64{"latitude": 1, "longitude": 2})
	assert.Error(t, err)
}

func TestRandomMetadataRanges(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 50; i++ {
		m := RandomMetadata(rng)
		assert.GreaterOrEqual(t, m.PacketLossRate, 0.0)
		assert.Less(t, m.PacketLossRate, 0.1)
		assert.GreaterOrEqual(t, m.MaxBandwidthUtilization, 0.6)
		assert.LessOrEqual(t, m.MaxBandwidthUtilization, 0.9)
		assert.Contains(t, []string{"Ka", "Ku", "X"}, m.FrequencyBand)
		assert.Equal(t, 1.0, m.SuccessfulTransmission)
	}
}
