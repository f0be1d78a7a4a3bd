package state

import (
	"fmt"
	"math/rand/v2"
)

// Metadata holds a satellite's capacity and performance attributes. It is
// only mutated through UpdateMetadata, which rejects unknown fields without
// applying any part of the update.
type Metadata struct {
	ComputationalCapacity float64 // MIPS
	BandwidthCapacity     float64 // Mbps
	ProcessingPower       float64 // GHz
	CommunicationRange    float64 // km

	PacketLossRate    float64 // in [0, 1]
	TransmissionDelay float64 // ms
	BufferSize        int     // KB
	QueueCapacity     int     // packets

	MaxBandwidthUtilization float64 // in [0, 1]
	MinSignalStrength       float64 // dBm
	FrequencyBand           string
	ModulationScheme        string

	TotalPacketsSent       int
	TotalPacketsReceived   int
	SuccessfulTransmission float64 // in [0, 1]
}

// RandomMetadata produces plausible defaults for a freshly created node.
func RandomMetadata(rng *rand.Rand) Metadata {
	bufferSizes := []int{512, 1024, 2048}
	bands := []string{"Ka", "Ku", "X"}
	schemes := []string{"BPSK", "QPSK", "8PSK"}
	return Metadata{
		ComputationalCapacity:   1000 + rng.Float64()*1000,
		BandwidthCapacity:       100 + rng.Float64()*900,
		ProcessingPower:         1.0 + rng.Float64()*3.0,
		CommunicationRange:      1000 + rng.Float64()*1000,
		PacketLossRate:          rng.Float64() * 0.1,
		TransmissionDelay:       10 + rng.Float64()*90,
		BufferSize:              bufferSizes[rng.IntN(len(bufferSizes))],
		QueueCapacity:           500 + rng.IntN(1500),
		MaxBandwidthUtilization: 0.6 + rng.Float64()*0.3,
		MinSignalStrength:       -100 + rng.Float64()*20,
		FrequencyBand:           bands[rng.IntN(len(bands))],
		ModulationScheme:        schemes[rng.IntN(len(schemes))],
		SuccessfulTransmission:  1.0,
	}
}

// Throughput is the usable bandwidth after the utilization cap.
func (m *Metadata) Throughput() float64 {
	return m.BandwidthCapacity * m.MaxBandwidthUtilization
}

// RecordTransmission updates the packet counters and the success rate.
func (m *Metadata) RecordTransmission(sent, received int) {
	m.TotalPacketsSent += sent
	m.TotalPacketsReceived += received
	if m.TotalPacketsSent > 0 {
		m.SuccessfulTransmission = float64(m.TotalPacketsReceived) / float64(m.TotalPacketsSent)
	}
}

// Apply merges the named fields into the metadata. Every field name is
// validated before any value is written, so an unknown field leaves the
// metadata untouched.
func (m *Metadata) Apply(fields map[string]any) error {
	for name, value := range fields {
		if err := checkMetadataField(name, value); err != nil {
			return err
		}
	}
	for name, value := range fields {
		setMetadataField(m, name, value)
	}
	return nil
}

func checkMetadataField(name string, value any) error {
	switch name {
	case "computational_capacity", "bandwidth_capacity", "processing_power",
		"communication_range", "packet_loss_rate", "transmission_delay",
		"max_bandwidth_utilization", "min_signal_strength":
		if _, ok := asFloat(value); !ok {
			return fmt.Errorf("metadata field %s expects a number, got %T", name, value)
		}
	case "buffer_size", "queue_capacity":
		if _, ok := asInt(value); !ok {
			return fmt.Errorf("metadata field %s expects an integer, got %T", name, value)
		}
	case "frequency_band", "modulation_scheme":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("metadata field %s expects a string, got %T", name, value)
		}
	default:
		return fmt.Errorf("invalid metadata field: %s", name)
	}
	return nil
}

func setMetadataField(m *Metadata, name string, value any) {
	switch name {
	case "computational_capacity":
		m.ComputationalCapacity, _ = asFloat(value)
	case "bandwidth_capacity":
		m.BandwidthCapacity, _ = asFloat(value)
	case "processing_power":
		m.ProcessingPower, _ = asFloat(value)
	case "communication_range":
		m.CommunicationRange, _ = asFloat(value)
	case "packet_loss_rate":
		m.PacketLossRate, _ = asFloat(value)
	case "transmission_delay":
		m.TransmissionDelay, _ = asFloat(value)
	case "max_bandwidth_utilization":
		m.MaxBandwidthUtilization, _ = asFloat(value)
	case "min_signal_strength":
		m.MinSignalStrength, _ = asFloat(value)
	case "buffer_size":
		m.BufferSize, _ = asInt(value)
	case "queue_capacity":
		m.QueueCapacity, _ = asInt(value)
	case "frequency_band":
		m.FrequencyBand = value.(string)
	case "modulation_scheme":
		m.ModulationScheme = value.(string)
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// Coordinates is the satellite position. All three fields are required on
// update; a structurally incomplete update is rejected and the prior value
// retained.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	Altitude  float64 // km
}

func RandomCoordinates(rng *rand.Rand) Coordinates {
	return Coordinates{
		Latitude:  -90 + rng.Float64()*180,
		Longitude: -180 + rng.Float64()*360,
		Altitude:  500 + rng.Float64()*500,
	}
}

func CoordinatesFromMap(fields map[string]float64) (Coordinates, error) {
	for _, key := range []string{"latitude", "longitude", "altitude"} {
		if _, ok := fields[key]; !ok {
			return Coordinates{}, fmt.Errorf("coordinates must contain %s", key)
		}
	}
	return Coordinates{
		Latitude:  fields["latitude"],
		Longitude: fields["longitude"],
		Altitude:  fields["altitude"],
	}, nil
}
