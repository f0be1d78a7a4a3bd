package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := CentralCfg{}
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultKHops, cfg.KHops)
	assert.Equal(t, RouteUpdateDelay, cfg.UpdateInterval)
	assert.Equal(t, LivenessDelay, cfg.LivenessInterval)
	assert.Equal(t, RouteGcDelay, cfg.GcInterval)
	assert.Equal(t, 3*cfg.UpdateInterval, cfg.MaxRouteAge)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := CentralCfg{UpdateInterval: time.Second, MaxRouteAge: time.Minute}
	cfg.ApplyDefaults()
	assert.Equal(t, time.Second, cfg.UpdateInterval)
	assert.Equal(t, time.Minute, cfg.MaxRouteAge)
}

func TestReadCentralConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nodes:
  - id: sat-1
  - id: sat-2
k_hops: 2
update_interval: 5s
cost_function: quality
`), 0o644))

	cfg, err := ReadCentralConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.KHops)
	assert.Equal(t, 5*time.Second, cfg.UpdateInterval)
	assert.Equal(t, 15*time.Second, cfg.MaxRouteAge)
	assert.Equal(t, "quality", cfg.CostFunction)
	require.Len(t, cfg.Nodes, 2)
	assert.NotNil(t, cfg.GetNode("sat-1"))
	assert.Nil(t, cfg.GetNode("sat-99"))
}

func TestReadCentralConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"duplicate node": `
nodes:
  - id: a
  - id: a
`,
		"bad node id": `
nodes:
  - id: "no spaces"
`,
		"unknown cost function": `
cost_function: fastest
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mesh.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := ReadCentralConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestCentralConfigValidator(t *testing.T) {
	cfg := CentralCfg{}
	cfg.ApplyDefaults()
	assert.NoError(t, CentralConfigValidator(&cfg))

	bad := cfg
	bad.KHops = 0
	assert.Error(t, CentralConfigValidator(&bad))

	bad = cfg
	bad.MaxRouteAge = 0
	assert.Error(t, CentralConfigValidator(&bad))
}
