package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	sim "github.com/AugustRoad/K-V-Cache-Memory-Manager/sim"
)

// scenarioFile mirrors the on-disk YAML scenario layout.
type scenarioFile struct {
	Name  string `yaml:"name"`
	Cache struct {
		NumBlocks int    `yaml:"num_blocks"`
		BlockSize int    `yaml:"block_size"`
		NumLayers int    `yaml:"num_layers"`
		NumHeads  int    `yaml:"num_heads"`
		HeadSize  int    `yaml:"head_size"`
		Device    string `yaml:"device"`
	} `yaml:"cache"`
	Steps []scenarioStep `yaml:"steps"`
}

// scenarioStep is one YAML step entry.
type scenarioStep struct {
	Op        string `yaml:"op"`
	Sequence  string `yaml:"sequence"`
	Tokens    int    `yaml:"tokens"`
	ExpectOOM bool   `yaml:"expect_oom"`
}

// LoadScenario reads and validates a YAML scenario file. Append steps
// that omit a sequence name get a fresh anonymous sequence per step.
func LoadScenario(path string) (sim.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Scenario{}, fmt.Errorf("reading scenario file: %w", err)
	}
	var sf scenarioFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return sim.Scenario{}, fmt.Errorf("parsing scenario file: %w", err)
	}

	sc := sim.Scenario{
		Name: sf.Name,
		Cache: sim.CacheConfig{
			NumBlocks: sf.Cache.NumBlocks,
			BlockSize: sf.Cache.BlockSize,
			NumLayers: sf.Cache.NumLayers,
			NumHeads:  sf.Cache.NumHeads,
			HeadSize:  sf.Cache.HeadSize,
			Device:    sf.Cache.Device,
		},
	}
	for i, st := range sf.Steps {
		op := sim.StepOp(st.Op)
		switch op {
		case sim.OpAppend, sim.OpFree, sim.OpLookup, sim.OpStatus:
		default:
			return sim.Scenario{}, fmt.Errorf("step %d: unknown op %q", i, st.Op)
		}
		if st.Sequence == "" && op != sim.OpStatus {
			if op != sim.OpAppend {
				return sim.Scenario{}, fmt.Errorf("step %d: %s requires a sequence name", i, st.Op)
			}
			st.Sequence = uuid.NewString()
		}
		if st.Tokens < 0 {
			return sim.Scenario{}, fmt.Errorf("step %d: tokens must be >= 0, got %d", i, st.Tokens)
		}
		if st.ExpectOOM && op != sim.OpAppend {
			return sim.Scenario{}, fmt.Errorf("step %d: expect_oom only applies to append", i)
		}
		sc.Steps = append(sc.Steps, sim.Step{
			Op:        op,
			Sequence:  st.Sequence,
			Tokens:    st.Tokens,
			ExpectOOM: st.ExpectOOM,
		})
	}
	return sc, nil
}
