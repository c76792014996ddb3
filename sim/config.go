package sim

import "fmt"

// CacheConfig groups the construction parameters for a paged KV cache.
// NumBlocks and BlockSize drive the allocator; NumLayers, NumHeads,
// HeadSize and Device only size and place the backing CacheStore and are
// never interpreted by the allocation logic.
type CacheConfig struct {
	NumBlocks int    // total physical KV blocks (must be > 0)
	BlockSize int    // tokens per block (must be > 0)
	NumLayers int    // transformer layers (must be > 0)
	NumHeads  int    // attention heads per layer (must be > 0)
	HeadSize  int    // dimension of each head (must be > 0)
	Device    string // storage target, recorded but not interpreted ("cpu" when empty)
}

// Validate checks that every sizing parameter is positive.
func (c CacheConfig) Validate() error {
	if c.NumBlocks <= 0 {
		return fmt.Errorf("%w: NumBlocks must be > 0, got %d", ErrInvalidConfig, c.NumBlocks)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: BlockSize must be > 0, got %d", ErrInvalidConfig, c.BlockSize)
	}
	if c.NumLayers <= 0 {
		return fmt.Errorf("%w: NumLayers must be > 0, got %d", ErrInvalidConfig, c.NumLayers)
	}
	if c.NumHeads <= 0 {
		return fmt.Errorf("%w: NumHeads must be > 0, got %d", ErrInvalidConfig, c.NumHeads)
	}
	if c.HeadSize <= 0 {
		return fmt.Errorf("%w: HeadSize must be > 0, got %d", ErrInvalidConfig, c.HeadSize)
	}
	return nil
}

// withDefaults fills in the defaultable fields.
func (c CacheConfig) withDefaults() CacheConfig {
	if c.Device == "" {
		c.Device = "cpu"
	}
	return c
}
