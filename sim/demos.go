package sim

// Built-in demo scenarios. These are the canonical walkthroughs of the
// paged design; `kvsim run` executes all three when no scenario file is
// given.

// DemoSimpleRun follows a single request's life: append tokens, inspect
// the logical-to-physical mapping at the block boundaries, release.
func DemoSimpleRun() Scenario {
	return Scenario{
		Name: "simple run",
		Cache: CacheConfig{
			NumBlocks: 100, BlockSize: 16,
			NumLayers: 4, NumHeads: 8, HeadSize: 64,
		},
		Steps: []Step{
			{Op: OpAppend, Sequence: "seq_A", Tokens: 30},
			{Op: OpLookup, Sequence: "seq_A", Tokens: 0},
			{Op: OpLookup, Sequence: "seq_A", Tokens: 15},
			{Op: OpLookup, Sequence: "seq_A", Tokens: 16},
			{Op: OpLookup, Sequence: "seq_A", Tokens: 29},
			{Op: OpStatus},
			{Op: OpFree, Sequence: "seq_A"},
			{Op: OpStatus},
		},
	}
}

// DemoFragmentation shows non-contiguous free capacity satisfying a
// request a contiguous allocator would reject: two sequences fill 80 of
// 100 blocks, a third needs 30 and is rejected with 20 free, then
// completes after seq_1's scattered blocks return to the pool. The
// retry appends only the remainder, since blocks acquired before the
// rejection stay owned.
func DemoFragmentation() Scenario {
	return Scenario{
		Name: "fragmentation",
		Cache: CacheConfig{
			NumBlocks: 100, BlockSize: 16,
			NumLayers: 4, NumHeads: 8, HeadSize: 64,
		},
		Steps: []Step{
			{Op: OpAppend, Sequence: "seq_1", Tokens: 640}, // 40 blocks
			{Op: OpAppend, Sequence: "seq_2", Tokens: 640}, // 40 blocks
			{Op: OpStatus},
			// needs 30 blocks, only 20 free: rejected after 320 tokens
			{Op: OpAppend, Sequence: "seq_3", Tokens: 480, ExpectOOM: true},
			{Op: OpFree, Sequence: "seq_1"},
			// remaining 160 tokens now fit in the freed capacity
			{Op: OpAppend, Sequence: "seq_3", Tokens: 160},
			{Op: OpStatus},
		},
	}
}

// DemoHighUtilization packs five variably sized sequences to 98% pool
// utilization, retires two, and admits two more into the freed space.
func DemoHighUtilization() Scenario {
	return Scenario{
		Name: "high utilization",
		Cache: CacheConfig{
			NumBlocks: 50, BlockSize: 16,
			NumLayers: 4, NumHeads: 8, HeadSize: 64,
		},
		Steps: []Step{
			{Op: OpAppend, Sequence: "req_1", Tokens: 160}, // 10 blocks
			{Op: OpAppend, Sequence: "req_2", Tokens: 80},  // 5 blocks
			{Op: OpAppend, Sequence: "req_3", Tokens: 240}, // 15 blocks
			{Op: OpAppend, Sequence: "req_4", Tokens: 128}, // 8 blocks
			{Op: OpAppend, Sequence: "req_5", Tokens: 176}, // 11 blocks
			{Op: OpStatus},
			{Op: OpFree, Sequence: "req_1"},
			{Op: OpFree, Sequence: "req_3"},
			{Op: OpAppend, Sequence: "req_6", Tokens: 192}, // 12 blocks
			{Op: OpAppend, Sequence: "req_7", Tokens: 208}, // 13 blocks
			{Op: OpStatus},
		},
	}
}
