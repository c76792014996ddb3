package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_DemoFragmentation(t *testing.T) {
	runner, err := NewRunner(DemoFragmentation())
	require.NoError(t, err)
	require.NoError(t, runner.Run())

	m := runner.Metrics()
	assert.Equal(t, 1, m.RejectedAppends)
	assert.Equal(t, 3, m.SequencesCreated)
	assert.Equal(t, 1, m.SequencesFreed)
	assert.Equal(t, 100, m.PeakAllocated)
	// seq_3's rejected append still applied 320 tokens (20 blocks)
	// before the pool ran dry; they count alongside 640+640+160
	assert.Equal(t, 1760, m.TokensAppended)

	// seq_2 (40 blocks) and seq_3 (30 blocks) remain live
	assert.Equal(t, 30, runner.Pool().FreeBlockCount())

	require.Len(t, runner.Snapshots(), 2)
	final := runner.Snapshots()[1]
	require.Len(t, final.Sequences, 2)
	assert.Equal(t, "seq_2", final.Sequences[0].ID)
	assert.Equal(t, "seq_3", final.Sequences[1].ID)
	assert.Equal(t, 480, final.Sequences[1].Tokens)
	assert.Equal(t, 30, final.Sequences[1].Blocks)
}

func TestRunner_DemoSimpleRun(t *testing.T) {
	runner, err := NewRunner(DemoSimpleRun())
	require.NoError(t, err)
	require.NoError(t, runner.Run())

	assert.Equal(t, 100, runner.Pool().FreeBlockCount())
	snaps := runner.Snapshots()
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[0].Sequences, 1)
	assert.Empty(t, snaps[1].Sequences)
}

func TestRunner_DemoHighUtilization(t *testing.T) {
	runner, err := NewRunner(DemoHighUtilization())
	require.NoError(t, err)
	require.NoError(t, runner.Run())

	m := runner.Metrics()
	assert.Equal(t, 7, m.SequencesCreated)
	assert.Equal(t, 2, m.SequencesFreed)
	assert.Zero(t, m.RejectedAppends)

	// 5 + 8 + 11 + 12 + 13 blocks live out of 50
	assert.Equal(t, 1, runner.Pool().FreeBlockCount())
}

func TestRunner_InvalidCacheConfig(t *testing.T) {
	_, err := NewRunner(Scenario{Name: "bad", Cache: CacheConfig{}})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunner_UnknownSequenceFreeFails(t *testing.T) {
	runner, err := NewRunner(Scenario{
		Name:  "bad free",
		Cache: testConfig(10, 4),
		Steps: []Step{{Op: OpFree, Sequence: "ghost"}},
	})
	require.NoError(t, err)
	err = runner.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sequence")
}

func TestRunner_ExpectOOMButSucceeds(t *testing.T) {
	runner, err := NewRunner(Scenario{
		Name:  "misdeclared",
		Cache: testConfig(10, 4),
		Steps: []Step{{Op: OpAppend, Sequence: "a", Tokens: 4, ExpectOOM: true}},
	})
	require.NoError(t, err)
	err = runner.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected pool exhaustion")
}

func TestRunner_UnexpectedOOMAborts(t *testing.T) {
	runner, err := NewRunner(Scenario{
		Name:  "overflow",
		Cache: testConfig(2, 4),
		Steps: []Step{{Op: OpAppend, Sequence: "a", Tokens: 100}},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, runner.Run(), ErrOutOfMemory)
}

func TestRunner_MetricsCountBlocks(t *testing.T) {
	runner, err := NewRunner(Scenario{
		Name:  "counting",
		Cache: testConfig(10, 4),
		Steps: []Step{
			{Op: OpAppend, Sequence: "a", Tokens: 10}, // 3 blocks
			{Op: OpAppend, Sequence: "b", Tokens: 4},  // 1 block
			{Op: OpFree, Sequence: "a"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, runner.Run())

	m := runner.Metrics()
	assert.Equal(t, 3, m.StepsExecuted)
	assert.Equal(t, 14, m.TokensAppended)
	assert.Equal(t, 4, m.BlocksAllocated)
	assert.Equal(t, 3, m.BlocksFreed)
	assert.Equal(t, 4, m.PeakAllocated)
}
