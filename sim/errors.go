package sim

import "errors"

// Error kinds surfaced by the memory manager. Match with errors.Is;
// every failure is returned wrapped with operation context (offending
// identifier, free count, requested amount) so the caller can decide on
// recovery. The manager never retries internally and never substitutes a
// default value for a failure.
var (
	// ErrInvalidConfig reports non-positive or otherwise unusable
	// construction parameters. Fatal to construction.
	ErrInvalidConfig = errors.New("invalid cache configuration")

	// ErrOutOfMemory reports an exhausted free pool. Recoverable: the
	// caller may retry once other sequences release blocks, or reject
	// the request.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrInvalidBlockID reports a block identifier outside the pool's
	// valid range. Indicates a caller bug.
	ErrInvalidBlockID = errors.New("invalid block id")

	// ErrDoubleFree reports freeing a block that is already free. The
	// pool is left untouched.
	ErrDoubleFree = errors.New("double free")

	// ErrSequenceFreed reports an operation on a sequence that has
	// already released its blocks.
	ErrSequenceFreed = errors.New("sequence already freed")

	// ErrOutOfRange reports a token index or count outside the valid
	// range for the sequence.
	ErrOutOfRange = errors.New("token index out of range")
)
