// Package saratesting provides shared scaffolding for the SArA test
// suites: logger bring-up, managed store construction and allocator
// drain accounting.
package saratesting

import (
	"fmt"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/i-e-b/SArA/arena"
	"github.com/i-e-b/SArA/memory"
)

type TestContext struct {
	Log   logger.Logger
	Store *memory.Store
	Alloc *arena.Allocator
	T     *testing.T
}

type TestConfig struct {
	// StoreBytes sizes the backing store. Defaults to 10 MiB.
	StoreBytes int64
	// StartBase is the managed range floor inside the store.
	StartBase int64
	// Limit is the managed range ceiling. Defaults to StoreBytes.
	Limit           int64
	TestLabelPrefix string
}

// NewTestContext builds a store and an allocator over it, with a NOOP
// logger labelled by the test prefix and a fresh uuid so interleaved
// runs are distinguishable in any captured output.
func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{T: t}
	logger.New("NOOP")
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	if cfg.StoreBytes == 0 {
		cfg.StoreBytes = 10 * 1024 * 1024
	}
	if cfg.Limit == 0 {
		cfg.Limit = cfg.StoreBytes
	}
	label := fmt.Sprintf("%s-%s", cfg.TestLabelPrefix, uuid.NewString())

	c.Store = memory.NewStore(cfg.StoreBytes)
	var err error
	c.Alloc, err = arena.New(
		c.Store, cfg.StartBase, cfg.Limit,
		arena.WithLogger(c.Log), arena.WithLabel(label))
	require.NoError(t, err)
	return c
}

// RequireDrained asserts that every byte and every reference has been
// returned to the allocator.
func (c *TestContext) RequireDrained() {
	s := c.Alloc.State()
	require.Equal(c.T, int64(0), s.AllocatedBytes, "allocated bytes leaked")
	require.Equal(c.T, int64(0), s.OccupiedArenas, "occupied arenas leaked")
	require.Equal(c.T, int64(0), s.TotalReferenceCount, "references leaked")
}
