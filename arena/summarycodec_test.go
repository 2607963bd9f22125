package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-e-b/SArA/memory"
)

func TestSummaryCodecRoundTrip(t *testing.T) {
	store := memory.NewStore(mega)
	a, err := New(store, 0, mega)
	require.NoError(t, err)

	_, err = a.Alloc(12345)
	require.NoError(t, err)
	_, err = a.Alloc(Size)
	require.NoError(t, err)

	want := a.State()
	data, err := EncodeSummary(want)
	require.NoError(t, err)

	got, err := DecodeSummary(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSummaryEncodingIsDeterministic(t *testing.T) {
	s := Summary{
		AllocatedBytes:         100,
		UnallocatedBytes:       200,
		OccupiedArenas:         1,
		EmptyArenas:            2,
		TotalReferenceCount:    3,
		LargestContiguousBlock: Size,
	}
	a, err := EncodeSummary(s)
	require.NoError(t, err)
	b, err := EncodeSummary(s)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeSummaryRejectsGarbage(t *testing.T) {
	_, err := DecodeSummary([]byte{0xff, 0x00, 0x13})
	assert.Error(t, err)
}
