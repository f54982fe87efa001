package queue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSize(t *testing.T) {
	for i := 0; i <= 33; i++ {
		name := fmt.Sprintf("%d elements", i)
		t.Run(name, func(t *testing.T) {
			size := computeSize(i)
			require.GreaterOrEqual(t, size, minSize)
			require.Equal(t, 0, size&(size+1), "expected 2^n-1, got %b", size)
			require.GreaterOrEqual(t, size, i)
			if size > minSize {
				require.Less(t, size>>1, i)
			}
		})
	}
}

func TestNewEmpty(t *testing.T) {
	q := New[int]()
	require.True(t, q.IsEmpty())
	_, ok := q.First()
	require.False(t, ok)
}

func TestNewPrefilled(t *testing.T) {
	q := New[int](1, 2, 3)
	require.False(t, q.IsEmpty())

	for _, want := range []int{1, 2, 3} {
		got, ok := q.First()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	require.True(t, q.IsEmpty())
}

func TestAppendThenFirstIsFIFO(t *testing.T) {
	q := New[string]()
	q.Append("a").Append("b").Append("c")

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.First()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	require.True(t, q.IsEmpty())
}

func TestAppendGrowsPastInitialCapacity(t *testing.T) {
	q := New[int]()
	const n = 64
	for i := 0; i < n; i++ {
		q.Append(i)
	}
	for i := 0; i < n; i++ {
		got, ok := q.First()
		require.True(t, ok)
		require.Equal(t, i, got)
	}
	require.True(t, q.IsEmpty())
}

func TestFirstZeroesDrainedSlot(t *testing.T) {
	q := New[int](1, 2)
	q.First()
	require.Zero(t, q.items[0])
}

func TestInterleavedAppendAndFirst(t *testing.T) {
	q := New[int]()
	q.Append(1)
	q.Append(2)
	v, _ := q.First()
	require.Equal(t, 1, v)
	q.Append(3)
	q.Append(4)

	var got []int
	for !q.IsEmpty() {
		v, _ := q.First()
		got = append(got, v)
	}
	require.Equal(t, []int{2, 3, 4}, got)
}
