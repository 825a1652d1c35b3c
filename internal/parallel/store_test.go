package parallel

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/sobel/internal/image"
)

func TestParseDiscipline(t *testing.T) {
	for _, d := range []Discipline{DisciplineDisjoint, DisciplineLocked} {
		got, err := ParseDiscipline(d.String())
		require.NoError(t, err)
		require.Equal(t, d, got)
	}
	got, err := ParseDiscipline("LOCKED")
	require.NoError(t, err)
	require.Equal(t, DisciplineLocked, got)

	_, err = ParseDiscipline("unchecked")
	require.Error(t, err)
}

func TestParseLockGranularity(t *testing.T) {
	for _, g := range []LockGranularity{LockRow, LockPixel} {
		got, err := ParseLockGranularity(g.String())
		require.NoError(t, err)
		require.Equal(t, g, got)
	}
	_, err := ParseLockGranularity("tile")
	require.Error(t, err)
}

func TestNewLockedStore_RejectsNonGray(t *testing.T) {
	buf, _ := image.NewImageBuf(4, 4, image.FormatRGB8)
	_, err := NewLockedStore(buf, LockRow)
	require.Error(t, err)
}

func TestLockedStore_PutRow(t *testing.T) {
	for _, g := range []LockGranularity{LockRow, LockPixel} {
		t.Run(g.String(), func(t *testing.T) {
			out := newGray(t, 5, 4)
			s, err := NewLockedStore(out, g)
			require.NoError(t, err)

			s.Sink(0).PutRow(1, []uint8{10, 20, 30})
			s.Sink(7).PutRow(2, []uint8{40, 50, 60})

			require.Equal(t, []byte{0, 10, 20, 30, 0}, out.RowBytes(1))
			require.Equal(t, []byte{0, 40, 50, 60, 0}, out.RowBytes(2))
			require.Equal(t, []byte{0, 0, 0, 0, 0}, out.RowBytes(0))
			require.Equal(t, []byte{0, 0, 0, 0, 0}, out.RowBytes(3))

			want := int64(2)
			if g == LockPixel {
				want = 6
			}
			require.Equal(t, want, s.Acquisitions())
			require.Equal(t, g, s.Granularity())
		})
	}
}

func TestLockedStore_RejectsBorderRows(t *testing.T) {
	out := newGray(t, 5, 4)
	s, _ := NewLockedStore(out, LockRow)

	for _, row := range []int{0, 3, -1, 10} {
		err := recoverError(func() { s.PutRow(row, []uint8{1, 2, 3}) })
		if !errors.Is(err, ErrForeignRow) {
			t.Errorf("PutRow(%d) panic = %v, want %v", row, err, ErrForeignRow)
		}
	}

	if err := recoverError(func() { s.PutRow(1, []uint8{1, 2}) }); err == nil {
		t.Error("PutRow with short span should panic")
	}
}

// TestLockedStore_OverlappingWriters hammers the same rows from many
// goroutines. The locked discipline must stay memory-safe even when the
// writers are not disjoint.
func TestLockedStore_OverlappingWriters(t *testing.T) {
	out := newGray(t, 66, 10)
	s, _ := NewLockedStore(out, LockPixel)

	span := make([]uint8, 64)
	for i := range span {
		span[i] = 9
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := 1; row <= 8; row++ {
				s.PutRow(row, span)
			}
		}()
	}
	wg.Wait()

	for row := 1; row <= 8; row++ {
		for x, v := range out.RowBytes(row)[1:65] {
			if v != 9 {
				t.Fatalf("row %d col %d = %d, want 9", row, x+1, v)
			}
		}
	}
	require.Equal(t, int64(8*8*64), s.Acquisitions())
}

func TestNewStore(t *testing.T) {
	out := newGray(t, 6, 6)
	p, _ := NewPartition(6, 2)

	s, err := NewStore(DisciplineDisjoint, out, p, LockRow)
	require.NoError(t, err)
	require.IsType(t, Stripes{}, s)

	s, err = NewStore(DisciplineLocked, out, p, LockPixel)
	require.NoError(t, err)
	require.IsType(t, &LockedStore{}, s)

	_, err = NewStore(Discipline(9), out, p, LockRow)
	require.Error(t, err)
}
