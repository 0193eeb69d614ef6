package gravtree

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	table := []struct {
		kind Kind
		exp  string
	}{
		{InvalidInput, "InvalidInput"},
		{IOError, "IOError"},
		{DegenerateGeometry, "DegenerateGeometry"},
		{InternalInvariant, "InternalInvariant"},
		{Kind(17), "Kind(17)"},
	}

	for _, test := range table {
		assert.Equal(t, test.exp, test.kind.String())
		assert.Equal(t, test.exp, test.kind.Error())
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{
		Kind: DegenerateGeometry, Op: "tree.Insert", Particle: 3, Step: 12,
		Err: fmt.Errorf("same position"),
	}
	assert.Equal(t,
		"DegenerateGeometry in tree.Insert at step 12 for particle 3: "+
			"same position", err.Error())

	err = &Error{Kind: IOError, Particle: -1, Step: -1}
	assert.Equal(t, "IOError", err.Error())
}

func TestErrorsIs(t *testing.T) {
	err := Errorf(DegenerateGeometry, "particles %d and %d overlap", 1, 2)
	assert.True(t, errors.Is(err, DegenerateGeometry))
	assert.False(t, errors.Is(err, InvalidInput))

	wrapped := fmt.Errorf("step failed: %w", err)
	assert.True(t, errors.Is(wrapped, DegenerateGeometry))

	var e *Error
	require.True(t, errors.As(wrapped, &e))
	assert.Equal(t, -1, e.Particle)
	assert.Equal(t, -1, e.Step)
	assert.Equal(t, "particles 1 and 2 overlap", e.Err.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(IOError, "op", nil))

	err := Wrap(IOError, "io.Read", io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, IOError))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	// Existing kinds and ops are kept.
	inner := Errorf(InvalidInput, "bad size")
	err = Wrap(IOError, "io.ReadParticles", inner)
	assert.True(t, errors.Is(err, InvalidInput))
	assert.False(t, errors.Is(err, IOError))
	err = Wrap(IOError, "outer", err)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "io.ReadParticles", e.Op)
}

func TestAt(t *testing.T) {
	assert.Nil(t, At(nil, 1, 2))

	err := At(Errorf(InvalidInput, "x"), 4, 9)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 4, e.Step)
	assert.Equal(t, 9, e.Particle)

	// Known values aren't overwritten.
	err = At(&Error{Kind: DegenerateGeometry, Particle: 2, Step: -1}, 5, -1)
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 5, e.Step)
	assert.Equal(t, 2, e.Particle)

	err = At(fmt.Errorf("mystery"), 1, 1)
	assert.True(t, errors.Is(err, InternalInvariant))
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(Errorf(IOError, "x"))
	assert.True(t, ok)
	assert.Equal(t, IOError, k)

	k, ok = KindOf(fmt.Errorf("wrapped: %w", DegenerateGeometry))
	assert.True(t, ok)
	assert.Equal(t, DegenerateGeometry, k)

	_, ok = KindOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}
