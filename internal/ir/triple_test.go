package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	tr := Triple{ID: "id-a", ID1: "id1-a", ID2: "id2-a"}
	assert.Equal(t, "id-a id1-a id2-a", tr.FormatLine())
	assert.Equal(t, tr.FormatLine(), tr.String())
}

func TestParseLineRoundTrip(t *testing.T) {
	tests := []Triple{
		{ID: "id-a", ID1: "id1-a", ID2: "id2-a"},
		NewTriple("focus", "exp_dec"),
		{ID: "x", ID1: "x", ID2: "x"},
	}

	for _, tr := range tests {
		t.Run(tr.ID, func(t *testing.T) {
			parsed, err := ParseLine(tr.FormatLine())
			require.NoError(t, err)
			assert.Equal(t, tr, parsed)
		})
	}
}

func TestParseLineKeepsSpacesInThirdField(t *testing.T) {
	tr, err := ParseLine("id id1 a label with spaces")
	require.NoError(t, err)

	assert.Equal(t, "id", tr.ID)
	assert.Equal(t, "id1", tr.ID1)
	assert.Equal(t, "a label with spaces", tr.ID2)
}

func TestParseLineDropsCarriageReturn(t *testing.T) {
	tr, err := ParseLine("id id1 id2\r")
	require.NoError(t, err)
	assert.Equal(t, "id2", tr.ID2)
}

func TestParseLineMalformed(t *testing.T) {
	for _, line := range []string{"", "only-id", "id id1"} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseLine(line)
			require.Error(t, err)
			assert.True(t, IsMalformedLine(err))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		tr    Triple
		field string
	}{
		{"empty id", Triple{ID1: "a", ID2: "b"}, "id"},
		{"empty id1", Triple{ID: "x", ID2: "b"}, "id1"},
		{"empty id2", Triple{ID: "x", ID1: "a"}, "id2"},
		{"space in id", Triple{ID: "x y", ID1: "a", ID2: "b"}, "id"},
		{"space in id1", Triple{ID: "x", ID1: "a b", ID2: "c"}, "id1"},
		{"newline in id2", Triple{ID: "x", ID1: "a", ID2: "b\nc"}, "id2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tr.Validate()
			require.Error(t, err)
			assert.True(t, IsInvalidTriple(err))

			var it *InvalidTripleError
			require.ErrorAs(t, err, &it)
			assert.Equal(t, tt.field, it.Field)
		})
	}

	assert.NoError(t, Triple{ID: "x", ID1: "a", ID2: "b c"}.Validate(), "spaces are allowed in id2")
}

func TestOtherHalf(t *testing.T) {
	tr := Triple{ID: "id-b", ID1: "id1-b", ID2: "id2-b"}

	other, err := tr.OtherHalf("id1-b")
	require.NoError(t, err)
	assert.Equal(t, "id2-b", other)

	other, err = tr.OtherHalf("id2-b")
	require.NoError(t, err)
	assert.Equal(t, "id1-b", other)

	_, err = tr.OtherHalf("id-b")
	require.Error(t, err)
	assert.True(t, IsInvalidEndpoint(err))
	assert.Contains(t, err.Error(), "id1-b")
}

func TestOtherHalfSelfLoop(t *testing.T) {
	tr := Triple{ID: "n", ID1: "n", ID2: "n"}
	other, err := tr.OtherHalf("n")
	require.NoError(t, err)
	assert.Equal(t, "n", other)
}

func TestIsPairedWith(t *testing.T) {
	tr := Triple{ID: "id-b", ID1: "id1-b", ID2: "id2-b"}

	assert.True(t, tr.IsPairedWith("id1-b"))
	assert.True(t, tr.IsPairedWith("id2-b"))
	assert.False(t, tr.IsPairedWith("id-b"), "the triple id is not an endpoint")
}

func TestEqualityIgnoresEndpoints(t *testing.T) {
	a := Triple{ID: "same", ID1: "a", ID2: "b"}
	b := Triple{ID: "same", ID1: "c", ID2: "d"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.SameEndpoints(b))
	assert.False(t, a.Less(b))
	assert.True(t, Triple{ID: "a"}.Less(Triple{ID: "b"}))
	assert.Equal(t, [3]string{"same", "a", "b"}, a.IDs())
}
