package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   any
		want    Key
		wantErr bool
	}{
		{name: "int", input: 7, want: "7"},
		{name: "string", input: "7", want: "7"},
		{name: "int64", input: int64(2621234), want: "2621234"},
		{name: "uint16", input: uint16(42), want: "42"},
		{name: "integral float", input: 7.0, want: "7"},
		{name: "integral float32", input: float32(100100), want: "100100"},
		{name: "float string", input: "7.0", want: "7"},
		{name: "padded string", input: " 07 ", want: "7"},
		{name: "plus sign", input: "+7", want: "7"},
		{name: "negative", input: "-3", want: "-3"},
		{name: "key passthrough", input: Key("0012"), want: "12"},
		{name: "fractional float", input: 7.5, wantErr: true},
		{name: "fractional string", input: "7.5", wantErr: true},
		{name: "word", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "nan string", input: "NaN", wantErr: true},
		{name: "unsupported type", input: []int{7}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := KeyOf(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyOf_NumberAndStringAgree(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 7, 99, 1024, 100100, 2621234, 16776415} {
		fromInt := MustKey(n)
		fromString := MustKey(KeyFromInt(n).String())
		fromFloat := MustKey(float64(n))

		assert.Equal(t, fromInt, fromString, "int vs string for %d", n)
		assert.Equal(t, fromInt, fromFloat, "int vs float for %d", n)
		assert.NotContains(t, string(fromFloat), ".", "float artifact for %d", n)
	}
}

func TestKey_Int(t *testing.T) {
	t.Parallel()

	n, err := Key("2621234").Int()
	require.NoError(t, err)
	assert.Equal(t, 2621234, n)

	_, err = Key("x").Int()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSortKeys(t *testing.T) {
	t.Parallel()

	keys := []Key{"10", "9", "100", "1"}
	SortKeys(keys)
	assert.Equal(t, []Key{"1", "9", "10", "100"}, keys)
}

func TestExcess(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Excess(0))
	assert.Equal(t, 0, Excess(MaxContacts))
	assert.Equal(t, 1, Excess(MaxContacts+1))
	assert.Equal(t, 976, Excess(2000))
}

func TestNewChannel_Defaults(t *testing.T) {
	t.Parallel()

	ch := NewChannel(3)
	assert.Equal(t, 3, ch.ChannelNumber)
	assert.Equal(t, "None", ch.Contact)
	assert.Equal(t, "Master", ch.Squelch)
	assert.Equal(t, "Master", ch.Power)
	assert.Equal(t, "180", ch.TOT)
	assert.Empty(t, ch.RxTone)
	assert.Equal(t, Key("3"), ch.Key())
}
