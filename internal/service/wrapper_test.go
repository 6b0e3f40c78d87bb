package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFenceStripper(t *testing.T) {
	s := NewFenceStripper()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"upper json fence", "```JSON\n{}\n```", "{}"},
		{"bare fence", "```\n[]\n```", "[]"},
		{"surrounding whitespace", "  \n```json\n[3]\n```\n ", "[3]"},
		{"no fence", `[{"title":"x"}]`, `[{"title":"x"}]`},
		{"unterminated fence", "```json\n[1]", "```json\n[1]"},
		{"too short", "``````", ""},
		{"text around fence", "Here you go: ```json [1] ```", "Here you go: ```json [1] ```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Strip(tt.in))
		})
	}
}

func TestOffsetStripper(t *testing.T) {
	s := OffsetStripper{Prefix: 6, Suffix: 6}

	assert.Equal(t, `{"a":1}`, s.Strip(`prefix{"a":1}suffix`))
	assert.Equal(t, "", s.Strip("prefixsuffix"))
	assert.Equal(t, "", s.Strip("short"))
	assert.Equal(t, "abc", OffsetStripper{}.Strip("abc"))
}

func TestNoopStripper(t *testing.T) {
	assert.Equal(t, " ```x``` ", NoopStripper{}.Strip(" ```x``` "))
}

func TestNewStripper(t *testing.T) {
	s, err := NewStripper("", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, FenceStripper{}, s)

	s, err = NewStripper("FENCE", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, FenceStripper{}, s)

	s, err = NewStripper(WrapperOffset, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, OffsetStripper{Prefix: 7, Suffix: 3}, s)

	s, err = NewStripper(WrapperNone, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, NoopStripper{}, s)

	_, err = NewStripper(WrapperOffset, -1, 0)
	assert.Error(t, err)

	_, err = NewStripper("xml", 0, 0)
	assert.ErrorContains(t, err, `unknown response wrapper "xml"`)
}
