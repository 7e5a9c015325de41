package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobAnchoredSuffix(t *testing.T) {
	match, err := Glob("*Edwards")
	require.NoError(t, err)

	assert.True(t, match("Jane Edwards"))
	assert.True(t, match("edwards"))
	assert.False(t, match("Edwardsson"))
}

func TestGlobCaseInsensitive(t *testing.T) {
	match, err := Glob("jane*")
	require.NoError(t, err)

	assert.True(t, match("Jane Edwards"))
	assert.True(t, match("JANE"))
	assert.False(t, match("Mary Jane"))
}

func TestGlobQuestionMark(t *testing.T) {
	match, err := Glob("J?ne")
	require.NoError(t, err)

	assert.True(t, match("Jane"))
	assert.True(t, match("June"))
	assert.False(t, match("Janne"))
	assert.False(t, match("Jne"))
}

func TestGlobLiteralRegexMetacharacters(t *testing.T) {
	match, err := Glob("A. Smith (QA)")
	require.NoError(t, err)

	assert.True(t, match("a. smith (qa)"))
	assert.False(t, match("Ax Smith (QA)"))
}

func TestGlobUnicode(t *testing.T) {
	match, err := Glob("*müller")
	require.NoError(t, err)

	assert.True(t, match("Anna Müller"))
	assert.False(t, match("Anna Muller"))
}

func TestGlobRejectsInvalidUTF8(t *testing.T) {
	_, err := Glob("abc\xff")
	assert.ErrorIs(t, err, ErrBadPattern)
}

func TestFilterPeople(t *testing.T) {
	people := []string{"Jane Edwards", "Bob Ross", "Sam Edwards"}

	out, err := FilterPeople(people, "*Edwards")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Edwards", "Sam Edwards"}, out)

	out, err = FilterPeople(people, "")
	require.NoError(t, err)
	assert.Equal(t, people, out)
}
