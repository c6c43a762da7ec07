package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceTaggerIsStableAndKeyed(t *testing.T) {
	a := NewSourceTagger("one")
	b := NewSourceTagger("two")

	tag := a.Tag("203.0.113.7")
	assert.Len(t, tag, sourceTagLength)
	assert.Equal(t, tag, a.Tag(" 203.0.113.7 "))
	assert.NotEqual(t, tag, a.Tag("203.0.113.8"))
	assert.NotEqual(t, tag, b.Tag("203.0.113.7"))
	assert.Empty(t, a.Tag(""))
}

func TestSourceTaggerAcceptsLongSecrets(t *testing.T) {
	tagger := NewSourceTagger(strings.Repeat("k", 200))
	assert.Len(t, tagger.Tag("203.0.113.7"), sourceTagLength)
}

func TestSanitizeComment(t *testing.T) {
	in := "  Very <script>alert(1)</script>clear\x00 lectures\x07  "
	out := SanitizeComment(&in, 2000)
	if assert.NotNil(t, out) {
		assert.Equal(t, "Very alert(1)clear lectures", *out)
	}

	blank := "  <br/>  "
	assert.Nil(t, SanitizeComment(&blank, 2000))
	assert.Nil(t, SanitizeComment(nil, 2000))

	keepsNewlines := "line one\nline two"
	assert.Equal(t, keepsNewlines, *SanitizeComment(&keepsNewlines, 2000))

	long := strings.Repeat("é", 30)
	assert.Equal(t, strings.Repeat("é", 10), *SanitizeComment(&long, 10))
}
