package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage(language.AmericanEnglish)

	assert.Equal("opcode 0xcb", From("opcode 0x%02x", 0xcb))
	assert.Equal("plain", From("plain"))
}
