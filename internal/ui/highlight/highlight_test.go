package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("SELECT * FROM users WHERE name = 'ann' LIMIT 10")

	var kinds []Kind
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
		if tok.Kind != Plain {
			kinds = append(kinds, tok.Kind)
		}
	}

	assert.Equal(t, "SELECT * FROM users WHERE name = 'ann' LIMIT 10", b.String())
	assert.Equal(t, []Kind{
		Keyword, Wildcard, Keyword, Identifier, Keyword, Identifier, String, Keyword, Number,
	}, kinds)
}

func TestTokenizeForbidden(t *testing.T) {
	tokens := Tokenize("drop table t")
	assert.Equal(t, Token{Kind: Forbidden, Text: "drop"}, tokens[0])

	// only whole words are flagged here
	tokens = Tokenize("created_at")
	assert.Equal(t, []Token{{Kind: Identifier, Text: "created_at"}}, tokens)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	tokens := Tokenize("SELECT 'abc")
	assert.Equal(t, Token{Kind: String, Text: "'abc"}, tokens[len(tokens)-1])
}

func TestSQL(t *testing.T) {
	out := SQL("SELECT 1")
	assert.Equal(t, fgCyan+"SELECT"+fgReset+" "+fgPurple+"1"+fgReset, out)
	assert.Equal(t, "", SQL(""))
}
