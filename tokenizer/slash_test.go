package tokenizer_test

import (
	"testing"

	"github.com/nextfts/segreader/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(ts tokenizer.TokenStream) []tokenizer.Token {
	var out []tokenizer.Token
	for ts.Advance() {
		out = append(out, ts.Token())
	}

	return out
}

func TestSlashTokenizerSpecExample(t *testing.T) {
	input := "/home/mochix/.subversion/auth"
	toks := collect(tokenizer.SlashTokenizer{}.Tokenize(input))

	require.Len(t, toks, 4)

	want := []tokenizer.Token{
		{Position: 0, From: 1, To: 5, Text: "home"},
		{Position: 1, From: 6, To: 12, Text: "mochix"},
		{Position: 2, From: 13, To: 24, Text: ".subversion"},
		{Position: 3, From: 25, To: 29, Text: "auth"},
	}
	assert.Equal(t, want, toks)

	for _, tok := range toks {
		assert.Equal(t, tok.Text, input[tok.From:tok.To])
	}
}

func TestSlashTokenizerEmptyAndDelimitersOnly(t *testing.T) {
	assert.Empty(t, collect(tokenizer.SlashTokenizer{}.Tokenize("")))
	assert.Empty(t, collect(tokenizer.SlashTokenizer{}.Tokenize("///")))
}

func TestSlashTokenizerConsecutiveDelimiters(t *testing.T) {
	toks := collect(tokenizer.SlashTokenizer{}.Tokenize("a//b"))
	require.Len(t, toks, 2)
	assert.Equal(t, "a", toks[0].Text)
	assert.Equal(t, "b", toks[1].Text)
}

func TestSlashTokenizerReusable(t *testing.T) {
	tk := tokenizer.SlashTokenizer{}
	first := collect(tk.Tokenize("/a/b"))
	second := collect(tk.Tokenize("/c/d/e"))

	assert.Len(t, first, 2)
	assert.Len(t, second, 3)
}
