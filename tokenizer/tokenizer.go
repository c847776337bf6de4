// Package tokenizer defines the tokenizer contract, plus a
// slash-delimited reference tokenizer that exercises the contract
// (spec §4.8). No other package in this module calls it.
package tokenizer

// Token is one unit a Tokenizer emits: a running position index, the
// byte offsets into the source string the token was taken from, and the
// token text itself.
type Token struct {
	Position int
	From     int
	To       int
	Text     string
}

// TokenStream is the finite, non-restartable lazy sequence a Tokenizer
// produces for one input string (spec §9 "Lazy sequences").
type TokenStream interface {
	// Advance moves to the next token, returning false once exhausted.
	Advance() bool
	// Token returns the token Advance most recently produced.
	Token() Token
}

// Tokenizer converts a string into a TokenStream. A Tokenizer must be
// reusable across inputs: calling Tokenize again starts a fresh stream.
type Tokenizer interface {
	Tokenize(text string) TokenStream
}
