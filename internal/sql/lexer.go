package sql

import (
	"strings"
	"unicode"

	"github.com/briarql/briarql/internal/dberrors"
)

// tokenize scans an entire query into a token slice up front (ported from
// original_source/src/lexer.py's ply.lex token stream), matching the
// teacher's tokenize-then-descend shape from internal/parser/where.go.
func tokenize(query string) ([]Token, error) {
	var tokens []Token
	runes := []rune(query)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == ',':
			tokens = append(tokens, Token{Kind: TokenComma, Text: ",", Pos: i})
			i++
		case c == '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Text: "(", Pos: i})
			i++
		case c == ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Text: ")", Pos: i})
			i++
		case c == '=':
			tokens = append(tokens, Token{Kind: TokenEquals, Text: "=", Pos: i})
			i++
		case c == '*':
			tokens = append(tokens, Token{Kind: TokenStar, Text: "*", Pos: i})
			i++

		case c == '\'':
			start := i
			i++
			var sb strings.Builder
			closed := false
			for i < len(runes) {
				if runes[i] == '\'' {
					closed = true
					i++
					break
				}
				sb.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, dberrors.New(dberrors.Syntax, "unterminated string literal starting at position %d", start)
			}
			tokens = append(tokens, Token{Kind: TokenString, Text: sb.String(), Pos: start})

		case unicode.IsDigit(c):
			start := i
			var sb strings.Builder
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				sb.WriteRune(runes[i])
				i++
			}
			var v int64
			for _, d := range sb.String() {
				v = v*10 + int64(d-'0')
			}
			tokens = append(tokens, Token{Kind: TokenInteger, Text: sb.String(), Int: v, Pos: start})

		case isIdentStart(c):
			start := i
			var sb strings.Builder
			for i < len(runes) && isIdentPart(runes[i]) {
				sb.WriteRune(runes[i])
				i++
			}
			word := sb.String()
			if kw, ok := keywords[strings.ToLower(word)]; ok {
				tokens = append(tokens, Token{Kind: kw, Text: word, Pos: start})
			} else {
				tokens = append(tokens, Token{Kind: TokenIdentifier, Text: word, Pos: start})
			}

		default:
			return nil, dberrors.New(dberrors.Syntax, "illegal character %q at position %d", c, i)
		}
	}
	tokens = append(tokens, Token{Kind: TokenEOF, Text: "", Pos: len(runes)})
	return tokens, nil
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
