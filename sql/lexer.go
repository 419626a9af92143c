package sql

import (
	"strings"
)

type TokenType int

const (
	TokIdent TokenType = iota
	TokParam
	TokString
	TokInt
	TokFloat
	TokDecimal
	TokDuration
	TokDatetime

	TokUse
	TokNamespace
	TokDatabase
	TokLet
	TokBegin
	TokCancel
	TokCommit
	TokTransaction
	TokSelect
	TokFrom
	TokWhere
	TokCreate
	TokUpdate
	TokContent
	TokMerge
	TokSet
	TokRelate
	TokDelete
	TokInsert
	TokInto
	TokDefine
	TokRemove
	TokTable
	TokOption
	TokInfo
	TokFor
	TokLive
	TokKill
	TokReturn
	TokAs
	TokAnd
	TokGroup
	TokAll
	TokTrue
	TokFalse
	TokNull
	TokNone
	TokRoot

	TokComma
	TokColon
	TokSemicolon
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokLBrace
	TokRBrace
	TokLess
	TokGreater
	TokEquals
	TokNotEquals
	TokStar
	TokDot
	TokRange
	TokPipe
	TokArrow
	TokEOF
	TokUnknown
)

type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			l.pos++
			continue
		}
		// -- line comment
		if ch == '-' && l.peekAt(1) == '-' {
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		break
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Type: TokEOF, Pos: start}
	}

	ch := l.input[l.pos]

	// d'...' datetime literal
	if (ch == 'd' || ch == 'D') && (l.peekAt(1) == '\'' || l.peekAt(1) == '"') {
		l.pos++
		value := l.readString()
		return Token{Type: TokDatetime, Value: value, Pos: start}
	}

	switch {
	case ch == '\'' || ch == '"':
		return Token{Type: TokString, Value: l.readString(), Pos: start}
	case ch == '$':
		l.pos++
		return Token{Type: TokParam, Value: l.readIdent(), Pos: start}
	case isDigit(ch) || (ch == '-' && isDigit(l.peekAt(1))):
		return l.readNumber(start)
	case isLetter(ch):
		ident := l.readIdent()
		return Token{Type: keywordType(ident), Value: ident, Pos: start}
	}

	l.pos++
	switch ch {
	case ',':
		return Token{Type: TokComma, Value: ",", Pos: start}
	case ':':
		return Token{Type: TokColon, Value: ":", Pos: start}
	case ';':
		return Token{Type: TokSemicolon, Value: ";", Pos: start}
	case '(':
		return Token{Type: TokLParen, Value: "(", Pos: start}
	case ')':
		return Token{Type: TokRParen, Value: ")", Pos: start}
	case '[':
		return Token{Type: TokLBracket, Value: "[", Pos: start}
	case ']':
		return Token{Type: TokRBracket, Value: "]", Pos: start}
	case '{':
		return Token{Type: TokLBrace, Value: "{", Pos: start}
	case '}':
		return Token{Type: TokRBrace, Value: "}", Pos: start}
	case '<':
		return Token{Type: TokLess, Value: "<", Pos: start}
	case '>':
		return Token{Type: TokGreater, Value: ">", Pos: start}
	case '=':
		return Token{Type: TokEquals, Value: "=", Pos: start}
	case '!':
		if l.peek() == '=' {
			l.pos++
			return Token{Type: TokNotEquals, Value: "!=", Pos: start}
		}
	case '-':
		if l.peek() == '>' {
			l.pos++
			return Token{Type: TokArrow, Value: "->", Pos: start}
		}
	case '*':
		return Token{Type: TokStar, Value: "*", Pos: start}
	case '.':
		if l.peek() == '.' {
			l.pos++
			return Token{Type: TokRange, Value: "..", Pos: start}
		}
		return Token{Type: TokDot, Value: ".", Pos: start}
	case '|':
		return Token{Type: TokPipe, Value: "|", Pos: start}
	}

	return Token{Type: TokUnknown, Value: string(ch), Pos: start}
}

// readIdent reads an identifier. Function names may contain :: segments,
// so a double colon is folded into the identifier while a single colon is
// left alone for record ids.
func (l *Lexer) readIdent() string {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isLetter(ch) || isDigit(ch) {
			l.pos++
			continue
		}
		if ch == ':' && l.peekAt(1) == ':' {
			l.pos += 2
			continue
		}
		break
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readString() string {
	quote := l.input[l.pos]
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			next := l.input[l.pos+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(next)
			}
			l.pos += 2
			continue
		}
		if ch == quote {
			l.pos++
			break
		}
		sb.WriteByte(ch)
		l.pos++
	}
	return sb.String()
}

// readNumber reads integers, floats, dec-suffixed decimals and duration
// literals such as 1h30m.
func (l *Lexer) readNumber(start int) Token {
	if l.peek() == '-' {
		l.pos++
	}
	isFloat := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isDigit(ch) {
			l.pos++
			continue
		}
		if ch == '.' && isDigit(l.peekAt(1)) && !isFloat {
			isFloat = true
			l.pos++
			continue
		}
		break
	}

	if l.pos < len(l.input) && isLetter(l.input[l.pos]) {
		suffixStart := l.pos
		for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
			l.pos++
		}
		if l.input[suffixStart:l.pos] == "dec" {
			return Token{Type: TokDecimal, Value: l.input[start:suffixStart], Pos: start}
		}
		return Token{Type: TokDuration, Value: l.input[start:l.pos], Pos: start}
	}

	if isFloat {
		return Token{Type: TokFloat, Value: l.input[start:l.pos], Pos: start}
	}
	return Token{Type: TokInt, Value: l.input[start:l.pos], Pos: start}
}

func keywordType(ident string) TokenType {
	switch strings.ToUpper(ident) {
	case "USE":
		return TokUse
	case "NS", "NAMESPACE":
		return TokNamespace
	case "DB", "DATABASE":
		return TokDatabase
	case "LET":
		return TokLet
	case "BEGIN":
		return TokBegin
	case "CANCEL":
		return TokCancel
	case "COMMIT":
		return TokCommit
	case "TRANSACTION":
		return TokTransaction
	case "SELECT":
		return TokSelect
	case "FROM":
		return TokFrom
	case "WHERE":
		return TokWhere
	case "CREATE":
		return TokCreate
	case "UPDATE":
		return TokUpdate
	case "CONTENT":
		return TokContent
	case "MERGE":
		return TokMerge
	case "SET":
		return TokSet
	case "RELATE":
		return TokRelate
	case "DELETE":
		return TokDelete
	case "INSERT":
		return TokInsert
	case "INTO":
		return TokInto
	case "DEFINE":
		return TokDefine
	case "REMOVE":
		return TokRemove
	case "TABLE":
		return TokTable
	case "OPTION":
		return TokOption
	case "INFO":
		return TokInfo
	case "FOR":
		return TokFor
	case "LIVE":
		return TokLive
	case "KILL":
		return TokKill
	case "RETURN":
		return TokReturn
	case "AS":
		return TokAs
	case "AND":
		return TokAnd
	case "GROUP":
		return TokGroup
	case "ALL":
		return TokAll
	case "TRUE":
		return TokTrue
	case "FALSE":
		return TokFalse
	case "NULL":
		return TokNull
	case "NONE":
		return TokNone
	case "ROOT":
		return TokRoot
	default:
		return TokIdent
	}
}
