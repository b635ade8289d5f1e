package syntax

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"sysmlkit/internal/source"
)

// Reporter is a thin callback so the scanner does not depend on the
// diagnostics layer; the caller formats and collects.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

// Options configures a Scanner.
type Options struct {
	// Reporter may be nil, in which case lexical errors are dropped and
	// scanning continues.
	Reporter Reporter
	// Interner, when set, canonicalizes identifier text so equal names
	// across files share one backing string.
	Interner *source.Interner
}

// Scanner produces the token stream for one file. Positions are 0-indexed
// line/column pairs; columns count runes.
type Scanner struct {
	file *source.File
	opts Options

	off  int
	line uint32
	col  uint32

	look *Token // 1-token lookahead buffer
}

// NewScanner creates a scanner over file.
func NewScanner(file *source.File, opts Options) *Scanner {
	return &Scanner{file: file, opts: opts}
}

func (sc *Scanner) report(kind string, sp source.Span, msg string) {
	if sc.opts.Reporter != nil {
		sc.opts.Reporter.Report(kind, sp, msg)
	}
}

func (sc *Scanner) eof() bool { return sc.off >= len(sc.file.Content) }

func (sc *Scanner) peekByte() byte {
	if sc.eof() {
		return 0
	}
	return sc.file.Content[sc.off]
}

func (sc *Scanner) peekByteAt(n int) byte {
	if sc.off+n >= len(sc.file.Content) {
		return 0
	}
	return sc.file.Content[sc.off+n]
}

func (sc *Scanner) peekRune() (rune, int) {
	if sc.eof() {
		return 0, 0
	}
	return utf8.DecodeRune(sc.file.Content[sc.off:])
}

// bump advances over one rune, maintaining the line/column counters.
func (sc *Scanner) bump() rune {
	r, size := sc.peekRune()
	if size == 0 {
		return 0
	}
	sc.off += size
	if r == '\n' {
		sc.line++
		sc.col = 0
	} else {
		sc.col++
	}
	return r
}

func (sc *Scanner) pos() source.LineCol {
	return source.LineCol{Line: sc.line, Col: sc.col}
}

func (sc *Scanner) spanFrom(start source.LineCol) source.Span {
	return source.Span{File: sc.file.ID, Start: start, End: sc.pos()}
}

// Peek returns the next significant token without consuming it.
func (sc *Scanner) Peek() Token {
	t := sc.Next()
	sc.look = &t
	return t
}

// Next returns the next significant token. Line comments are skipped; block
// comments are returned as BlockComment tokens so callers can attach doc
// bodies. After EOF it always returns EOF.
func (sc *Scanner) Next() Token {
	if sc.look != nil {
		tok := *sc.look
		sc.look = nil
		return tok
	}

	sc.skipTrivia()
	start := sc.pos()

	if sc.eof() {
		return Token{Kind: EOF, Span: sc.spanFrom(start)}
	}

	ch := sc.peekByte()
	switch {
	case ch == '/' && sc.peekByteAt(1) == '*':
		return sc.scanBlockComment(start)
	case ch == '\'':
		return sc.scanQuotedName(start)
	case ch == '"':
		return sc.scanString(start)
	case isIdentStartByte(ch) || ch >= utf8.RuneSelf:
		return sc.scanIdentOrKeyword(start)
	case isDec(ch):
		return sc.scanNumber(start)
	default:
		return sc.scanOperatorOrPunct(start)
	}
}

// skipTrivia consumes whitespace and line comments.
func (sc *Scanner) skipTrivia() {
	for !sc.eof() {
		ch := sc.peekByte()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			sc.bump()
		case ch == '/' && sc.peekByteAt(1) == '/':
			for !sc.eof() && sc.peekByte() != '\n' {
				sc.bump()
			}
		default:
			return
		}
	}
}

func (sc *Scanner) scanIdentOrKeyword(start source.LineCol) Token {
	from := sc.off
	for !sc.eof() {
		r, _ := sc.peekRune()
		if r < utf8.RuneSelf {
			if !isIdentContinueByte(byte(r)) {
				break
			}
		} else if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		sc.bump()
	}

	if sc.off == from {
		// A non-ASCII byte that is not an identifier rune; consume it so the
		// scanner always makes progress.
		sc.bump()
		return Token{Kind: Invalid, Span: sc.spanFrom(start), Text: string(sc.file.Content[from:sc.off])}
	}

	text := string(sc.file.Content[from:sc.off])
	if !norm.NFC.IsNormalString(text) {
		text = norm.NFC.String(text)
	}

	sp := sc.spanFrom(start)
	if k, ok := LookupKeyword(text); ok {
		return Token{Kind: k, Span: sp, Text: text}
	}
	return Token{Kind: Ident, Span: sp, Text: sc.canon(text)}
}

// scanQuotedName scans an 'unrestricted name'; the quotes are stripped and
// the token comes back as an ordinary Ident.
func (sc *Scanner) scanQuotedName(start source.LineCol) Token {
	sc.bump() // opening quote
	var buf []byte
	for {
		if sc.eof() || sc.peekByte() == '\n' {
			sp := sc.spanFrom(start)
			sc.report("unterminated-name", sp, "unterminated quoted name")
			return Token{Kind: Invalid, Span: sp, Text: string(buf)}
		}
		ch := sc.peekByte()
		if ch == '\'' {
			sc.bump()
			break
		}
		if ch == '\\' && (sc.peekByteAt(1) == '\'' || sc.peekByteAt(1) == '\\') {
			sc.bump()
		}
		buf = utf8.AppendRune(buf, sc.bump())
	}

	text := string(buf)
	if !norm.NFC.IsNormalString(text) {
		text = norm.NFC.String(text)
	}
	return Token{Kind: Ident, Span: sc.spanFrom(start), Text: sc.canon(text)}
}

func (sc *Scanner) scanString(start source.LineCol) Token {
	sc.bump() // opening quote
	from := sc.off
	for {
		if sc.eof() {
			sp := sc.spanFrom(start)
			sc.report("unterminated-string", sp, "unterminated string literal")
			return Token{Kind: Invalid, Span: sp, Text: string(sc.file.Content[from:sc.off])}
		}
		ch := sc.peekByte()
		if ch == '"' {
			text := string(sc.file.Content[from:sc.off])
			sc.bump()
			return Token{Kind: String, Span: sc.spanFrom(start), Text: text}
		}
		if ch == '\\' && sc.peekByteAt(1) != 0 {
			sc.bump()
		}
		sc.bump()
	}
}

func (sc *Scanner) scanNumber(start source.LineCol) Token {
	from := sc.off
	for !sc.eof() {
		ch := sc.peekByte()
		if !isDec(ch) && ch != '.' && ch != 'e' && ch != 'E' && ch != '+' && ch != '-' && ch != '_' {
			break
		}
		// A '.' only belongs to the number when a digit follows; otherwise it
		// is a feature-chain dot.
		if ch == '.' && !isDec(sc.peekByteAt(1)) {
			break
		}
		if (ch == '+' || ch == '-') && !isExponentTail(sc.file.Content[from:sc.off]) {
			break
		}
		sc.bump()
	}
	return Token{Kind: Number, Span: sc.spanFrom(start), Text: string(sc.file.Content[from:sc.off])}
}

func (sc *Scanner) scanBlockComment(start source.LineCol) Token {
	sc.bump() // '/'
	sc.bump() // '*'
	from := sc.off
	depth := 1
	for {
		if sc.eof() {
			sp := sc.spanFrom(start)
			sc.report("unterminated-comment", sp, "unterminated block comment")
			return Token{Kind: BlockComment, Span: sp, Text: string(sc.file.Content[from:sc.off])}
		}
		if sc.peekByte() == '*' && sc.peekByteAt(1) == '/' {
			depth--
			if depth == 0 {
				text := string(sc.file.Content[from:sc.off])
				sc.bump()
				sc.bump()
				return Token{Kind: BlockComment, Span: sc.spanFrom(start), Text: text}
			}
			sc.bump()
			sc.bump()
			continue
		}
		if sc.peekByte() == '/' && sc.peekByteAt(1) == '*' {
			depth++
			sc.bump()
			sc.bump()
			continue
		}
		sc.bump()
	}
}

func (sc *Scanner) scanOperatorOrPunct(start source.LineCol) Token {
	ch := sc.bump()
	sp := func() source.Span { return sc.spanFrom(start) }

	switch ch {
	case '{':
		return Token{Kind: LBrace, Span: sp(), Text: "{"}
	case '}':
		return Token{Kind: RBrace, Span: sp(), Text: "}"}
	case '(':
		return Token{Kind: LParen, Span: sp(), Text: "("}
	case ')':
		return Token{Kind: RParen, Span: sp(), Text: ")"}
	case '[':
		return Token{Kind: LBracket, Span: sp(), Text: "["}
	case ']':
		return Token{Kind: RBracket, Span: sp(), Text: "]"}
	case ';':
		return Token{Kind: Semi, Span: sp(), Text: ";"}
	case ',':
		return Token{Kind: Comma, Span: sp(), Text: ","}
	case '.':
		return Token{Kind: Dot, Span: sp(), Text: "."}
	case '*':
		return Token{Kind: Star, Span: sp(), Text: "*"}
	case '<':
		return Token{Kind: Lt, Span: sp(), Text: "<"}
	case '>':
		return Token{Kind: Gt, Span: sp(), Text: ">"}
	case '=':
		return Token{Kind: Eq, Span: sp(), Text: "="}
	case ':':
		if sc.peekByte() == ':' {
			sc.bump()
			return Token{Kind: ColonColon, Span: sp(), Text: "::"}
		}
		if sc.peekByte() == '>' {
			sc.bump()
			if sc.peekByte() == '>' {
				sc.bump()
				return Token{Kind: ColonGtGt, Span: sp(), Text: ":>>"}
			}
			return Token{Kind: ColonGt, Span: sp(), Text: ":>"}
		}
		return Token{Kind: Colon, Span: sp(), Text: ":"}
	default:
		return Token{Kind: Punct, Span: sp(), Text: string(ch)}
	}
}

func (sc *Scanner) canon(text string) string {
	if sc.opts.Interner == nil {
		return text
	}
	return sc.opts.Interner.MustLookup(sc.opts.Interner.Intern(text))
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// isExponentTail reports whether the scanned prefix ends in 'e' or 'E', the
// only position where a sign continues a numeric literal.
func isExponentTail(prefix []byte) bool {
	if len(prefix) == 0 {
		return false
	}
	last := prefix[len(prefix)-1]
	return last == 'e' || last == 'E'
}
