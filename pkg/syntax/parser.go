package syntax

import (
	"fmt"

	"github.com/phi-calculus/phinorm/pkg/phi"
)

// ParseError reports a syntax error with its source location.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
}

// Parser is a recursive-descent parser over the φ-syntax grammar: a
// single current token, explicit save/restore backtracking, one
// function per grammar rule.
type Parser struct {
	lex           *Lexer
	allowPatterns bool
}

// NewParser builds a Parser over src. When allowPatterns is true, `!Id`
// meta-variables and `@Name` meta-functions are accepted (rule pattern
// and replacement text); plain programs never contain them.
func NewParser(src string, allowPatterns bool) *Parser {
	return &Parser{lex: NewLexer(src), allowPatterns: allowPatterns}
}

// Parse parses a full term, optionally wrapped in `{ … }`.
func Parse(src string) (phi.Term, error) {
	return NewParser(src, false).ParseTerm()
}

// ParsePattern parses a term that may contain meta-variants.
func ParsePattern(src string) (phi.Term, error) {
	return NewParser(src, true).ParseTerm()
}

func (p *Parser) cur() Token { return p.lex.Current() }

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	if p.cur().Type != tt {
		return Token{}, &ParseError{Pos: p.cur().Pos, Msg: "expected " + what}
	}
	tok := p.cur()
	p.lex.Next()
	return tok, nil
}

// ParseTerm parses a top-level term, unwrapping an optional `{ … }`.
func (p *Parser) ParseTerm() (phi.Term, error) {
	if p.cur().Type == TokenLBrace {
		p.lex.Next()
		t, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRBrace, "'}'"); err != nil {
			return nil, err
		}
		return t, nil
	}
	t, err := p.parseObject()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != TokenEOF {
		return nil, &ParseError{Pos: p.cur().Pos, Msg: "unexpected trailing input"}
	}
	return t, nil
}

// object ::= atom (application | dispatch)*
func (p *Parser) parseObject() (phi.Term, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case TokenLParen:
			p.lex.Next()
			bindings, err := p.parseBindingList(TokenRParen)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenRParen, "')'"); err != nil {
				return nil, err
			}
			left = &phi.Application{Fun: left, Bindings: bindings}
		case TokenDot:
			p.lex.Next()
			attr, err := p.parseAttrName()
			if err != nil {
				return nil, err
			}
			left = &phi.Dispatch{Receiver: left, Attr: attr}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseAtom() (phi.Term, error) {
	switch p.cur().Type {
	case TokenLFormation:
		p.lex.Next()
		bindings, err := p.parseBindingList(TokenRFormation)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRFormation, "'⟧'"); err != nil {
			return nil, err
		}
		if p.allowPatterns {
			return &phi.Formation{Bindings: bindings}, nil
		}
		return phi.NewFormation(bindings, false)
	case TokenGlobal:
		p.lex.Next()
		return phi.Global{}, nil
	case TokenThis:
		p.lex.Next()
		return phi.This{}, nil
	case TokenBottom:
		p.lex.Next()
		return phi.Termination{}, nil
	case TokenMetaID:
		if !p.allowPatterns {
			return nil, &ParseError{Pos: p.cur().Pos, Msg: "meta-variable not allowed outside patterns"}
		}
		id := p.cur().Literal
		p.lex.Next()
		return &phi.MetaObject{ID: id}, nil
	case TokenMetaFunc:
		if !p.allowPatterns {
			return nil, &ParseError{Pos: p.cur().Pos, Msg: "meta-function not allowed outside patterns"}
		}
		name := p.cur().Literal
		p.lex.Next()
		var arg phi.Term
		if p.cur().Type == TokenLParen {
			p.lex.Next()
			t, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			arg = t
			if _, err := p.expect(TokenRParen, "')'"); err != nil {
				return nil, err
			}
		}
		return &phi.MetaFunction{Name: name, Arg: arg}, nil
	default:
		return nil, &ParseError{Pos: p.cur().Pos, Msg: "unexpected token"}
	}
}

// parseBindingList parses a comma-separated binding list up to (not
// consuming) the closing delimiter `end`.
func (p *Parser) parseBindingList(end TokenType) ([]phi.Binding, error) {
	var bindings []phi.Binding
	if p.cur().Type == end {
		return bindings, nil
	}
	for {
		b, err := p.parseBinding()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
		if p.cur().Type == TokenComma {
			p.lex.Next()
			continue
		}
		break
	}
	return bindings, nil
}

func (p *Parser) parseBinding() (phi.Binding, error) {
	if p.allowPatterns && p.cur().Type == TokenMetaID {
		pos, tok := p.lex.save()
		next := p.lex.Next()
		switch {
		case tok.Literal == "" && next.Type == TokenMetaID:
			// `!!id`: a meta-bindings slot.
			p.lex.Next()
			return phi.MetaBindings{ID: next.Literal}, nil
		case next.Type == TokenMapsTo:
			// `!id ↦ …`: a binding under a meta-attribute.
			p.lex.restore(pos, tok)
		default:
			return phi.MetaBindings{ID: tok.Literal}, nil
		}
	}
	if p.cur().Type == TokenDeltaTag {
		p.lex.Next()
		if p.cur().Type != TokenCarries {
			return nil, &ParseError{Pos: p.cur().Pos, Msg: "expected '⤍'"}
		}
		data, err := p.lex.ReadByteLiteral()
		if err != nil {
			return nil, err
		}
		return phi.DeltaBinding{Bytes: data}, nil
	}
	if p.cur().Type == TokenLambdaTag {
		p.lex.Next()
		if _, err := p.expect(TokenCarries, "'⤍'"); err != nil {
			return nil, err
		}
		name, err := p.expect(TokenIdent, "built-in name")
		if err != nil {
			return nil, err
		}
		return phi.LambdaBinding{Name: name.Literal}, nil
	}

	attr, err := p.parseAttrName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenMapsTo, "'↦'"); err != nil {
		return nil, err
	}
	if p.cur().Type == TokenEmpty {
		p.lex.Next()
		return phi.EmptyBinding{Attribute: attr}, nil
	}
	obj, err := p.parseObject()
	if err != nil {
		return nil, err
	}
	return phi.AlphaBinding{Attribute: attr, Object: obj}, nil
}

func (p *Parser) parseAttrName() (phi.Attribute, error) {
	switch p.cur().Type {
	case TokenPhi:
		p.lex.Next()
		return phi.Phi(), nil
	case TokenRho:
		p.lex.Next()
		return phi.Rho(), nil
	case TokenSigma:
		p.lex.Next()
		return phi.Sigma(), nil
	case TokenNu:
		p.lex.Next()
		return phi.Nu(), nil
	case TokenMetaID:
		if !p.allowPatterns {
			return phi.Attribute{}, &ParseError{Pos: p.cur().Pos, Msg: "meta-variable attribute not allowed outside patterns"}
		}
		id := p.cur().Literal
		p.lex.Next()
		return phi.Label("!" + id), nil
	case TokenIdent:
		lit := p.cur().Literal
		p.lex.Next()
		if isAlphaIndex(lit) {
			idx := 0
			for _, c := range []rune(lit)[1:] {
				idx = idx*10 + int(c-'0')
			}
			return phi.Alpha(idx), nil
		}
		return phi.Label(lit), nil
	case TokenNumber:
		lit := p.cur().Literal
		p.lex.Next()
		idx := 0
		for _, c := range lit {
			idx = idx*10 + int(c-'0')
		}
		return phi.Alpha(idx), nil
	default:
		return phi.Attribute{}, &ParseError{Pos: p.cur().Pos, Msg: "expected attribute name"}
	}
}

func isAlphaIndex(lit string) bool {
	runes := []rune(lit)
	if len(runes) < 2 || runes[0] != 'α' {
		return false
	}
	for _, c := range runes[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
