// Package parser implements the syntactic analyzer for the Grace
// programming language.
//
// The parser is a recursive-descent parser with Pratt parsing (precedence
// climbing) for arithmetic expressions, dispatching prefix and infix
// parse functions by the current token type. Every AST node it produces
// is built by calling into [wrapper.Context] rather than the ast
// package's bare constructors, so scope open/close and semantic checks
// happen inline as the grammar is recognized (§4.3), with each
// production building its node in-line as soon as enough of it has been
// parsed to do so.
//
// The main entry point is [Parse], which runs a [*lexer.Lexer] to
// completion and returns the resulting *ast.Program together with the
// wrapper context (holding the final symbol table and any warnings).
package parser

import (
	"strconv"

	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/diag"
	"github.com/ntua-el19005/gracec/lexer"
	"github.com/ntua-el19005/gracec/token"
	"github.com/ntua-el19005/gracec/wrapper"
)

const (
	_ int = iota

	lowest
	sum     // + -
	product // * div mod
	prefix  // unary -
)

var precedences = map[token.Type]int{
	token.PLUS:     sum,
	token.MINUS:    sum,
	token.ASTERISK: product,
	token.DIV:      product,
	token.MOD:      product,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser recognizes Grace's grammar (§6) over a token stream, calling into
// a [wrapper.Context] to build and check every AST node it produces.
type Parser struct {
	l    *lexer.Lexer
	wctx *wrapper.Context

	curToken  token.Token
	peekToken token.Token

	// returnTypes is a stack of the declared return type of every function
	// currently being parsed, innermost last, used by parseReturnStmt to
	// check `return` against the right enclosing function.
	returnTypes []*ast.Type

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser over l, running semantic analysis as it parses.
func New(l *lexer.Lexer) *Parser {
	return newParser(l, wrapper.ModeFull)
}

// NewASTOnly creates a Parser over l that skips all semantic side effects
// (§4.3's ModeASTOnly), used by the AST-dump tooling of §8.
func NewASTOnly(l *lexer.Lexer) *Parser {
	return newParser(l, wrapper.ModeASTOnly)
}

func newParser(l *lexer.Lexer, mode wrapper.Mode) *Parser {
	p := &Parser{l: l, wctx: wrapper.NewContext(mode)}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:  p.parseIdentifierOrCallOrIndex,
		token.INT:    p.parseIntegerLiteral,
		token.CHAR:   p.parseCharacterLiteral,
		token.STRING: p.parseStringLiteral,
		token.LPAREN: p.parseGroupedExpression,
		token.MINUS:  p.parseUnaryMinus,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinaryExpr,
		token.MINUS:    p.parseBinaryExpr,
		token.ASTERISK: p.parseBinaryExpr,
		token.DIV:      p.parseBinaryExpr,
		token.MOD:      p.parseBinaryExpr,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Context returns the wrapper context driven by this parse, holding the
// final symbol table and any accumulated warnings.
func (p *Parser) Context() *wrapper.Context { return p.wctx }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return lowest
}

// expectPeek advances past peek if it has type t, else reports a parser
// error at peek's position.
func (p *Parser) expectPeek(t token.Type) error {
	if !p.peekIs(t) {
		return diag.New(diag.Parser, p.peekToken.Pos,
			"expected %s, got %s (%q)", t, p.peekToken.Type, p.peekToken.Literal)
	}
	p.nextToken()
	return nil
}

func (p *Parser) pos() ast.Pos { return p.curToken.Pos }

// Parse parses a complete Grace source unit: a single top-level function
// definition (§3) serving as the program's main.
func Parse(l *lexer.Lexer) (*ast.Program, *wrapper.Context, error) {
	p := New(l)
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, p.wctx, err
	}
	return prog, p.wctx, nil
}

// ParseProgram parses a complete program off p's token stream. Exported so
// callers that already hold a [Parser] (e.g. one built with [NewASTOnly])
// can drive the parse themselves.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	def, err := p.parseFunctionDefinition()
	if err != nil {
		return nil, err
	}
	if err := p.wctx.EndProgram(def.Position()); err != nil {
		return nil, err
	}
	p.nextToken() // past main's closing '}'
	if !p.curIs(token.EOF) {
		return nil, diag.New(diag.Parser, p.pos(), "unexpected trailing input after main: %q", p.curToken.Literal)
	}
	return &ast.Program{Main: def}, nil
}

// parseFunctionDefinition parses `fun id ( params ) : type` followed by
// this function's own local-definitions and block, anchoring scope
// open/close around them via the wrapper context (§4.3). On entry cur is
// the FUN token; on return cur is the closing '}' of the body.
func (p *Parser) parseFunctionDefinition() (*ast.FunctionDef, error) {
	header, err := p.parseFunctionHeader()
	if err != nil {
		return nil, err
	}

	def, err := p.wctx.BeginFunction(header)
	if err != nil {
		return nil, err
	}
	p.returnTypes = append(p.returnTypes, header.ReturnType)
	defer func() { p.returnTypes = p.returnTypes[:len(p.returnTypes)-1] }()

	p.nextToken() // move past the return-type token, onto the first local-def or '{'

	locals, err := p.parseLocalDefs()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.wctx.EndFunction(def, locals, body); err != nil {
		return nil, err
	}
	return def, nil
}

// parseFunctionHeader parses `fun id ( param-groups ) : type`. On entry
// cur is FUN; on return cur is the last token of the return type.
func (p *Parser) parseFunctionHeader() (*ast.FunctionHeader, error) {
	pos := p.pos()
	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	id := p.curToken.Literal

	if err := p.expectPeek(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.COLON); err != nil {
		return nil, err
	}
	p.nextToken()
	retType, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionHeader{Pos: pos, Id: id, Params: params, ReturnType: retType}, nil
}

// parseParamList parses `( group (; group)* )`, semicolon-separated
// parameter groups each possibly `ref`-qualified (§6). On entry cur is
// LPAREN; on return cur is RPAREN.
func (p *Parser) parseParamList() ([]*ast.ParamDef, error) {
	var params []*ast.ParamDef
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params, nil
	}
	p.nextToken()
	for {
		group, err := p.parseParamGroup()
		if err != nil {
			return nil, err
		}
		params = append(params, group...)
		if !p.peekIs(token.SEMICOLON) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseParamGroup parses `[ref] id (, id)* : type`. On entry cur is the
// REF token or the first parameter name; on return cur is the last token
// of the group's type.
func (p *Parser) parseParamGroup() ([]*ast.ParamDef, error) {
	mode := ast.ByValue
	if p.curIs(token.REF) {
		mode = ast.ByReference
		p.nextToken()
	}

	type named struct {
		pos  ast.Pos
		name string
	}
	names := []named{{pos: p.pos(), name: p.curToken.Literal}}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		names = append(names, named{pos: p.pos(), name: p.curToken.Literal})
	}

	if err := p.expectPeek(token.COLON); err != nil {
		return nil, err
	}
	p.nextToken()
	typ, err := p.parseType(true)
	if err != nil {
		return nil, err
	}

	out := make([]*ast.ParamDef, 0, len(names))
	for _, n := range names {
		out = append(out, &ast.ParamDef{Pos: n.pos, Name: n.name, Type: typ, Mode: mode})
	}
	return out, nil
}

// parseReturnType parses a scalar return type: int, char, or nothing —
// never an array (§3). On entry and return cur is the type keyword.
func (p *Parser) parseReturnType() (*ast.Type, error) {
	switch p.curToken.Type {
	case token.NOTHING:
		return ast.ScalarType(ast.Nothing), nil
	case token.INT_KW:
		return ast.ScalarType(ast.Int), nil
	case token.CHAR_KW:
		return ast.ScalarType(ast.Char), nil
	default:
		return nil, diag.New(diag.Parser, p.pos(), "expected a return type, got %q", p.curToken.Literal)
	}
}

// parseType parses a scalar or array type. isParam allows an unspecified
// leading dimension ("[]") when true (§3). On entry cur is the scalar
// keyword; on return cur is the last ']' of the type, or the keyword
// itself if the type has no dimensions.
func (p *Parser) parseType(isParam bool) (*ast.Type, error) {
	var kind ast.ScalarKind
	switch p.curToken.Type {
	case token.INT_KW:
		kind = ast.Int
	case token.CHAR_KW:
		kind = ast.Char
	default:
		return nil, diag.New(diag.Parser, p.pos(), "expected a type, got %q", p.curToken.Literal)
	}

	var dims []ast.Dimension
	for p.peekIs(token.LBRACKET) {
		p.nextToken() // at '['
		if isParam && len(dims) == 0 && p.peekIs(token.RBRACKET) {
			p.nextToken() // at ']'
			dims = append(dims, ast.Dimension{Unspecified: true})
			continue
		}
		if err := p.expectPeek(token.INT); err != nil {
			return nil, err
		}
		bound, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			return nil, diag.New(diag.Parser, p.pos(), "bad array bound %q", p.curToken.Literal)
		}
		if err := p.expectPeek(token.RBRACKET); err != nil {
			return nil, err
		}
		dims = append(dims, ast.Dimension{Bound: bound})
	}
	if len(dims) > 0 {
		return ast.ArrayType(kind, dims), nil
	}
	return ast.ScalarType(kind), nil
}

// parseLocalDefs parses zero or more local-definitions: nested variable
// definitions, function declarations, and function definitions (§3), in
// any order. On entry cur is the first token after the enclosing
// function's return type; on return cur is '{', the start of this
// function's own block.
func (p *Parser) parseLocalDefs() ([]ast.LocalDef, error) {
	var locals []ast.LocalDef
	for p.curIs(token.VAR) || p.curIs(token.FUN) {
		if p.curIs(token.VAR) {
			v, err := p.parseVarDef()
			if err != nil {
				return nil, err
			}
			locals = append(locals, v)
			p.nextToken()
			continue
		}

		header, err := p.parseFunctionHeader()
		if err != nil {
			return nil, err
		}
		if p.peekIs(token.SEMICOLON) {
			p.nextToken() // at ';'
			decl, err := p.wctx.NewFunctionDecl(header)
			if err != nil {
				return nil, err
			}
			locals = append(locals, decl)
			p.nextToken()
			continue
		}

		def, err := p.parseNestedFunctionBody(header)
		if err != nil {
			return nil, err
		}
		locals = append(locals, def)
		p.nextToken()
	}
	return locals, nil
}

// parseNestedFunctionBody parses the locals and block of a nested function
// definition whose header has already been parsed, driving scope
// open/close via the wrapper context. On entry cur is the last token of
// header's return type; on return cur is the closing '}' of the body.
func (p *Parser) parseNestedFunctionBody(header *ast.FunctionHeader) (*ast.FunctionDef, error) {
	def, err := p.wctx.BeginFunction(header)
	if err != nil {
		return nil, err
	}
	p.returnTypes = append(p.returnTypes, header.ReturnType)
	defer func() { p.returnTypes = p.returnTypes[:len(p.returnTypes)-1] }()

	p.nextToken()
	locals, err := p.parseLocalDefs()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.wctx.EndFunction(def, locals, body); err != nil {
		return nil, err
	}
	return def, nil
}

// parseVarDef parses `var id (, id)* : type ;`. On entry cur is VAR; on
// return cur is ';'.
func (p *Parser) parseVarDef() (*ast.VarDef, error) {
	pos := p.pos()
	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	names := []string{p.curToken.Literal}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		names = append(names, p.curToken.Literal)
	}
	if err := p.expectPeek(token.COLON); err != nil {
		return nil, err
	}
	p.nextToken()
	typ, err := p.parseType(false)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.SEMICOLON); err != nil {
		return nil, err
	}
	return p.wctx.NewVarDef(pos, names, typ)
}

// parseBlock parses `{ statement* }`. On entry cur is '{'; on return cur
// is '}'.
func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	pos := p.pos()
	p.nextToken()
	var stmts []ast.Statement
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		return nil, diag.New(diag.Parser, p.pos(), "unterminated block, expected '}'")
	}
	return &ast.BlockStmt{Pos: pos, Statements: stmts}, nil
}

// parseStatement parses one statement (§3). On return cur is the last
// token of the statement (its closing ';' or '}').
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.SEMICOLON:
		return &ast.EmptyStmt{Pos: p.pos()}, nil
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.IDENT:
		return p.parseIdentStatement()
	default:
		return nil, diag.New(diag.Parser, p.pos(), "unexpected token %q at start of statement", p.curToken.Literal)
	}
}

// parseIdentStatement parses either a call-as-statement or an assignment,
// both of which begin with an identifier (§3).
func (p *Parser) parseIdentStatement() (ast.Statement, error) {
	pos := p.pos()
	name := p.curToken.Literal

	if p.peekIs(token.LPAREN) {
		p.nextToken() // at '('
		call, err := p.parseCallArgs(name, pos)
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.CallStmt{Pos: pos, Call: call}, nil
	}

	lv, err := p.parseLValueTail(pos, name)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.ASSIGN); err != nil {
		return nil, err
	}
	p.nextToken()
	value, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.SEMICOLON); err != nil {
		return nil, err
	}
	return p.wctx.NewAssignStmt(pos, lv, value)
}

// parseLValueTail builds the identifier for name and consumes any
// following bracket groups into a single [ast.IndexAccess]. On entry cur
// is the identifier token; on return cur is the last ']' consumed, or the
// identifier itself if there were none.
func (p *Parser) parseLValueTail(pos ast.Pos, name string) (ast.LValue, error) {
	id, err := p.wctx.NewIdentifier(pos, name)
	if err != nil {
		return nil, err
	}
	var lv ast.LValue = id

	var indices []ast.Expression
	for p.peekIs(token.LBRACKET) {
		p.nextToken() // at '['
		p.nextToken() // at index expr start
		idx, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
		if err := p.expectPeek(token.RBRACKET); err != nil {
			return nil, err
		}
	}
	if len(indices) > 0 {
		lv, err = p.wctx.NewIndexAccess(pos, lv, indices)
		if err != nil {
			return nil, err
		}
	}
	return lv, nil
}

// parseCallArgs parses `( arg (, arg)* )` given callee's name and
// position. On entry cur is '('; on return cur is ')'.
func (p *Parser) parseCallArgs(callee string, pos ast.Pos) (*ast.CallExpr, error) {
	var args []ast.Expression
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return p.wctx.NewCallExpr(pos, callee, args)
	}
	p.nextToken()
	arg, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	args = append(args, arg)
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}
	return p.wctx.NewCallExpr(pos, callee, args)
}

// parseIfStmt parses `if cond then stmt [else stmt]`, resolving a dangling
// else to this (innermost open) if (§3). On entry cur is IF; on return cur
// is the last token of the taken branch's statement.
func (p *Parser) parseIfStmt() (ast.Statement, error) {
	pos := p.pos()
	p.nextToken()
	cond, err := p.parseCondition(lowestCond)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.THEN); err != nil {
		return nil, err
	}
	p.nextToken()
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}
	if p.peekIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		elseStmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
	}
	return stmt, nil
}

// parseWhileStmt parses `while cond do stmt`. On entry cur is WHILE; on
// return cur is the last token of the body statement.
func (p *Parser) parseWhileStmt() (ast.Statement, error) {
	pos := p.pos()
	p.nextToken()
	cond, err := p.parseCondition(lowestCond)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.DO); err != nil {
		return nil, err
	}
	p.nextToken()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Pos: pos, Cond: cond, Body: body}, nil
}

// parseReturnStmt parses `return [expr] ;`, checking the payload against
// the innermost enclosing function's declared return type. On entry cur
// is RETURN; on return cur is ';'.
func (p *Parser) parseReturnStmt() (ast.Statement, error) {
	pos := p.pos()
	var retType *ast.Type
	if n := len(p.returnTypes); n > 0 {
		retType = p.returnTypes[n-1]
	}

	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
		return p.wctx.NewReturnStmt(pos, retType, nil)
	}
	p.nextToken()
	value, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.SEMICOLON); err != nil {
		return nil, err
	}
	return p.wctx.NewReturnStmt(pos, retType, value)
}

// ---- Expressions (Pratt) ----

// parseExpression parses an arithmetic expression at or above precedence:
// parse a prefix term, then repeatedly fold in infix operators whose
// precedence meets the threshold, left-associatively. On return cur is
// the last token of the expression.
func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefixFn, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		return nil, diag.New(diag.Parser, p.pos(), "no expression can start with %q", p.curToken.Literal)
	}
	left, err := prefixFn()
	if err != nil {
		return nil, err
	}

	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infixFn, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left, nil
		}
		p.nextToken()
		left, err = infixFn(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseIdentifierOrCallOrIndex() (ast.Expression, error) {
	pos := p.pos()
	name := p.curToken.Literal
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		return p.parseCallArgs(name, pos)
	}
	lv, err := p.parseLValueTail(pos, name)
	if err != nil {
		return nil, err
	}
	return lv, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		return nil, diag.New(diag.Parser, p.pos(), "bad integer literal %q", p.curToken.Literal)
	}
	return p.wctx.NewIntegerLiteral(p.pos(), v), nil
}

func (p *Parser) parseCharacterLiteral() (ast.Expression, error) {
	if len(p.curToken.Literal) != 1 {
		return nil, diag.New(diag.Parser, p.pos(), "bad character literal %q", p.curToken.Literal)
	}
	return p.wctx.NewCharacterLiteral(p.pos(), p.curToken.Literal[0]), nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	return p.wctx.NewStringLiteral(p.pos(), p.curToken.Literal), nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.nextToken()
	exp, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}
	return exp, nil
}

func (p *Parser) parseUnaryMinus() (ast.Expression, error) {
	pos := p.pos()
	p.nextToken()
	operand, err := p.parseExpression(prefix)
	if err != nil {
		return nil, err
	}
	return p.wctx.NewUnary(pos, "-", operand)
}

func (p *Parser) parseBinaryExpr(left ast.Expression) (ast.Expression, error) {
	pos := p.pos()
	op := opLiteral(p.curToken)
	pr := p.curPrecedence()
	p.nextToken()
	right, err := p.parseExpression(pr)
	if err != nil {
		return nil, err
	}
	return p.wctx.NewBinary(pos, op, left, right)
}

func opLiteral(t token.Token) string {
	switch t.Type {
	case token.DIV:
		return "div"
	case token.MOD:
		return "mod"
	default:
		return t.Literal
	}
}

// ---- Conditions ----

const (
	lowestCond = iota
	orPrec
	andPrec
	notPrec
)

var comparisonOps = map[token.Type]bool{
	token.EQ: true, token.NOT_EQ: true,
	token.LT: true, token.GT: true, token.LE: true, token.GE: true,
}

// parseCondition parses Grace's condition grammar, distinct from
// arithmetic expressions (§3): `or` binds loosest, then `and`, then
// `not`, then comparisons and parenthesized sub-conditions.
func (p *Parser) parseCondition(_ int) (ast.Condition, error) {
	return p.parseOrCondition()
}

func (p *Parser) parseOrCondition() (ast.Condition, error) {
	left, err := p.parseAndCondition()
	if err != nil {
		return nil, err
	}
	for p.peekIs(token.OR) {
		pos := p.peekToken.Pos
		p.nextToken()
		p.nextToken()
		right, err := p.parseAndCondition()
		if err != nil {
			return nil, err
		}
		left = p.wctx.NewLogicalBinary(pos, "or", left, right)
	}
	return left, nil
}

func (p *Parser) parseAndCondition() (ast.Condition, error) {
	left, err := p.parseNotCondition()
	if err != nil {
		return nil, err
	}
	for p.peekIs(token.AND) {
		pos := p.peekToken.Pos
		p.nextToken()
		p.nextToken()
		right, err := p.parseNotCondition()
		if err != nil {
			return nil, err
		}
		left = p.wctx.NewLogicalBinary(pos, "and", left, right)
	}
	return left, nil
}

func (p *Parser) parseNotCondition() (ast.Condition, error) {
	if p.curIs(token.NOT) {
		pos := p.pos()
		p.nextToken()
		operand, err := p.parseNotCondition()
		if err != nil {
			return nil, err
		}
		return p.wctx.NewLogicalNot(pos, operand), nil
	}
	return p.parseAtomCondition()
}

// parseAtomCondition parses `( not ... )` as a parenthesized condition, or
// otherwise a comparison `expr op expr`.
func (p *Parser) parseAtomCondition() (ast.Condition, error) {
	if p.curIs(token.LPAREN) && p.startsCondition() {
		p.nextToken()
		cond, err := p.parseOrCondition()
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek(token.RPAREN); err != nil {
			return nil, err
		}
		return cond, nil
	}

	pos := p.pos()
	left, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if !comparisonOps[p.peekToken.Type] {
		return nil, diag.New(diag.Parser, p.peekToken.Pos, "expected a comparison operator, got %q", p.peekToken.Literal)
	}
	p.nextToken()
	op := p.curToken.Literal
	p.nextToken()
	right, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	return p.wctx.NewComparison(pos, op, left, right)
}

// startsCondition reports whether the parenthesized group starting at cur
// ('(') is treated as a nested condition rather than a grouped arithmetic
// expression: only when the token right after '(' is `not`, which cannot
// start an expression. Any other '(' is parsed as a grouped expression, so
// a parenthesized comparison or connective such as `(a < b)` is not
// accepted as a condition.
func (p *Parser) startsCondition() bool {
	return p.peekToken.Type == token.NOT
}
