package parser

import (
	lex "CatalogDB/query_parser/lexer"
	"errors"
	"fmt"
)

var (
	ErrEmptyStatement          = errors.New("empty statement")
	ErrExpectedDatabaseName    = errors.New("expected database name")
	ErrExpectedTableName       = errors.New("expected table name")
	ErrExpectedColumnName      = errors.New("expected column name")
	ErrExpectedParen           = errors.New("expected ( or )")
	ErrExpectedValues          = errors.New("expected VALUES")
	ErrUnexpectedTokenInValues = errors.New("unexpected token in values list")
)

type Parser struct {
	l         *lex.Lexer
	curToken  lex.Token
	peekToken lex.Token
}

func New(l *lex.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is a shorthand for New(lex.New(input)).ParseStatement().
func Parse(input string) (Statement, error) {
	return New(lex.New(input)).ParseStatement()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) expect(kind lex.TokenKind) error {
	if p.curToken.Kind != kind {
		return fmt.Errorf("expected %s, got %s (%s)", kind, p.curToken.Kind, p.curToken.Value)
	}
	return nil
}

// ident consumes an identifier and returns it, or returns errIfMissing.
func (p *Parser) ident(errIfMissing error) (string, error) {
	if p.curToken.Kind != lex.IDENT {
		return "", fmt.Errorf("%w, got %s (%s)", errIfMissing, p.curToken.Kind, p.curToken.Value)
	}
	name := p.curToken.Value
	p.nextToken()
	return name, nil
}

// finish accepts an optional trailing semicolon and requires the end of input.
func (p *Parser) finish(stmt Statement) (Statement, error) {
	if p.curToken.Kind == lex.SEMICOLON {
		p.nextToken()
	}
	if p.curToken.Kind != lex.END {
		return nil, fmt.Errorf("unexpected %s (%s) after statement", p.curToken.Kind, p.curToken.Value)
	}
	return stmt, nil
}

// Entry point
func (p *Parser) ParseStatement() (Statement, error) {
	var (
		stmt Statement
		err  error
	)
	switch p.curToken.Kind {
	case lex.END:
		return nil, ErrEmptyStatement
	case lex.CREATE:
		stmt, err = p.parseCreate()
	case lex.DROP:
		stmt, err = p.parseDrop()
	case lex.USE:
		stmt, err = p.parseUseDatabase()
	case lex.CLOSE:
		stmt, err = p.parseCloseDatabase()
	case lex.SHOW:
		stmt, err = p.parseShow()
	case lex.DESC:
		stmt, err = p.parseDescribe()
	case lex.INSERT:
		stmt, err = p.parseInsert()
	case lex.SELECT:
		stmt, err = p.parseSelect()
	case lex.DELETE:
		stmt, err = p.parseDelete()
	default:
		return nil, fmt.Errorf("unexpected token: %s (%s)", p.curToken.Kind, p.curToken.Value)
	}
	if err != nil {
		return nil, err
	}
	return p.finish(stmt)
}

func (p *Parser) parseCreate() (Statement, error) {
	p.nextToken() // consume CREATE
	switch p.curToken.Kind {
	case lex.DATABASE:
		return p.parseCreateDatabase()
	case lex.TABLE:
		return p.parseCreateTable()
	case lex.INDEX:
		return p.parseCreateIndex()
	}
	return nil, fmt.Errorf("expected DATABASE, TABLE or INDEX after CREATE, got %s (%s)", p.curToken.Kind, p.curToken.Value)
}

func (p *Parser) parseDrop() (Statement, error) {
	p.nextToken() // consume DROP
	switch p.curToken.Kind {
	case lex.DATABASE:
		return p.parseDropDatabase()
	case lex.TABLE:
		return p.parseDropTable()
	case lex.INDEX:
		return p.parseDropIndex()
	}
	return nil, fmt.Errorf("expected DATABASE, TABLE or INDEX after DROP, got %s (%s)", p.curToken.Kind, p.curToken.Value)
}

func (p *Parser) parseShow() (Statement, error) {
	p.nextToken() // consume SHOW
	switch p.curToken.Kind {
	case lex.DATABASES:
		p.nextToken()
		return &ShowDatabasesStmt{}, nil
	case lex.TABLES:
		p.nextToken()
		return &ShowTablesStmt{}, nil
	case lex.HISTORY:
		p.nextToken()
		return &ShowHistoryStmt{}, nil
	}
	return nil, fmt.Errorf("expected DATABASES, TABLES or HISTORY after SHOW, got %s (%s)", p.curToken.Kind, p.curToken.Value)
}
