package parser

import (
	lex "CatalogDB/query_parser/lexer"
	"fmt"
)

// INSERT INTO t VALUES (1, "x", 2.5)
func (p *Parser) parseInsert() (*InsertStmt, error) {
	p.nextToken()
	if err := p.expect(lex.INTO); err != nil {
		return nil, err
	}
	p.nextToken()

	table, err := p.ident(ErrExpectedTableName)
	if err != nil {
		return nil, err
	}

	if p.curToken.Kind != lex.VALUES {
		return nil, ErrExpectedValues
	}
	p.nextToken()

	if p.curToken.Kind != lex.OPENROUNDED {
		return nil, ErrExpectedParen
	}
	p.nextToken()

	values := []Literal{}
	for {
		lit, ok := p.literal()
		if !ok {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnexpectedTokenInValues, p.curToken.Kind, p.curToken.Value)
		}
		values = append(values, lit)
		if p.curToken.Kind != lex.COMMA {
			break
		}
		p.nextToken()
	}

	if p.curToken.Kind != lex.CLOSEDROUNDED {
		return nil, ErrExpectedParen
	}
	p.nextToken()

	return &InsertStmt{Table: table, Values: values}, nil
}

// DELETE FROM t [WHERE ...]
func (p *Parser) parseDelete() (*DeleteStmt, error) {
	p.nextToken()
	if err := p.expect(lex.FROM); err != nil {
		return nil, err
	}
	p.nextToken()

	table, err := p.ident(ErrExpectedTableName)
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	return &DeleteStmt{Table: table, Where: where}, nil
}

// literal consumes an INT, FLOAT or STRING token.
func (p *Parser) literal() (Literal, bool) {
	switch p.curToken.Kind {
	case lex.INT, lex.FLOAT, lex.STRING:
		lit := Literal{Kind: p.curToken.Kind, Value: p.curToken.Value}
		p.nextToken()
		return lit, true
	}
	return Literal{}, false
}
