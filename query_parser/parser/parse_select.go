package parser

import (
	lex "CatalogDB/query_parser/lexer"
	"fmt"
)

// SELECT * FROM t [WHERE a = 1 AND b = "x"]
func (p *Parser) parseSelect() (*SelectStmt, error) {
	p.nextToken()
	if err := p.expect(lex.ASTERISK); err != nil {
		return nil, err
	}
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
	return &SelectStmt{Table: table, Where: where}, nil
}

// parseWhere reads an optional WHERE clause of equality terms joined by AND.
func (p *Parser) parseWhere() ([]Condition, error) {
	if p.curToken.Kind != lex.WHERE {
		return nil, nil
	}
	p.nextToken()

	var conds []Condition
	for {
		col, err := p.ident(ErrExpectedColumnName)
		if err != nil {
			return nil, err
		}
		if err := p.expect(lex.EQUAL); err != nil {
			return nil, err
		}
		p.nextToken()

		lit, ok := p.literal()
		if !ok {
			return nil, fmt.Errorf("expected value for %s, got %s (%s)", col, p.curToken.Kind, p.curToken.Value)
		}
		conds = append(conds, Condition{Column: col, Value: lit})

		if p.curToken.Kind != lex.AND {
			break
		}
		p.nextToken()
	}
	return conds, nil
}
