package parser

import (
	lex "CatalogDB/query_parser/lexer"
	"fmt"
	"strconv"
)

func (p *Parser) parseCreateDatabase() (*CreateDatabaseStmt, error) {
	p.nextToken()
	name, err := p.ident(ErrExpectedDatabaseName)
	if err != nil {
		return nil, err
	}
	return &CreateDatabaseStmt{DbName: name}, nil
}

func (p *Parser) parseDropDatabase() (*DropDatabaseStmt, error) {
	p.nextToken()
	name, err := p.ident(ErrExpectedDatabaseName)
	if err != nil {
		return nil, err
	}
	return &DropDatabaseStmt{DbName: name}, nil
}

func (p *Parser) parseUseDatabase() (*UseDatabaseStmt, error) {
	p.nextToken()
	name, err := p.ident(ErrExpectedDatabaseName)
	if err != nil {
		return nil, err
	}
	return &UseDatabaseStmt{DbName: name}, nil
}

// CLOSE [DATABASE]
func (p *Parser) parseCloseDatabase() (*CloseDatabaseStmt, error) {
	p.nextToken()
	if p.curToken.Kind == lex.DATABASE {
		p.nextToken()
	}
	return &CloseDatabaseStmt{}, nil
}

func (p *Parser) parseDescribe() (*DescribeTableStmt, error) {
	p.nextToken()
	if p.curToken.Kind == lex.TABLE {
		p.nextToken()
	}
	name, err := p.ident(ErrExpectedTableName)
	if err != nil {
		return nil, err
	}
	return &DescribeTableStmt{Table: name}, nil
}

// CREATE TABLE t (a INT, b FLOAT, c CHAR(20))
func (p *Parser) parseCreateTable() (*CreateTableStmt, error) {
	p.nextToken()
	table, err := p.ident(ErrExpectedTableName)
	if err != nil {
		return nil, err
	}

	if err := p.expect(lex.OPENROUNDED); err != nil {
		return nil, err
	}
	p.nextToken()

	cols := []ColumnDef{}
	for {
		name, err := p.ident(ErrExpectedColumnName)
		if err != nil {
			return nil, err
		}
		if p.curToken.Kind != lex.IDENT {
			return nil, fmt.Errorf("expected type for column %s, got %s (%s)", name, p.curToken.Kind, p.curToken.Value)
		}
		col := ColumnDef{Name: name, Type: p.curToken.Value}
		p.nextToken()

		if p.curToken.Kind == lex.OPENROUNDED {
			p.nextToken()
			if err := p.expect(lex.INT); err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(p.curToken.Value)
			if err != nil {
				return nil, fmt.Errorf("column %s: bad length %q", name, p.curToken.Value)
			}
			col.Len = n
			p.nextToken()
			if err := p.expect(lex.CLOSEDROUNDED); err != nil {
				return nil, err
			}
			p.nextToken()
		}
		cols = append(cols, col)

		if p.curToken.Kind != lex.COMMA {
			break
		}
		p.nextToken()
	}

	if err := p.expect(lex.CLOSEDROUNDED); err != nil {
		return nil, err
	}
	p.nextToken()

	return &CreateTableStmt{TableName: table, Columns: cols}, nil
}

func (p *Parser) parseDropTable() (*DropTableStmt, error) {
	p.nextToken()
	name, err := p.ident(ErrExpectedTableName)
	if err != nil {
		return nil, err
	}
	return &DropTableStmt{Table: name}, nil
}

func (p *Parser) parseCreateIndex() (*CreateIndexStmt, error) {
	p.nextToken()
	table, cols, err := p.parseIndexTarget()
	if err != nil {
		return nil, err
	}
	return &CreateIndexStmt{Table: table, Columns: cols}, nil
}

func (p *Parser) parseDropIndex() (*DropIndexStmt, error) {
	p.nextToken()
	table, cols, err := p.parseIndexTarget()
	if err != nil {
		return nil, err
	}
	return &DropIndexStmt{Table: table, Columns: cols}, nil
}

// parseIndexTarget reads "t (a, b)".
func (p *Parser) parseIndexTarget() (string, []string, error) {
	table, err := p.ident(ErrExpectedTableName)
	if err != nil {
		return "", nil, err
	}
	if p.curToken.Kind != lex.OPENROUNDED {
		return "", nil, ErrExpectedParen
	}
	p.nextToken()

	var cols []string
	for {
		name, err := p.ident(ErrExpectedColumnName)
		if err != nil {
			return "", nil, err
		}
		cols = append(cols, name)
		if p.curToken.Kind != lex.COMMA {
			break
		}
		p.nextToken()
	}
	if p.curToken.Kind != lex.CLOSEDROUNDED {
		return "", nil, ErrExpectedParen
	}
	p.nextToken()
	return table, cols, nil
}
