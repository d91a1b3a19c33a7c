package lex

type TokenKind int

const (
	// identifier
	IDENT TokenKind = iota

	// literals
	INT
	FLOAT
	STRING

	// punctuation
	COMMA
	ASTERISK
	EQUAL
	SEMICOLON
	OPENROUNDED
	CLOSEDROUNDED

	// keywords
	CREATE
	DROP
	USE
	CLOSE
	SHOW
	DESC
	DATABASE
	DATABASES
	TABLE
	TABLES
	HISTORY
	INDEX
	INSERT
	INTO
	VALUES
	SELECT
	FROM
	WHERE
	AND
	DELETE

	END
	INVALID
)

type Token struct {
	Kind  TokenKind
	Value string
}

var kindNames = map[TokenKind]string{
	IDENT:         "IDENT",
	INT:           "INT",
	FLOAT:         "FLOAT",
	STRING:        "STRING",
	COMMA:         "COMMA",
	ASTERISK:      "ASTERISK",
	EQUAL:         "EQUAL",
	SEMICOLON:     "SEMICOLON",
	OPENROUNDED:   "OPENROUNDED",
	CLOSEDROUNDED: "CLOSEDROUNDED",
	CREATE:        "CREATE",
	DROP:          "DROP",
	USE:           "USE",
	CLOSE:         "CLOSE",
	SHOW:          "SHOW",
	DESC:          "DESC",
	DATABASE:      "DATABASE",
	DATABASES:     "DATABASES",
	TABLE:         "TABLE",
	TABLES:        "TABLES",
	HISTORY:       "HISTORY",
	INDEX:         "INDEX",
	INSERT:        "INSERT",
	INTO:          "INTO",
	VALUES:        "VALUES",
	SELECT:        "SELECT",
	FROM:          "FROM",
	WHERE:         "WHERE",
	AND:           "AND",
	DELETE:        "DELETE",
	END:           "END",
	INVALID:       "INVALID",
}

func (tk TokenKind) String() string {
	if s, ok := kindNames[tk]; ok {
		return s
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenKind{
	"CREATE":    CREATE,
	"DROP":      DROP,
	"USE":       USE,
	"CLOSE":     CLOSE,
	"SHOW":      SHOW,
	"DESC":      DESC,
	"DESCRIBE":  DESC,
	"DATABASE":  DATABASE,
	"DATABASES": DATABASES,
	"TABLE":     TABLE,
	"TABLES":    TABLES,
	"HISTORY":   HISTORY,
	"INDEX":     INDEX,
	"INSERT":    INSERT,
	"INTO":      INTO,
	"VALUES":    VALUES,
	"SELECT":    SELECT,
	"FROM":      FROM,
	"WHERE":     WHERE,
	"AND":       AND,
	"DELETE":    DELETE,
}
