package ddllog

import (
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	RecordHeaderSize = 16
	maxRecordSize    = 1 << 20
)

type OpType string

const (
	OpCreateDatabase OpType = "CREATE_DATABASE"
	OpCreateTable    OpType = "CREATE_TABLE"
	OpDropTable      OpType = "DROP_TABLE"
	OpCreateIndex    OpType = "CREATE_INDEX"
	OpDropIndex      OpType = "DROP_INDEX"
)

// Record is one committed DDL statement. LSN is assigned by Append.
type Record struct {
	LSN     uint64    `json:"-"`
	Op      OpType    `json:"op"`
	Table   string    `json:"table,omitempty"`
	Columns []string  `json:"columns,omitempty"`
	At      time.Time `json:"at"`
}

// DDLLog is the append-only journal of one database.
type DDLLog struct {
	fs      afero.Fs
	name    string
	file    afero.File
	size    int64
	lastLSN uint64
	mu      sync.Mutex
}
