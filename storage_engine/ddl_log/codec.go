package ddllog

import (
	"encoding/binary"
	"hash/crc32"

	json "github.com/goccy/go-json"
)

/*

db.log
────────────────────────────────────
| Record | Record | Record | ...   |
────────────────────────────────────

Each Record:
────────────────────────────────────────────
| LSN (8) | LEN (4) | CRC (4) | DATA (LEN) |
────────────────────────────────────────────

DATA is the JSON encoding of Record.

*/

func encodeFrame(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, RecordHeaderSize+len(data))
	binary.BigEndian.PutUint64(buf[0:8], r.LSN)
	binary.BigEndian.PutUint32(buf[8:12], uint32(len(data)))
	binary.BigEndian.PutUint32(buf[12:16], calculateCRC(r.LSN, data))
	copy(buf[RecordHeaderSize:], data)
	return buf, nil
}

// calculateCRC computes CRC32 over LSN and data
func calculateCRC(lsn uint64, data []byte) uint32 {
	hasher := crc32.NewIEEE()
	var lsnBytes [8]byte
	binary.BigEndian.PutUint64(lsnBytes[:], lsn)
	hasher.Write(lsnBytes[:])
	hasher.Write(data)
	return hasher.Sum32()
}
