// Package ddllog keeps the DDL journal of a database: one framed record per
// committed create or drop, appended to db.log. The journal is a history for
// operators; it is never replayed.
package ddllog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
)

// Open opens or creates the journal name on fs. A torn record at the end of
// the file, left by a crash mid-append, is cut off so new records line up.
func Open(fs afero.Fs, name string) (*DDLLog, error) {
	file, err := fs.OpenFile(name, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	records, end, err := scan(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to scan %s: %w", name, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if stat.Size() > end {
		if err := file.Truncate(end); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to cut torn tail of %s: %w", name, err)
		}
	}
	if _, err := file.Seek(end, io.SeekStart); err != nil {
		file.Close()
		return nil, err
	}

	l := &DDLLog{fs: fs, name: name, file: file, size: end}
	if n := len(records); n > 0 {
		l.lastLSN = records[n-1].LSN
	}
	return l, nil
}

// Append writes r with the next LSN and syncs the file.
func (l *DDLLog) Append(r Record) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return 0, fmt.Errorf("journal %s is closed", l.name)
	}
	r.LSN = l.lastLSN + 1
	if r.At.IsZero() {
		r.At = time.Now().UTC()
	}
	frame, err := encodeFrame(r)
	if err != nil {
		return 0, err
	}
	n, err := l.file.Write(frame)
	if err != nil {
		// drop whatever part of the frame reached the file
		_ = l.file.Truncate(l.size)
		_, _ = l.file.Seek(l.size, io.SeekStart)
		return 0, err
	}
	if err := l.file.Sync(); err != nil {
		return 0, err
	}
	l.size += int64(n)
	l.lastLSN = r.LSN
	return r.LSN, nil
}

// Records returns every intact record, oldest first.
func (l *DDLLog) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil, fmt.Errorf("journal %s is closed", l.name)
	}
	return ReadFile(l.fs, l.name)
}

func (l *DDLLog) LastLSN() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastLSN
}

func (l *DDLLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadFile reads the journal name without opening it for writing.
func ReadFile(fs afero.Fs, name string) ([]Record, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	records, _, err := scan(file)
	return records, err
}

// scan reads records from the start of r and returns them with the offset
// just past the last intact one.
func scan(r io.ReadSeeker) ([]Record, int64, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}

	var (
		records []Record
		end     int64
	)
	header := make([]byte, RecordHeaderSize)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return records, end, nil
			}
			return nil, 0, err
		}

		lsn := binary.BigEndian.Uint64(header[0:8])
		dataLen := binary.BigEndian.Uint32(header[8:12])
		crc := binary.BigEndian.Uint32(header[12:16])
		if dataLen > maxRecordSize {
			return records, end, nil
		}

		data := make([]byte, dataLen)
		if _, err := io.ReadFull(r, data); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return records, end, nil
			}
			return nil, 0, err
		}
		if calculateCRC(lsn, data) != crc {
			return records, end, nil
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return records, end, nil
		}
		rec.LSN = lsn
		records = append(records, rec)
		end += int64(RecordHeaderSize) + int64(dataLen)
	}
}
