package types

import (
	"encoding/binary"
	"fmt"
)

// RowPointer identifies a record inside one heap file: the local page number
// and the slot inside that page. It is the record id stored in index leaves.
type RowPointer struct {
	PageNumber uint32 `json:"page_number"`
	SlotIndex  uint16 `json:"slot_index"` // Index in the slot directory
}

// RowPointerSize is the encoded size of a RowPointer inside an index leaf.
const RowPointerSize = 6

func (rp RowPointer) String() string {
	return fmt.Sprintf("(%d,%d)", rp.PageNumber, rp.SlotIndex)
}

// Encode returns the fixed 6-byte big-endian form of the pointer.
func (rp RowPointer) Encode() []byte {
	buf := make([]byte, RowPointerSize)
	binary.BigEndian.PutUint32(buf[0:4], rp.PageNumber)
	binary.BigEndian.PutUint16(buf[4:6], rp.SlotIndex)
	return buf
}

func DecodeRowPointer(b []byte) (RowPointer, error) {
	if len(b) != RowPointerSize {
		return RowPointer{}, fmt.Errorf("row pointer must be %d bytes, got %d", RowPointerSize, len(b))
	}
	return RowPointer{
		PageNumber: binary.BigEndian.Uint32(b[0:4]),
		SlotIndex:  binary.BigEndian.Uint16(b[4:6]),
	}, nil
}
