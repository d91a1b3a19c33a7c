package bplus

import (
	"CatalogDB/storage_engine/page"
	"encoding/binary"
	"fmt"
)

/*
A node occupies one page. Page ids inside a node are stored as local ids
(lower 32 bits) and widened back with the file id on load, so a tree stays
valid whatever file id the disk manager hands out next session.

	offset  size  field
	0       8     local page id
	8       1     page type stamp (owned by the disk manager)
	9       1     1 = leaf, 0 = internal
	10      2     key count n
	12      8     local parent, -1 for the root
	20      8     local next leaf, -1 if none
	28      6     reserved
	34      ...   n × (uint16 len, key)
	              leaf:     n × (uint16 len, value)
	              internal: n+1 × int64 local child

Integers are little endian.
*/

const (
	offLeaf   = 9
	offCount  = 10
	offParent = 12
	offNext   = 20
)

func toLocal(id int64) int64 {
	if id < 0 {
		return -1
	}
	return id & 0xFFFFFFFF
}

func toGlobal(fileID uint32, local int64) int64 {
	if local < 0 {
		return -1
	}
	return int64(fileID)<<32 | (local & 0xFFFFFFFF)
}

// pageCursor reads or writes a node body sequentially. The first overflow
// sticks in err and turns every later call into a no-op.
type pageCursor struct {
	buf []byte
	off int
	err error
}

func (c *pageCursor) room(n int, what string) bool {
	if c.err != nil {
		return false
	}
	if c.off+n > len(c.buf) {
		c.err = fmt.Errorf("node page overflow at %s (offset %d, need %d)", what, c.off, n)
		return false
	}
	return true
}

func (c *pageCursor) putChunk(b []byte, what string) {
	if !c.room(2+len(b), what) {
		return
	}
	binary.LittleEndian.PutUint16(c.buf[c.off:], uint16(len(b)))
	copy(c.buf[c.off+2:], b)
	c.off += 2 + len(b)
}

func (c *pageCursor) chunk(what string) []byte {
	if !c.room(2, what) {
		return nil
	}
	n := int(binary.LittleEndian.Uint16(c.buf[c.off:]))
	c.off += 2
	if !c.room(n, what) {
		return nil
	}
	out := append([]byte(nil), c.buf[c.off:c.off+n]...)
	c.off += n
	return out
}

func (c *pageCursor) putID(id int64, what string) {
	if !c.room(8, what) {
		return
	}
	binary.LittleEndian.PutUint64(c.buf[c.off:], uint64(toLocal(id)))
	c.off += 8
}

func (c *pageCursor) id(fileID uint32, what string) int64 {
	if !c.room(8, what) {
		return -1
	}
	local := int64(binary.LittleEndian.Uint64(c.buf[c.off:]))
	c.off += 8
	return toGlobal(fileID, local)
}

// SerializeNode writes node into the page buffer data.
func SerializeNode(node *Node, data []byte) error {
	if len(data) != page.PageSize {
		return fmt.Errorf("SerializeNode: buffer is %d bytes, want %d", len(data), page.PageSize)
	}

	binary.LittleEndian.PutUint64(data[0:], uint64(toLocal(node.pageID)))
	data[offLeaf] = 0
	if node.nodeType == NodeLeaf {
		data[offLeaf] = 1
	}
	binary.LittleEndian.PutUint16(data[offCount:], uint16(len(node.keys)))
	binary.LittleEndian.PutUint64(data[offParent:], uint64(toLocal(node.parent)))
	binary.LittleEndian.PutUint64(data[offNext:], uint64(toLocal(node.next)))

	c := &pageCursor{buf: data, off: nodeHeaderSize}
	for _, k := range node.keys {
		if len(k) > MaxKeyLen {
			return fmt.Errorf("SerializeNode: key of %d bytes exceeds %d", len(k), MaxKeyLen)
		}
		c.putChunk(k, "key")
	}
	if node.nodeType == NodeLeaf {
		for _, v := range node.values {
			if len(v) > MaxValLen {
				return fmt.Errorf("SerializeNode: value of %d bytes exceeds %d", len(v), MaxValLen)
			}
			c.putChunk(v, "value")
		}
	} else {
		for _, child := range node.children {
			c.putID(child, "child")
		}
	}
	if c.err != nil {
		return fmt.Errorf("SerializeNode: %w", c.err)
	}
	return nil
}

// DeserializeNode decodes the node stored in data. fileID widens the stored
// local ids; fetchNode overrides node.pageID with the id it fetched.
func DeserializeNode(data []byte, fileID uint32) (*Node, error) {
	if len(data) != page.PageSize {
		return nil, fmt.Errorf("DeserializeNode: buffer is %d bytes, want %d", len(data), page.PageSize)
	}

	n := int(binary.LittleEndian.Uint16(data[offCount:]))
	node := &Node{
		pageID:   toGlobal(fileID, int64(binary.LittleEndian.Uint64(data[0:]))),
		nodeType: NodeInternal,
		parent:   toGlobal(fileID, int64(binary.LittleEndian.Uint64(data[offParent:]))),
		next:     toGlobal(fileID, int64(binary.LittleEndian.Uint64(data[offNext:]))),
		keys:     make([][]byte, 0, n),
	}
	if data[offLeaf] == 1 {
		node.nodeType = NodeLeaf
	}

	c := &pageCursor{buf: data, off: nodeHeaderSize}
	for i := 0; i < n; i++ {
		node.keys = append(node.keys, c.chunk("key"))
	}
	if node.nodeType == NodeLeaf {
		node.values = make([][]byte, 0, n)
		for i := 0; i < n; i++ {
			node.values = append(node.values, c.chunk("value"))
		}
	} else {
		node.children = make([]int64, 0, n+1)
		for i := 0; i <= n; i++ {
			node.children = append(node.children, c.id(fileID, "child"))
		}
	}
	if c.err != nil {
		return nil, fmt.Errorf("DeserializeNode: %w", c.err)
	}
	return node, nil
}
