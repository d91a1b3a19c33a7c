package diskmanager

import (
	"sync"

	"github.com/spf13/afero"
)

// ############################################# FILE DESCRIPTOR ###########################################

// FileDescriptor represents an open file managed by the disk manager
type FileDescriptor struct {
	FileID     uint32
	FilePath   string
	File       afero.File
	NextPageID int64 // Next available page ID within this file
	mu         sync.RWMutex
}

// ############################################# DISK MANAGER #############################################

// DiskManager manages all disk I/O operations and file handles of one
// database directory. fs is already scoped to that directory.
type DiskManager struct {
	fs         afero.Fs
	files      map[uint32]*FileDescriptor // fileID -> file descriptor
	byPath     map[string]uint32          // path -> fileID of open files
	nextFileID uint32                     // session scoped, never reused
	mu         sync.RWMutex
}
