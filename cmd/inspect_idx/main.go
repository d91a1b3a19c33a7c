// Inspect a B+ tree index file (.idx).
// Usage: go run ./cmd/inspect_idx <path-to-.idx>
// Example: go run ./cmd/inspect_idx databases/demp/students-id.idx
package main

import (
	"fmt"
	"os"

	"CatalogDB/display"
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"

	"github.com/spf13/afero"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <index.idx>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s databases/demp/students-id.idx\n", os.Args[0])
		os.Exit(1)
	}
	d, err := indexfile.DumpFile(afero.NewOsFs(), os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(display.Index(d))
}
