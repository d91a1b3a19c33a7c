// dump_sample runs the seed and inspects every index it leaves behind,
// writing all output to cmd/sample_run_output.txt. Run from repo root:
// go run ./cmd/dump_sample
package main

import (
	"CatalogDB/display"
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

const (
	baseDir    = "databases/demp"
	outputFile = "cmd/sample_run_output.txt"
)

func main() {
	outPath := outputFile
	// If run from cmd/dump_sample, output next to binary
	if _, err := os.Stat("cmd"); os.IsNotExist(err) {
		outPath = "sample_run_output.txt"
	}

	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	root := repoRoot()

	// 1) Run seed: capture stdout/stderr to file
	fmt.Fprintln(f, "========== SEED (create DB demp, tables, inserts, indexes) ==========")
	cmd := exec.Command("go", "run", "./cmd/seed")
	cmd.Stdout = f
	cmd.Stderr = f
	cmd.Dir = root
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(f, "seed exited with error: %v\n", err)
	}

	// 2) Dump each index file of the seeded database
	fs := afero.NewBasePathFs(afero.NewOsFs(), root)
	files, err := afero.Glob(fs, filepath.Join(baseDir, "*"+indexfile.FileExt))
	if err != nil {
		fmt.Fprintf(f, "list indexes: %v\n", err)
	}
	sort.Strings(files)
	for _, path := range files {
		fmt.Fprintf(f, "\n========== INSPECT %s ==========\n", filepath.Base(path))
		d, err := indexfile.DumpFile(fs, path)
		if err != nil {
			fmt.Fprintf(f, "inspect error: %v\n", err)
			continue
		}
		fmt.Fprintln(f, display.Index(d))
	}

	fmt.Printf("Output written to %s\n", outPath)
}

func repoRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
