// Seed program: creates database "demp" with three tables, sample rows and
// a few indexes.
// Run: go run ./cmd/seed
// Then inspect: databases/demp/db.meta (catalog), databases/demp/*.heap and
// databases/demp/*.idx (B+ tree index files).
package main

import (
	"CatalogDB/config"
	"CatalogDB/dberr"
	executor "CatalogDB/query_executor"
	storageengine "CatalogDB/storage_engine"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"
)

const dbName = "demp"

func main() {
	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("config: %v", err)
	}

	se, err := storageengine.NewStorageEngine(cfg, afero.NewOsFs())
	if err != nil {
		log.Fatalf("storage engine: %v", err)
	}
	defer se.Shutdown()

	ctx := context.Background()
	exec := executor.NewExecutor(se, os.Stdout)
	run := func(sql string) {
		if err := exec.Run(ctx, sql); err != nil {
			log.Fatalf("execute %q: %v", sql, err)
		}
	}

	// start from scratch on every run
	if err := se.DropDatabase(dbName); err != nil && !errors.Is(err, dberr.ErrDatabaseNotFound) {
		log.Fatalf("drop %s: %v", dbName, err)
	}

	fmt.Printf("Creating database %s and its tables...\n", dbName)
	run("CREATE DATABASE " + dbName)
	run("USE " + dbName)

	run(`CREATE TABLE students (id CHAR(8), name CHAR(32), age INT)`)
	run(`INSERT INTO students VALUES ("S001", "Alice", 20)`)
	run(`INSERT INTO students VALUES ("S002", "Bob", 21)`)
	run(`INSERT INTO students VALUES ("S003", "Carol", 19)`)

	run(`CREATE TABLE courses (code CHAR(8), title CHAR(32))`)
	run(`INSERT INTO courses VALUES ("CS101", "Intro to CS")`)
	run(`INSERT INTO courses VALUES ("CS102", "Data Structures")`)

	run(`CREATE TABLE grades (id INT, course_code CHAR(8), grade CHAR(2))`)
	run(`INSERT INTO grades VALUES (1, "CS101", "A")`)
	run(`INSERT INTO grades VALUES (2, "CS102", "B")`)
	run(`INSERT INTO grades VALUES (3, "CS101", "A")`)

	run("CREATE INDEX students (id)")
	run("CREATE INDEX courses (code)")
	run("CREATE INDEX grades (id)")
	run("CREATE INDEX grades (course_code, id)")

	// course_code repeats, so this build must fail and leave nothing behind
	if err := exec.Run(ctx, "CREATE INDEX grades (course_code)"); err != nil {
		exec.PrintError(err)
	}

	for _, stmt := range []string{
		"SHOW TABLES",
		"DESC grades",
		"SELECT * FROM students",
		"SELECT * FROM courses",
		`SELECT * FROM grades WHERE course_code = "CS101"`,
	} {
		fmt.Printf("\n--- %s ---\n", stmt)
		run(stmt)
	}

	fmt.Println("\nDone. Inspect:")
	fmt.Println("  - Catalog:          ", cfg.DbRoot+"/"+dbName+"/db.meta")
	fmt.Println("  - Heap files:       ", cfg.DbRoot+"/"+dbName+"/*.heap")
	fmt.Println("  - Index files:      ", cfg.DbRoot+"/"+dbName+"/*.idx")
}
