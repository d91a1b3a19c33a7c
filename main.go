package main

import (
	"CatalogDB/config"
	"CatalogDB/logging"
	executor "CatalogDB/query_executor"
	storageengine "CatalogDB/storage_engine"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/afero"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "catalogdb.json", "path to a JSON config file")
	root := flag.String("root", "", "directory holding the databases (overrides config)")
	logLevel := flag.String("log-level", "", "DEBUG, INFO, WARN or ERROR (overrides config)")
	flag.Parse()

	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if *root != "" {
		cfg.DbRoot = *root
	}
	if *logLevel != "" {
		cfg.Log.Level = logging.LogLevel(strings.ToUpper(*logLevel))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if err := logging.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return 1
	}
	defer logging.Close()

	se, err := storageengine.NewStorageEngine(cfg, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storage engine: %v\n", err)
		return 1
	}
	defer func() {
		if err := se.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exec := executor.NewExecutor(se, os.Stdout)

	// catalogdb [flags] "STATEMENT" runs one statement and exits
	if flag.NArg() > 0 {
		if err := exec.Run(ctx, strings.Join(flag.Args(), " ")); err != nil {
			exec.PrintError(err)
			return 1
		}
		return 0
	}

	scanner := bufio.NewScanner(os.Stdin)
	// REPL
	for {
		if db := se.CurrentDatabase(); db != "" {
			fmt.Printf("db(%s)> ", db)
		} else {
			fmt.Print("db> ")
		}

		if !scanner.Scan() { // Ctrl+D pressed
			fmt.Println()
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			break
		}
		if line == "" {
			continue
		}

		if err := exec.Run(ctx, line); err != nil {
			exec.PrintError(err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
	}
	return 0
}
