package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/loam-export/pkg/adapters/vault"
	"github.com/aretw0/loam-export/pkg/host"
	"github.com/aretw0/loam-export/pkg/plugin"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	method := flag.String("method", "deflate", "Zip compression method")
	keep := flag.Bool("keep", false, "Keep the benchmark vault after running")
	flag.Parse()

	// 1. Setup Namespace
	benchDir, err := os.MkdirTemp("", "loam_export_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	vaultDir := filepath.Join(benchDir, "vault")
	outDir := filepath.Join(benchDir, "out")
	if err := os.MkdirAll(vaultDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating %d notes in %s...\n", *count, vaultDir)
	startGen := time.Now()

	// Direct writes simulate an existing vault.
	for i := 0; i < *count; i++ {
		content := fmt.Sprintf("---\ntitle: Note %d\ntags: [benchmark, test/bench]\n---\n# Benchmark Note %d\nThis is a \"test\" note.\n", i, i)
		filename := filepath.Join(vaultDir, fmt.Sprintf("note_%d.md", i))
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	newHost := func() *host.Host {
		store := vault.NewStore(vault.Config{Path: vaultDir, MustExist: true, Logger: logger})
		if err := store.Initialize(ctx); err != nil {
			panic(err)
		}
		return host.New(store,
			host.WithOutputDir(outDir),
			host.WithOutput(&bytes.Buffer{}),
			host.WithAnswers("test"),
			host.WithLogger(logger),
		)
	}

	// Run 1: CSV export of the whole vault
	fmt.Println("Running CSV export...")
	csvHost := newHost()
	startCSV := time.Now()
	if err := plugin.ExportCSV(ctx, csvHost, plugin.WithLogger(logger), plugin.WithFlushTrailing(true)); err != nil {
		panic(err)
	}
	csvDuration := time.Since(startCSV)
	fmt.Printf("CSV Result: %v (Files: %d)\n", csvDuration, len(csvHost.Saved()))

	// Run 2: tag export, matching every note through the "test/bench" subtag
	fmt.Println("Running Tag export...")
	tagHost := newHost()
	startTag := time.Now()
	if err := plugin.ExportTag(ctx, tagHost, plugin.WithLogger(logger), plugin.WithArchiveMethod(*method)); err != nil {
		panic(err)
	}
	tagDuration := time.Since(startTag)

	size := int64(0)
	if info, err := os.Stat(filepath.Join(outDir, "test.zip")); err == nil {
		size = info.Size()
	}

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes):\n", *count)
	fmt.Printf("  CSV:  %v\n", csvDuration)
	fmt.Printf("  Tag:  %v (%s, %d bytes)\n", tagDuration, *method, size)
	fmt.Printf("--------------------------------------------------\n")
}
