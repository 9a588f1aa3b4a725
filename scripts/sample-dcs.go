//go:build ignore

// Sample a DCS treebank into a small fixture corpus.
// Keeps the first N sentences of every .conllu file, preserving the
// directory layout, so extraction can be tried without the full corpus.
// Usage: DCS_DIR=dcs SAMPLE_SENTENCES=20 go run ./scripts/sample-dcs.go
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jamesainslie/go-sandhi/internal/corpus"
)

func main() {
	inDir := envOr("DCS_DIR", "dcs")
	outDir := envOr("SAMPLE_DIR", "testdata/sample")
	limit, err := strconv.Atoi(envOr("SAMPLE_SENTENCES", "20"))
	if err != nil || limit <= 0 {
		fmt.Fprintf(os.Stderr, "Error: SAMPLE_SENTENCES must be a positive integer\n")
		os.Exit(1)
	}

	paths, err := corpus.Discover(inDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering %s: %v\n", inDir, err)
		os.Exit(1)
	}

	var files, sentences int
	for _, path := range paths {
		outFile := filepath.Join(outDir, corpus.ID(inDir, path)+corpus.DefaultExtension)
		n, err := sampleFile(path, outFile, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error sampling %s: %v\n", path, err)
			continue
		}
		files++
		sentences += n
	}

	fmt.Printf("Done! %d files, %d sentences written to %s/\n", files, sentences, outDir)
}

// sampleFile copies the first limit sentences of inPath to outPath.
// Sentences are separated by blank lines; comment lines travel with the
// sentence they precede.
func sampleFile(inPath, outPath string, limit int) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("opening file: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	sentences := 0
	inSentence := false
	for scanner.Scan() && sentences < limit {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if inSentence {
				sentences++
				inSentence = false
				fmt.Fprintln(w)
			}
			continue
		}
		inSentence = true
		fmt.Fprintln(w, line)
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scanning file: %w", err)
	}

	// Don't forget last sentence if no trailing blank
	if inSentence {
		sentences++
	}
	return sentences, w.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
