package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-dllup/internal/fileutil"
)

// SourceExt is the extension of dllup documents.
const SourceExt = ".dllu"

// MaxWorkers bounds --workers.
const MaxWorkers = 64

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .dllu extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoSources          = errors.New("no .dllu files found")
)

// FileToRender represents a single document to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
	RelDir     string // slash-separated directory relative to the input root, "." at the top
}

// discoverFiles finds all documents to render. ext is the output extension
// without dot. Hidden directories are skipped.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateSourceExtension(inputPath); err != nil {
			return nil, err
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "", ext)
		if err != nil {
			return nil, err
		}
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath, RelDir: "."}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != SourceExt {
			return nil
		}
		f, err := newFileToRender(path, outputDir, inputPath, ext)
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})

	return files, err
}

// newFileToRender builds the entry for a source found under baseInputDir.
func newFileToRender(path, outputDir, baseInputDir, ext string) (FileToRender, error) {
	outPath, err := resolveOutputPath(path, outputDir, baseInputDir, ext)
	if err != nil {
		return FileToRender{}, err
	}
	relDir := "."
	if rel, err := filepath.Rel(baseInputDir, filepath.Dir(path)); err == nil {
		relDir = filepath.ToSlash(rel)
	}
	return FileToRender{InputPath: path, OutputPath: outPath, RelDir: relDir}, nil
}

// resolveOutputPath determines the output path for a document. Without an
// output directory the result sits next to the source.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) (string, error) {
	if outputDir == "" {
		return fileutil.ReplaceExt(inputPath, ext)
	}

	if strings.HasSuffix(outputDir, "."+ext) {
		return outputDir, nil
	}

	name, err := fileutil.ReplaceExt(filepath.Base(inputPath), ext)
	if err != nil {
		return "", err
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name), nil
		}
	}

	return filepath.Join(outputDir, name), nil
}

// validateSourceExtension checks that the file has a .dllu extension.
func validateSourceExtension(path string) error {
	if ext := filepath.Ext(path); ext != SourceExt {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}
