package fileutil_test

// Notes:
// - The Write, Close and Chmod error branches in WriteFileAtomic are not
//   tested because triggering disk write failures is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-dllup/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{
			name:      "valid extension html",
			extension: "html",
			wantErr:   nil,
		},
		{
			name:      "valid extension tex",
			extension: "tex",
			wantErr:   nil,
		},
		{
			name:      "empty extension",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
		{
			name:      "forward slash path traversal",
			extension: "../etc/passwd",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "backslash path traversal",
			extension: "..\\windows\\system32",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "null byte injection",
			extension: "html\x00exe",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestReplaceExt - Output path derivation
// ---------------------------------------------------------------------------

func TestReplaceExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		extension string
		want      string
		wantErr   error
	}{
		{
			name:      "dllu to html",
			path:      "notes/a.dllu",
			extension: "html",
			want:      "notes/a.html",
		},
		{
			name:      "no extension",
			path:      "README",
			extension: "tex",
			want:      "README.tex",
		},
		{
			name:      "dots in directory",
			path:      "v1.2/page.dllu",
			extension: "html",
			want:      "v1.2/page.html",
		},
		{
			name:      "invalid extension",
			path:      "a.dllu",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.ReplaceExt(tt.path, tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReplaceExt() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReplaceExt(%q, %q) = %q, want %q", tt.path, tt.extension, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "svg file",
			content: `<svg xmlns="http://www.w3.org/2000/svg"></svg>`,
		},
		{
			name:    "empty content",
			content: "",
		},
		{
			name:    "large content",
			content: strings.Repeat("x", 1024*1024),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "out.svg")
			if err := fileutil.WriteFileAtomic(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFileAtomic() error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("file content length = %d, want %d", len(data), len(tt.content))
			}
		})
	}
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")

	if err := fileutil.WriteFileAtomic(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("first write error = %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("second write error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want new", data)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestWriteFileAtomic_ConcurrentSameContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "eq.svg")
	content := []byte("<svg></svg>")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fileutil.WriteFileAtomic(path, content, 0o644); err != nil {
				t.Errorf("WriteFileAtomic() error = %v", err)
			}
		}()
	}
	wg.Wait()

	data, _ := os.ReadFile(path)
	if string(data) != string(content) {
		t.Errorf("content = %q, want %q", data, content)
	}
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.svg")
	err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644)
	if err == nil {
		t.Fatal("WriteFileAtomic() expected error for missing directory, got nil")
	}
	if !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("error = %q, want error containing 'creating temp file'", err.Error())
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Existence checks
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		wantFile bool
		wantDir  bool
	}{
		{
			name:     "existing file",
			path:     testFile,
			wantFile: true,
		},
		{
			name:    "directory",
			path:    testDir,
			wantDir: true,
		},
		{
			name: "nonexistent path",
			path: filepath.Join(tempDir, "nonexistent"),
		},
		{
			name: "empty path",
			path: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.wantFile {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
			}
			if got := fileutil.DirExists(tt.path); got != tt.wantDir {
				t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL - String classification
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"dllup", false},
		{"./custom.css", true},
		{"../shared/style.css", true},
		{"/absolute/path.css", true},
		{"C:\\windows\\path.css", true},
		{"monokai", false},
		{"name.with.dots", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"https://www.dllu.net/a.png", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"img/a.png", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsURL(tt.input); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
