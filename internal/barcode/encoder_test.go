package barcode

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestDeriveBarcodeValueFormat(t *testing.T) {
	value := DeriveBarcodeValue("ACME", "F100")

	pattern := regexp.MustCompile(`^ACME-F100-\d{6}$`)
	if !pattern.MatchString(value) {
		t.Errorf("unexpected barcode format: %q", value)
	}
}

func TestDeriveBarcodeValueUppercases(t *testing.T) {
	value := DeriveBarcodeValue("acme", "f100x")

	if value != strings.ToUpper(value) {
		t.Errorf("barcode value not upper-cased: %q", value)
	}
	if !strings.HasPrefix(value, "ACME-F100X-") {
		t.Errorf("unexpected prefix: %q", value)
	}
}

func TestDeriveBarcodeValueRetryToken(t *testing.T) {
	value := DeriveBarcodeValue("ACME", "F100-0")

	pattern := regexp.MustCompile(`^ACME-F100-0-\d{6}$`)
	if !pattern.MatchString(value) {
		t.Errorf("unexpected retry barcode format: %q", value)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ACME-F100-250042", "ACME_F100_250042"},
		{"simple", "simple"},
		{"a b/c\\d", "a_b_c_d"},
		{"dots.and.spaces here", "dots_and_spaces_here"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScanURL(t *testing.T) {
	e := &Encoder{BaseURL: "https://track.example.com"}

	got := e.ScanURL("acme-f100-250042")
	want := "https://track.example.com/api/v1/barcodes/public/scan/ACME-F100-250042"
	if got != want {
		t.Errorf("ScanURL = %q, want %q", got, want)
	}
}

func TestRenderArtifactWritesPNG(t *testing.T) {
	e := &Encoder{UploadsDir: t.TempDir(), BaseURL: "http://localhost:5000"}

	artifact, err := e.RenderArtifact("ACME-F100-250042", "AST-001")
	if err != nil {
		t.Fatalf("RenderArtifact failed: %v", err)
	}

	data, err := os.ReadFile(artifact.FilePath)
	if err != nil {
		t.Fatalf("artifact not on disk: %v", err)
	}
	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("artifact is not a PNG, first bytes: %v", data[:4])
	}

	if !strings.HasPrefix(artifact.RelativePath, "uploads/barcodes/") {
		t.Errorf("unexpected relative path: %q", artifact.RelativePath)
	}
	if !strings.HasPrefix(artifact.Filename, "ACME_F100_250042_") {
		t.Errorf("unexpected filename: %q", artifact.Filename)
	}
	if !strings.HasSuffix(artifact.Filename, ".png") {
		t.Errorf("filename missing .png suffix: %q", artifact.Filename)
	}
}

func TestRenderArtifactWithoutCaption(t *testing.T) {
	e := &Encoder{UploadsDir: t.TempDir(), BaseURL: "http://localhost:5000"}

	artifact, err := e.RenderArtifact("ACME-F100-250042", "")
	if err != nil {
		t.Fatalf("RenderArtifact failed: %v", err)
	}
	if _, err := os.Stat(artifact.FilePath); err != nil {
		t.Errorf("artifact not on disk: %v", err)
	}
}

func TestRenderArtifactMissingLogoTolerated(t *testing.T) {
	e := &Encoder{
		UploadsDir: t.TempDir(),
		BaseURL:    "http://localhost:5000",
		LogoPath:   filepath.Join(t.TempDir(), "nothing-here.png"),
	}

	if _, err := e.RenderArtifact("ACME-F100-250042", "AST-001"); err != nil {
		t.Errorf("missing logo should not fail the render: %v", err)
	}
}

func TestRenderArtifactSuccessiveFilenamesDiffer(t *testing.T) {
	e := &Encoder{UploadsDir: t.TempDir(), BaseURL: "http://localhost:5000"}

	first, err := e.RenderArtifact("ACME-F100-250042", "")
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := e.RenderArtifact("ACME-F100-250042", "")
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if first.Filename == second.Filename {
		t.Errorf("successive renders produced the same filename %q", first.Filename)
	}
}

func TestRemoveArtifact(t *testing.T) {
	e := &Encoder{UploadsDir: t.TempDir(), BaseURL: "http://localhost:5000"}

	artifact, err := e.RenderArtifact("ACME-F100-250042", "")
	if err != nil {
		t.Fatalf("RenderArtifact failed: %v", err)
	}

	if err := e.RemoveArtifact(artifact.RelativePath); err != nil {
		t.Fatalf("RemoveArtifact failed: %v", err)
	}
	if _, err := os.Stat(artifact.FilePath); !os.IsNotExist(err) {
		t.Errorf("artifact still on disk after removal")
	}
}

func TestRemoveArtifactEmptyPathIsNoop(t *testing.T) {
	e := &Encoder{UploadsDir: t.TempDir()}

	if err := e.RemoveArtifact(""); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}
