package barcode

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // logo decoding
	"image/png"
	"log"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// qrPixelSize is the rendered edge length of the code itself.
	qrPixelSize = 250
	// logoRatio sizes the optional logo relative to the code width. Combined
	// with the Highest recovery level the overlay stays well inside the ~30%
	// damage budget.
	logoRatio = 0.18
	// captionHeight is the extra strip below the code for the caption text.
	captionHeight = 40
	canvasPadding = 10

	artifactSubdir = "barcodes"
	urlPrefix      = "uploads"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DeriveBarcodeValue builds the canonical barcode string
// DEALERCODE-FIXTURETOKEN-YYSSSS, upper-cased. The two-digit year plus a
// 4-digit slice of the millisecond clock make collisions rare across calls,
// but uniqueness is only guaranteed by the reservation step, not here.
func DeriveBarcodeValue(dealerCode, fixtureToken string) string {
	now := time.Now()
	year := now.Format("06")
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	suffix := millis[len(millis)-4:]
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s%s", dealerCode, fixtureToken, year, suffix))
}

// Artifact references one rendered barcode image: RelativePath is what gets
// stored on the asset and served over HTTP, FilePath locates it on disk for
// later deletion.
type Artifact struct {
	Filename     string
	FilePath     string
	RelativePath string
}

// Encoder renders barcode values into scannable PNG artifacts.
type Encoder struct {
	UploadsDir string // local uploads root on disk
	BaseURL    string // public base URL embedded in the QR payload
	LogoPath   string // optional logo composited onto the code; empty disables
}

// ScanURL is the payload encoded into the QR matrix: the public scan endpoint
// for the value, not the raw value itself.
func (e *Encoder) ScanURL(barcodeValue string) string {
	return fmt.Sprintf("%s/api/v1/barcodes/public/scan/%s", e.BaseURL, strings.ToUpper(barcodeValue))
}

// SanitizeFilename strips everything outside [A-Za-z0-9] so arbitrary fixture
// and asset numbers survive as filesystem names.
func SanitizeFilename(value string) string {
	return unsafeChars.ReplaceAllString(value, "_")
}

// RenderArtifact encodes barcodeValue as a QR image with high error
// correction, composites the configured logo if one is readable (its absence
// is not an error), optionally prints captionText below the code, and writes
// the result atomically under the barcode artifacts directory. The filename
// carries a nanosecond suffix so successive renders of the same value never
// collide.
func (e *Encoder) RenderArtifact(barcodeValue, captionText string) (*Artifact, error) {
	dir := filepath.Join(e.UploadsDir, artifactSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to generate barcode artifact: %w", err)
	}

	qr, err := qrcode.New(e.ScanURL(barcodeValue), qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("failed to generate barcode artifact: %w", err)
	}

	qrImage := imageToRGBA(qr.Image(qrPixelSize))
	e.compositeLogo(qrImage)

	var final *image.RGBA
	if captionText != "" {
		final = withCaption(qrImage, captionText)
	} else {
		final = qrImage
	}

	filename := fmt.Sprintf("%s_%d.png", SanitizeFilename(strings.ToUpper(barcodeValue)), time.Now().UnixNano())
	filePath := filepath.Join(dir, filename)

	if err := writePNGAtomic(filePath, final); err != nil {
		return nil, fmt.Errorf("failed to generate barcode artifact: %w", err)
	}

	return &Artifact{
		Filename:     filename,
		FilePath:     filePath,
		RelativePath: path.Join(urlPrefix, artifactSubdir, filename),
	}, nil
}

// RemoveArtifact deletes a previously rendered artifact by its stored
// relative path.
func (e *Encoder) RemoveArtifact(relativePath string) error {
	if relativePath == "" {
		return nil
	}
	rel := strings.TrimPrefix(relativePath, urlPrefix+"/")
	return os.Remove(filepath.Join(e.UploadsDir, filepath.FromSlash(rel)))
}

// compositeLogo overlays the configured logo centered on the code with an
// opaque white backing patch. Any failure just leaves the plain code.
func (e *Encoder) compositeLogo(qrImage *image.RGBA) {
	if e.LogoPath == "" {
		return
	}
	f, err := os.Open(e.LogoPath)
	if err != nil {
		return
	}
	defer f.Close()

	logo, _, err := image.Decode(f)
	if err != nil {
		log.Printf("barcode: cannot decode logo %s, rendering without it: %v", e.LogoPath, err)
		return
	}

	width := qrImage.Bounds().Dx()
	logoSize := int(float64(width) * logoRatio)
	scaled := image.NewRGBA(image.Rect(0, 0, logoSize, logoSize))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), logo, logo.Bounds(), xdraw.Over, nil)

	bgSize := logoSize + canvasPadding
	bgMin := image.Pt((width-bgSize)/2, (qrImage.Bounds().Dy()-bgSize)/2)
	draw.Draw(qrImage, image.Rectangle{Min: bgMin, Max: bgMin.Add(image.Pt(bgSize, bgSize))},
		image.NewUniform(color.White), image.Point{}, draw.Src)

	logoMin := image.Pt((width-logoSize)/2, (qrImage.Bounds().Dy()-logoSize)/2)
	draw.Draw(qrImage, image.Rectangle{Min: logoMin, Max: logoMin.Add(image.Pt(logoSize, logoSize))},
		scaled, image.Point{}, draw.Over)
}

// withCaption extends the canvas downward and center-prints the caption.
func withCaption(qrImage *image.RGBA, captionText string) *image.RGBA {
	qrW := qrImage.Bounds().Dx()
	qrH := qrImage.Bounds().Dy()

	canvas := image.NewRGBA(image.Rect(0, 0, qrW+2*canvasPadding, qrH+captionHeight+2*canvasPadding))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(canvasPadding, canvasPadding, canvasPadding+qrW, canvasPadding+qrH),
		qrImage, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	textWidth := drawer.MeasureString(captionText)
	drawer.Dot = fixed.Point26_6{
		X: (fixed.I(canvas.Bounds().Dx()) - textWidth) / 2,
		Y: fixed.I(canvasPadding + qrH + captionHeight/2 + face.Ascent/2),
	}
	drawer.DrawString(captionText)

	return canvas
}

func imageToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba
}

// writePNGAtomic writes to a temp file and renames it into place so a crash
// mid-encode never leaves a partially written artifact behind.
func writePNGAtomic(filePath string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".barcode-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
