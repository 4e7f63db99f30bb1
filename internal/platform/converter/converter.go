package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Aniket17200/presentpal/internal/config"
)

var (
	// ErrInvalidFileType is returned when the document's extension is not
	// on the slide deck allow-list.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrConversionFailed is returned when LibreOffice fails to produce a
	// PDF; the tool's diagnostic output is attached.
	ErrConversionFailed = errors.New("document conversion failed")

	// ErrRasterizationFailed is returned when pdftoppm fails to produce
	// page images.
	ErrRasterizationFailed = errors.New("pdf rasterization failed")
)

// allowedExtensions is the slide deck allow-list.
var allowedExtensions = map[string]bool{
	".ppt":  true,
	".pptx": true,
	".pps":  true,
	".ppsx": true,
}

// pageImagePattern matches the files pdftoppm emits for the "page" prefix.
var pageImagePattern = regexp.MustCompile(`^page-(\d+)\.png$`)

// CheckExtension validates a (lowercased) file extension against the
// slide deck allow-list.
func CheckExtension(ext string) error {
	if !allowedExtensions[strings.ToLower(ext)] {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, ext)
	}
	return nil
}

// Converter invokes the local conversion tools.
type Converter struct {
	sofficePath  string
	pdftoppmPath string
	logger       *slog.Logger
}

// New creates a Converter using the tool paths from cfg.
func New(cfg config.ConverterConfig, logger *slog.Logger) *Converter {
	return &Converter{
		sofficePath:  cfg.SofficePath,
		pdftoppmPath: cfg.PdftoppmPath,
		logger:       logger,
	}
}

// ConvertToPDF converts the document at docPath into a PDF placed in the
// same directory and returns the PDF's path.
func (c *Converter) ConvertToPDF(ctx context.Context, docPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(docPath))
	if err := CheckExtension(ext); err != nil {
		return "", err
	}

	outDir := filepath.Dir(docPath)
	cmd := exec.CommandContext(ctx, c.sofficePath, "--headless", "--convert-to", "pdf", "--outdir", outDir, docPath)

	c.logger.Debug("converting document to PDF", "path", docPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrConversionFailed, err, strings.TrimSpace(string(output)))
	}

	pdfPath := strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".pdf"
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%w: expected output %s missing: %v", ErrConversionFailed, pdfPath, err)
	}

	c.logger.Debug("PDF generated", "path", pdfPath)
	return pdfPath, nil
}

// RasterizePDF renders one PNG per page of the PDF into the PDF's
// directory and returns the image paths in page order.
func (c *Converter) RasterizePDF(ctx context.Context, pdfPath string) ([]string, error) {
	outDir := filepath.Dir(pdfPath)
	prefix := filepath.Join(outDir, "page")

	cmd := exec.CommandContext(ctx, c.pdftoppmPath, "-png", pdfPath, prefix)

	c.logger.Debug("rasterizing PDF", "path", pdfPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrRasterizationFailed, err, strings.TrimSpace(string(output)))
	}

	images, err := collectPageImages(outDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterizationFailed, err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no page images produced", ErrRasterizationFailed)
	}

	c.logger.Debug("page images generated", "count", len(images))
	return images, nil
}

// collectPageImages lists dir's page images sorted numerically by the page
// number embedded in the filename. Lexicographic order would put page-10
// before page-9, so the number is parsed and compared as an integer.
func collectPageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type pageImage struct {
		page int
		path string
	}

	var images []pageImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := pageImagePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		page, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		images = append(images, pageImage{page: page, path: filepath.Join(dir, entry.Name())})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].page < images[j].page })

	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.path
	}
	return paths, nil
}
