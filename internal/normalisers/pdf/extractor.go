package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// Extractor returns the text of each page of a PDF.
type Extractor interface {
	Pages(ctx context.Context, data []byte) ([]string, error)
}

var (
	licenseOnce sync.Once
	licenseErr  error
)

// UniPDF extracts page text with the unipdf library.
type UniPDF struct{}

// NewUniPDF creates a unipdf extractor. A non-empty metered license key
// is registered once per process.
func NewUniPDF(licenseKey string) (*UniPDF, error) {
	if licenseKey != "" {
		licenseOnce.Do(func() {
			licenseErr = license.SetMeteredKey(licenseKey)
		})
		if licenseErr != nil {
			return nil, fmt.Errorf("set unidoc license: %w", licenseErr)
		}
	}
	return &UniPDF{}, nil
}

// Pages extracts the text of every page in order.
func (u *UniPDF) Pages(ctx context.Context, data []byte) ([]string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := reader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CheckAvailable reports whether pdftotext can be found.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext is part of poppler:
  macOS:  brew install poppler
  Debian: apt install poppler-utils
  Fedora: dnf install poppler-utils`
}

// Pdftotext extracts page text by running poppler's pdftotext.
type Pdftotext struct {
	runner CommandRunner
}

// NewPdftotext creates an extractor that runs the real binary.
func NewPdftotext() *Pdftotext {
	return &Pdftotext{runner: execRunner{}}
}

// NewPdftotextWithRunner creates an extractor with a custom runner.
func NewPdftotextWithRunner(runner CommandRunner) *Pdftotext {
	return &Pdftotext{runner: runner}
}

// Pages writes data to a temporary file and splits pdftotext's output on form feeds.
func (p *Pdftotext) Pages(ctx context.Context, data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "procedures-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := p.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	pages := strings.Split(string(out), "\f")
	if len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}
