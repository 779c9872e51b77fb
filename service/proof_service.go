package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"strings"
	"time"

	"artframe-storefront/models"
	"artframe-storefront/utils"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed templates/proof.html
var proofTemplates embed.FS

const proofTimeout = 30 * time.Second

// ProofService renders a printable proof sheet of a configured order line
type ProofService struct {
	lines      LineBuilder
	chromePath string
	tmpl       *template.Template
}

// NewProofService creates a new ProofService. chromePath may be empty to auto-detect
func NewProofService(lines LineBuilder, chromePath string) (*ProofService, error) {
	tmpl, err := template.ParseFS(proofTemplates, "templates/proof.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse proof template: %w", err)
	}
	return &ProofService{
		lines:      lines,
		chromePath: chromePath,
		tmpl:       tmpl,
	}, nil
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	// Common paths to check
	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

type proofData struct {
	Line           *models.OrderLine
	CreatedAt      string
	Size           string
	UnitPrice      string
	LineTotal      string
	ProductImage   template.URL
	ArtworkPreview template.URL
	ArtworkName    string
	Instructions   string
}

// RenderHTML renders the proof sheet of line
func (s *ProofService) RenderHTML(line *models.OrderLine) (string, error) {
	data := proofData{
		Line:         line,
		CreatedAt:    line.CreatedAt.Format("2006-01-02 15:04 MST"),
		Size:         displaySize(line),
		UnitPrice:    utils.FormatPrice(line.UnitPrice),
		LineTotal:    utils.FormatPrice(line.LineTotal),
		ProductImage: template.URL(line.Image),
	}
	if d := line.Design; d != nil {
		data.ArtworkName = d.AssetFileName
		data.Instructions = d.Instructions
		if strings.HasPrefix(d.AssetDataURI, "data:image/") {
			data.ArtworkPreview = template.URL(d.AssetDataURI)
		}
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// displaySize renders the size with inch units
func displaySize(line *models.OrderLine) string {
	size := line.Size
	if line.Custom || size == "" {
		size = utils.FormatSize(line.Dimensions)
	}
	w, h, ok := strings.Cut(size, "X")
	if !ok {
		return size
	}
	return fmt.Sprintf(`%s" × %s"`, w, h)
}

// GeneratePDF validates the session and prints its proof sheet with headless Chrome
func (s *ProofService) GeneratePDF(ctx context.Context, sessionID string) ([]byte, error) {
	line, err := s.lines.BuildLine(sessionID)
	if err != nil {
		return nil, err
	}

	html, err := s.RenderHTML(line)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, proofTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		log.Printf("❌ GeneratePDF: Failed to print proof for line %s: %v", line.LineID, err)
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("✅ GeneratePDF: Proof for line %s, %d bytes", line.LineID, len(pdfBuf))
	return pdfBuf, nil
}
