// Package rendering compiles a tailored resume into a PDF through the Typst
// CLI. Markup is generated from the validated tailoring output and piped to
// `typst compile`; the binary must be on PATH (or configured explicitly).
package rendering

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/types"
)

// defaultCompileTimeout bounds a single Typst compilation
const defaultCompileTimeout = 60 * time.Second

// Renderer compiles tailored resumes to PDF
type Renderer struct {
	typstBin string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRenderer creates a renderer using the given Typst binary path. An empty
// path falls back to "typst" on PATH.
func NewRenderer(typstBin string, logger *zap.Logger) *Renderer {
	if typstBin == "" {
		typstBin = "typst"
	}
	return &Renderer{typstBin: typstBin, timeout: defaultCompileTimeout, logger: logger}
}

// RenderPDF compiles the resume and returns the PDF bytes
func (r *Renderer) RenderPDF(ctx context.Context, resume *types.TailoredResume) ([]byte, error) {
	markup := BuildMarkup(resume)

	dir, err := os.MkdirTemp("", "cherrypick-render-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create render dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	srcPath := filepath.Join(dir, "resume.typ")
	pdfPath := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(srcPath, []byte(markup), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write markup: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.typstBin, "compile", srcPath, pdfPath)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("typst compile failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled PDF: %w", err)
	}

	r.logger.Info("resume rendered",
		zap.String("job_id", resume.JobID.String()),
		zap.Int("pdf_bytes", len(pdf)))
	return pdf, nil
}

// BuildMarkup generates the Typst source for a tailored resume
func BuildMarkup(resume *types.TailoredResume) string {
	var sb strings.Builder

	sb.WriteString("#set page(margin: 1.6cm)\n")
	sb.WriteString("#set text(font: \"New Computer Modern\", size: 10pt)\n\n")
	sb.WriteString(fmt.Sprintf("= Resume — %s", Escape(resume.JobTitle)))
	if resume.CompanyName != "" {
		sb.WriteString(fmt.Sprintf(" at %s", Escape(resume.CompanyName)))
	}
	sb.WriteString("\n\n")

	if len(resume.Experiences) > 0 {
		sb.WriteString("== Experience\n\n")
		for _, exp := range resume.Experiences {
			sb.WriteString(fmt.Sprintf("*%s*, %s", Escape(exp.RoleTitle), Escape(exp.CompanyName)))
			if exp.Location != "" {
				sb.WriteString(fmt.Sprintf(" — %s", Escape(exp.Location)))
			}
			sb.WriteString(fmt.Sprintf(" #h(1fr) %s\n", FormatDateRange(exp.StartDate, exp.EndDate, exp.IsCurrent)))
			for _, b := range exp.BulletPoints {
				sb.WriteString(fmt.Sprintf("- %s\n", Escape(b.Content)))
			}
			sb.WriteString("\n")
		}
	}

	if len(resume.Projects) > 0 {
		sb.WriteString("== Projects\n\n")
		for _, proj := range resume.Projects {
			sb.WriteString(fmt.Sprintf("*%s*", Escape(proj.Name)))
			if len(proj.Technologies) > 0 {
				sb.WriteString(fmt.Sprintf(" — %s", Escape(strings.Join(proj.Technologies, ", "))))
			}
			sb.WriteString("\n")
			for _, b := range proj.BulletPoints {
				sb.WriteString(fmt.Sprintf("- %s\n", Escape(b.Content)))
			}
			sb.WriteString("\n")
		}
	}

	if len(resume.Skills) > 0 {
		sb.WriteString("== Skills\n\n")
		names := make([]string, 0, len(resume.Skills))
		for _, s := range resume.Skills {
			names = append(names, Escape(s.Name))
		}
		sb.WriteString(strings.Join(names, " • "))
		sb.WriteString("\n\n")
	}

	if len(resume.Education) > 0 {
		sb.WriteString("== Education\n\n")
		for _, edu := range resume.Education {
			sb.WriteString(fmt.Sprintf("*%s*, %s", Escape(edu.Institution), Escape(edu.Degree)))
			if edu.FieldOfStudy != "" {
				sb.WriteString(fmt.Sprintf(" in %s", Escape(edu.FieldOfStudy)))
			}
			sb.WriteString(fmt.Sprintf(" #h(1fr) %s\n\n", FormatDateRange(edu.StartDate, edu.EndDate, false)))
		}
	}

	return sb.String()
}

// typstEscaper escapes characters Typst treats as markup
var typstEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"#", "\\#",
	"*", "\\*",
	"_", "\\_",
	"$", "\\$",
	"@", "\\@",
	"<", "\\<",
	">", "\\>",
	"[", "\\[",
	"]", "\\]",
)

// Escape makes arbitrary text safe to embed in Typst markup
func Escape(text string) string {
	return typstEscaper.Replace(text)
}

// FormatDateRange renders a date span like "Jan 2024 - Present"
func FormatDateRange(start time.Time, end *time.Time, isCurrent bool) string {
	from := start.Format("Jan 2006")
	switch {
	case isCurrent || end == nil:
		return fmt.Sprintf("%s - Present", from)
	default:
		return fmt.Sprintf("%s - %s", from, end.Format("Jan 2006"))
	}
}
