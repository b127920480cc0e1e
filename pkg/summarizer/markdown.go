package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		if fn != nil {
			f.translate = fn
		}
	}
}

// WithVersion adds the tool version to the document footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Batch Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))

	// Recipe
	fmt.Fprintf(&b, "## %s\n\n", t("Recipe"))
	b.WriteString("| | |\n|---|---|\n")
	if s.Recipe.Source != "" {
		row(&b, t("Source"), s.Recipe.Source)
	}
	ops := "-"
	if len(s.Recipe.Operations) > 0 {
		ops = strings.Join(s.Recipe.Operations, " → ")
	}
	row(&b, t("Operations"), ops)
	if s.Recipe.Format != "" {
		row(&b, t("Format"), s.Recipe.Format)
	}
	if s.Recipe.Quality > 0 {
		row(&b, t("Quality"), fmt.Sprintf("%d", s.Recipe.Quality))
	}
	b.WriteString("\n")

	// Totals
	fmt.Fprintf(&b, "## %s\n\n", t("Results"))
	b.WriteString("| | |\n|---|---|\n")
	row(&b, t("Succeeded"), fmt.Sprintf("%d", s.Batch.Succeeded))
	row(&b, t("Failed"), fmt.Sprintf("%d", s.Batch.Failed))
	row(&b, t("Workers"), fmt.Sprintf("%d", s.Batch.Workers))
	row(&b, t("Duration"), fmt.Sprintf("%d ms", s.Batch.DurationMs))
	row(&b, t("Input Size"), formatBytes(s.TotalInputBytes()))
	row(&b, t("Output Size"), formatBytes(s.TotalOutputBytes()))
	b.WriteString("\n")

	if len(s.Images) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Images"))
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			t("Input"), t("Output"), t("Dimensions"), t("Size"), t("Duration"))
		b.WriteString("|---|---|---|---|---|\n")
		for _, img := range s.Images {
			if img.Error != "" {
				fmt.Fprintf(&b, "| %s | %s: %s | - | - | - |\n",
					escape(img.Input), t("Failed"), escape(img.Error))
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %dx%d → %dx%d | %s → %s | %d ms |\n",
				escape(img.Input), escape(img.Output),
				img.InputWidth, img.InputHeight, img.OutputWidth, img.OutputHeight,
				formatBytes(img.InputBytes), formatBytes(img.OutputBytes),
				img.DurationMs)
		}
		b.WriteString("\n")
	}

	if f.version != "" {
		fmt.Fprintf(&b, "---\n\n%s %s\n", t("Generated by simpleimage"), f.version)
	}

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, escape(value))
}

// escape keeps table cells intact.
func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit && exp < 2; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
