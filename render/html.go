package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jgwest/htmldiff-cli/logging"
)

// HTML is the built-in DiffRenderer. It produces a standalone HTML document
// marking inserted and deleted lines between two text files.
type HTML struct {
	ColorScheme string
}

var htmlLog zerolog.Logger = logging.Component("render")

// NormalizeOutputPath appends '.html' unless the path already ends in
// '.html' or '.htm'.
func NormalizeOutputPath(path string) string {

	lower := strings.ToLower(path)

	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		return path
	}

	return path + ".html"
}

func (h HTML) Render(ctx context.Context, fileA string, fileB string, outputPath string) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	scheme, err := lookupColorScheme(h.ColorScheme)
	if err != nil {
		return err
	}

	contentA, err := readTextFile(fileA)
	if err != nil {
		return err
	}

	contentB, err := readTextFile(fileB)
	if err != nil {
		return err
	}

	// Line-granular diff: lines are mapped to runes, diffed, then mapped back.
	dmp := diffmatchpatch.New()
	charsA, charsB, lineIndex := dmp.DiffLinesToChars(contentA, contentB)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lineIndex)

	changed := countChangedLines(diffs)

	outputPath = NormalizeOutputPath(outputPath)

	var doc string
	if changed == 0 {
		doc = noDifferencesDocument(fileA, fileB, scheme)
	} else {
		doc = diffDocument(fileA, fileB, diffs, scheme)
	}

	if err := os.WriteFile(outputPath, []byte(doc), 0644); err != nil {
		return fmt.Errorf("unable to write '%s': %w", outputPath, err)
	}

	htmlLog.Info().Str("output", outputPath).Int("changed_lines", changed).Msg("rendered comparison")

	return nil
}

// readTextFile reads the file and rejects binary content: the renderer only
// compares plain text.
func readTextFile(path string) (string, error) {

	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	sniff := content
	if len(sniff) > 8192 {
		sniff = sniff[:8192]
	}

	if bytes.ContainsRune(sniff, 0) {
		return "", fmt.Errorf("'%s' appears to be a binary file, only text files can be compared", path)
	}

	return string(content), nil
}

func countChangedLines(diffs []diffmatchpatch.Diff) int {

	changed := 0

	for _, diff := range diffs {
		if diff.Type == diffmatchpatch.DiffEqual {
			continue
		}
		changed += len(splitLines(diff.Text))
	}

	return changed
}

func splitLines(text string) []string {

	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}

func diffDocument(fileA string, fileB string, diffs []diffmatchpatch.Diff, scheme colorScheme) string {

	var body strings.Builder

	body.WriteString("<pre>\n")

	for _, diff := range diffs {

		var class, marker string

		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			class, marker = "add", "+ "
		case diffmatchpatch.DiffDelete:
			class, marker = "del", "- "
		default:
			class, marker = "ctx", "  "
		}

		for _, line := range splitLines(diff.Text) {
			body.WriteString(fmt.Sprintf("<span class=%q>%s%s</span>\n", class, marker, html.EscapeString(line)))
		}
	}

	body.WriteString("</pre>\n")

	return documentShell(fileA, fileB, scheme, body.String())
}

func noDifferencesDocument(fileA string, fileB string, scheme colorScheme) string {
	return documentShell(fileA, fileB, scheme, "<p>No differences were found.</p>\n")
}

func documentShell(fileA string, fileB string, scheme colorScheme, body string) string {

	title := fmt.Sprintf("%s vs %s", filepath.Base(fileA), filepath.Base(fileB))

	var doc strings.Builder

	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	doc.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(title)))
	doc.WriteString("<style>\n" + scheme.css + "</style>\n")
	doc.WriteString("</head>\n<body>\n")
	doc.WriteString(fmt.Sprintf("<div class=\"header\">%s &harr; %s</div>\n",
		html.EscapeString(fileA), html.EscapeString(fileB)))
	doc.WriteString(body)
	doc.WriteString("</body>\n</html>\n")

	return doc.String()
}

type colorScheme struct {
	name string
	css  string
}

var colorSchemes = []colorScheme{
	{
		// Modelled on vim's desert scheme, the default of the original tool.
		name: "desert",
		css: `body { background: #333333; color: #ffffff; font-family: monospace; }
.header { color: #f0e68c; margin-bottom: 1em; }
.add { background: #2f4f2f; display: inline-block; width: 100%; }
.del { background: #6b3030; display: inline-block; width: 100%; }
.ctx { color: #c2bfa5; }
`,
	},
	{
		name: "light",
		css: `body { background: #ffffff; color: #000000; font-family: monospace; }
.header { color: #555555; margin-bottom: 1em; }
.add { background: #ddffdd; display: inline-block; width: 100%; }
.del { background: #ffdddd; display: inline-block; width: 100%; }
.ctx { color: #333333; }
`,
	},
}

// DefaultColorScheme is used when no scheme is configured.
const DefaultColorScheme = "desert"

func lookupColorScheme(name string) (colorScheme, error) {

	if name == "" {
		name = DefaultColorScheme
	}

	for _, scheme := range colorSchemes {
		if scheme.name == name {
			return scheme, nil
		}
	}

	return colorScheme{}, fmt.Errorf("unknown color scheme '%s'", name)
}
