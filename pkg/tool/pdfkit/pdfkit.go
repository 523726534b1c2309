// Package pdfkit provides the PDF editor agent's read-side tools: page
// counting and text extraction. Write-side page operations (merge, split,
// rotate, watermark) are external collaborators and are registered by the
// embedding application, not here.
package pdfkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pdfx "github.com/ledongthuc/pdf"

	"fileagents/pkg/tool"
)

// Page is the extracted text of one PDF page
type Page struct {
	Number int
	Text   string
}

// PageCountTool reports how many pages a PDF has
func PageCountTool() *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "pdf_page_count_tool",
		Description: "Returns the number of pages in a PDF file.",
		Parameters: map[string]tool.Parameter{
			"source_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path to the PDF file",
				Required:    true,
			},
		},
		SideEffect: tool.SideEffectReadOnly,
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			source, _ := args["source_path"].(string)

			f, reader, err := pdfx.Open(source)
			if err != nil {
				return nil, fmt.Errorf("open pdf %q: %w", source, err)
			}
			defer f.Close()

			return map[string]interface{}{
				"source_path": source,
				"pages":       reader.NumPage(),
			}, nil
		},
	}
}

// ExtractTextTool extracts the plain text of selected pages into a file
func ExtractTextTool() *tool.Descriptor {
	return &tool.Descriptor{
		Name: "pdf_extract_text_tool",
		Description: "Extracts the plain text of a PDF into a text file. An optional pages " +
			"selector like \"1-3,7\" restricts which pages are extracted.",
		Parameters: map[string]tool.Parameter{
			"source_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path to the PDF file",
				Required:    true,
			},
			"pages": {
				Type:        tool.ParameterTypeString,
				Description: "Page selector such as \"1-3,7\"; all pages when omitted",
			},
			"output_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path for the extracted text; defaults to the source path with a .txt extension",
			},
			"force_overwrite": {
				Type:        tool.ParameterTypeBoolean,
				Description: "Overwrite the output file if it already exists",
				Default:     false,
			},
		},
		SideEffect:      tool.SideEffectCreate,
		TargetPathParam: "output_path",
		ResolveTargetPath: func(args map[string]interface{}) string {
			source, _ := args["source_path"].(string)
			if source == "" {
				return ""
			}
			return strings.TrimSuffix(source, filepath.Ext(source)) + ".txt"
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			source, _ := args["source_path"].(string)
			output, _ := args["output_path"].(string)
			selector, _ := args["pages"].(string)

			if output == "" {
				output = strings.TrimSuffix(source, filepath.Ext(source)) + ".txt"
			}

			var sel func(total int) []int
			if strings.TrimSpace(selector) != "" {
				sel = func(total int) []int {
					return expandPages(selector, total)
				}
			}
			pages, err := ExtractPages(source, sel)
			if err != nil {
				return nil, err
			}

			var b strings.Builder
			for _, page := range pages {
				fmt.Fprintf(&b, "--- Page %d ---\n%s\n\n", page.Number, page.Text)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return nil, err
			}
			if err := os.WriteFile(output, []byte(b.String()), 0644); err != nil {
				return nil, fmt.Errorf("write text %q: %w", output, err)
			}

			return map[string]interface{}{
				"source_path": source,
				"output_path": output,
				"pages":       len(pages),
				"message":     fmt.Sprintf("Extracted %d pages to %q", len(pages), output),
			}, nil
		},
	}
}

// ExtractPages extracts the plain text of a PDF. The optional selector maps
// the total page count to the page numbers wanted; nil selects every page.
// A selector that matches no pages is an error, not a full extraction.
func ExtractPages(source string, selector func(total int) []int) ([]Page, error) {
	f, reader, err := pdfx.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open pdf %q: %w", source, err)
	}
	defer f.Close()

	numbers, err := selectPages(selector, reader.NumPage())
	if err != nil {
		return nil, fmt.Errorf("%q: %w", source, err)
	}

	pages := make([]Page, 0, len(numbers))
	for _, n := range numbers {
		text, err := reader.Page(n).GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %q: %w", n, source, err)
		}
		pages = append(pages, Page{Number: n, Text: strings.TrimSpace(text)})
	}
	return pages, nil
}

// selectPages resolves the selector against the document size. Nil selects
// every page; an explicit selector matching nothing is an error.
func selectPages(selector func(total int) []int, total int) ([]int, error) {
	if selector == nil {
		all := make([]int, total)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}
	numbers := selector(total)
	if len(numbers) == 0 {
		return nil, fmt.Errorf("page selector matches none of the %d pages", total)
	}
	return numbers, nil
}

// expandPages parses a selector like "1-3,7" into page numbers within the
// document, preserving order and dropping duplicates
func expandPages(selector string, total int) []int {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}

	var out []int
	seen := make(map[int]bool)
	add := func(n int) {
		if n >= 1 && n <= total && !seen[n] {
			out = append(out, n)
			seen[n] = true
		}
	}

	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			bounds := strings.SplitN(part, "-", 2)
			lo, _ := strconv.Atoi(strings.TrimSpace(bounds[0]))
			hi, _ := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if lo > hi {
				lo, hi = hi, lo
			}
			for i := lo; i <= hi; i++ {
				add(i)
			}
		} else {
			n, _ := strconv.Atoi(part)
			add(n)
		}
	}
	return out
}
