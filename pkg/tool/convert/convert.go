// Package convert provides the converter agent's tools: image format
// conversion and file-to-document extraction.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"fileagents/pkg/tool"
	"fileagents/pkg/tool/pdfkit"
)

// imageFormats maps accepted output formats to file extensions
var imageFormats = map[string]string{
	"jpg":  ".jpg",
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"tif":  ".tif",
	"tiff": ".tiff",
	"bmp":  ".bmp",
}

// ImageFormatConverterTool re-encodes an image into another format
func ImageFormatConverterTool() *tool.Descriptor {
	return &tool.Descriptor{
		Name: "image_format_converter_tool",
		Description: "Converts an image file to another format (jpg, png, gif, tif, bmp). " +
			"The output path defaults to the source path with the new extension.",
		Parameters: map[string]tool.Parameter{
			"source_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path to the image to convert",
				Required:    true,
			},
			"output_format": {
				Type:        tool.ParameterTypeString,
				Description: "Target format: jpg, jpeg, png, gif, tif, tiff or bmp",
				Required:    true,
			},
			"output_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path for the converted image; defaults to the source path with the new extension",
			},
			"force_overwrite": {
				Type:        tool.ParameterTypeBoolean,
				Description: "Overwrite the output file if it already exists",
				Default:     false,
			},
		},
		SideEffect:        tool.SideEffectCreate,
		TargetPathParam:   "output_path",
		ResolveTargetPath: defaultImageOutput,
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			source, _ := args["source_path"].(string)
			format, _ := args["output_format"].(string)
			output, _ := args["output_path"].(string)

			ext, ok := imageFormats[strings.ToLower(strings.TrimPrefix(format, "."))]
			if !ok {
				return nil, fmt.Errorf("unsupported output format %q", format)
			}
			if output == "" {
				output = replaceExt(source, ext)
			}

			img, err := imaging.Open(source)
			if err != nil {
				return nil, fmt.Errorf("open image %q: %w", source, err)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return nil, err
			}
			if err := imaging.Save(img, output); err != nil {
				return nil, fmt.Errorf("save image %q: %w", output, err)
			}

			return map[string]interface{}{
				"source_path": source,
				"output_path": output,
				"format":      strings.TrimPrefix(ext, "."),
				"message":     fmt.Sprintf("Image converted from %q to %q", source, output),
			}, nil
		},
	}
}

// FileToDocumentTool extracts the text of a file into a markdown document.
// PDFs are extracted page by page; plain-text files are wrapped as-is.
func FileToDocumentTool() *tool.Descriptor {
	return &tool.Descriptor{
		Name: "file_to_document_tool",
		Description: "Converts a file (pdf, txt, md, csv, log) into a markdown document. " +
			"The output path defaults to the source path with a .md extension.",
		Parameters: map[string]tool.Parameter{
			"source_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path to the file to convert",
				Required:    true,
			},
			"output_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path for the markdown document; defaults to the source path with a .md extension",
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
			return replaceExt(source, ".md")
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			source, _ := args["source_path"].(string)
			output, _ := args["output_path"].(string)

			if output == "" {
				output = replaceExt(source, ".md")
			}

			document, pages, err := extractDocument(source)
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return nil, err
			}
			if err := os.WriteFile(output, []byte(document), 0644); err != nil {
				return nil, fmt.Errorf("write document %q: %w", output, err)
			}

			result := map[string]interface{}{
				"source_path": source,
				"output_path": output,
				"bytes":       len(document),
				"message":     fmt.Sprintf("Document written to %q", output),
			}
			if pages > 0 {
				result["pages"] = pages
			}
			return result, nil
		},
	}
}

// defaultImageOutput is the converted image's path when the call omits
// output_path: the source path with the new extension. "" when the format is
// unknown; the body reports that error.
func defaultImageOutput(args map[string]interface{}) string {
	source, _ := args["source_path"].(string)
	format, _ := args["output_format"].(string)
	ext, ok := imageFormats[strings.ToLower(strings.TrimPrefix(format, "."))]
	if !ok || source == "" {
		return ""
	}
	return replaceExt(source, ext)
}

// replaceExt swaps the path's extension
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// extractDocument turns the source file into markdown text. The page count
// is zero for non-PDF sources.
func extractDocument(source string) (string, int, error) {
	name := filepath.Base(source)

	switch strings.ToLower(filepath.Ext(source)) {
	case ".pdf":
		pages, err := pdfkit.ExtractPages(source, nil)
		if err != nil {
			return "", 0, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n", name)
		for _, page := range pages {
			fmt.Fprintf(&b, "\n## Page %d\n\n%s\n", page.Number, page.Text)
		}
		return b.String(), len(pages), nil

	case ".txt", ".md", ".csv", ".log", "":
		data, err := os.ReadFile(source)
		if err != nil {
			return "", 0, fmt.Errorf("read %q: %w", source, err)
		}
		return fmt.Sprintf("# %s\n\n%s\n", name, strings.TrimSpace(string(data))), 0, nil

	default:
		return "", 0, fmt.Errorf("unsupported source format %q", filepath.Ext(source))
	}
}
