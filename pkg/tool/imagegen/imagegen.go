// Package imagegen provides the image creator agent's tool, backed by the
// OpenAI image generation API.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	openai "github.com/sashabaranov/go-openai"

	"fileagents/pkg/tool"
)

const (
	// DefaultModel is the image model used when none is configured
	DefaultModel = openai.CreateImageModelDallE3

	// DefaultSize is the generated image resolution
	DefaultSize = openai.CreateImageSize1024x1024
)

// Generator produces images from text prompts via the OpenAI API
type Generator struct {
	client *openai.Client
	model  string
	size   string
}

// NewGenerator creates a Generator with the given API key
func NewGenerator(apiKey string) *Generator {
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  DefaultModel,
		size:   DefaultSize,
	}
}

// NewGeneratorWithClient creates a Generator backed by an existing client
func NewGeneratorWithClient(client *openai.Client) *Generator {
	return &Generator{
		client: client,
		model:  DefaultModel,
		size:   DefaultSize,
	}
}

// WithModel sets the image model to use
func (g *Generator) WithModel(model string) *Generator {
	g.model = model
	return g
}

// WithSize sets the generated image resolution
func (g *Generator) WithSize(size string) *Generator {
	g.size = size
	return g
}

// Generate requests one image for the prompt and returns the decoded pixels
func (g *Generator) Generate(ctx context.Context, prompt string) (image.Image, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		Size:           g.size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image generation returned no data")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// GenerateImageTool wraps the generator as a registerable tool. The output
// format follows the output_path extension, so the same tool writes png,
// jpg or any format the imaging encoder knows.
func GenerateImageTool(gen *Generator) *tool.Descriptor {
	return &tool.Descriptor{
		Name: "generate_image_tool",
		Description: "Generates an image from a text prompt and saves it to the given path. " +
			"The image format follows the output path extension (png, jpg, gif, tif, bmp).",
		Parameters: map[string]tool.Parameter{
			"prompt": {
				Type:        tool.ParameterTypeString,
				Description: "Text description of the image to generate",
				Required:    true,
			},
			"output_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path the generated image should be saved to, including the filename",
				Required:    true,
			},
			"force_overwrite": {
				Type:        tool.ParameterTypeBoolean,
				Description: "Overwrite the output file if it already exists",
				Default:     false,
			},
		},
		SideEffect:      tool.SideEffectCreate,
		TargetPathParam: "output_path",
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			prompt, _ := args["prompt"].(string)
			output, _ := args["output_path"].(string)

			img, err := gen.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return nil, err
			}
			if err := imaging.Save(img, output); err != nil {
				return nil, fmt.Errorf("save image %q: %w", output, err)
			}

			return map[string]interface{}{
				"output_path": output,
				"message":     fmt.Sprintf("Image generated and saved to %q", output),
			}, nil
		},
	}
}
