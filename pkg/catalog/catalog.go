// Package catalog registers the built-in file agents: an orchestrator and
// the four specialists it manages. The catalogue is the default wiring of
// the engine; embedders can register their own roles and tools alongside or
// instead of it.
package catalog

import (
	"fmt"

	"fileagents/pkg/agent"
	"fileagents/pkg/tool"
	"fileagents/pkg/tool/convert"
	"fileagents/pkg/tool/fileops"
	"fileagents/pkg/tool/imagegen"
	"fileagents/pkg/tool/pdfkit"
)

// Built-in agent roles
const (
	RoleFileOrchestrator = "file_orchestrator"
	RoleFileConverter    = "file_converter"
	RoleFileOrganizer    = "file_organizer"
	RolePdfEditor        = "pdf_editor"
	RoleImageCreator     = "image_creator"
)

// Config carries the external collaborators the built-in tools need
type Config struct {
	// ImageGenerator backs the image creator's tool. When nil, the image
	// creator agent is not registered.
	ImageGenerator *imagegen.Generator
}

// Register installs the built-in tools and agent specs into the given
// registries
func Register(tools *tool.Registry, agents *agent.Registry, cfg Config) error {
	if err := registerTools(tools, cfg); err != nil {
		return err
	}
	return registerAgents(agents, cfg)
}

func registerTools(tools *tool.Registry, cfg Config) error {
	byRole := map[string][]*tool.Descriptor{
		RoleFileConverter: {
			convert.ImageFormatConverterTool(),
			convert.FileToDocumentTool(),
		},
		RoleFileOrganizer: {
			fileops.RenameFileTool(),
			fileops.CopyFileTool(),
			fileops.DeleteFileTool(),
		},
		RolePdfEditor: {
			pdfkit.PageCountTool(),
			pdfkit.ExtractTextTool(),
		},
	}
	if cfg.ImageGenerator != nil {
		byRole[RoleImageCreator] = []*tool.Descriptor{
			imagegen.GenerateImageTool(cfg.ImageGenerator),
		}
	}

	for role, descriptors := range byRole {
		for _, desc := range descriptors {
			if err := tools.Register(role, desc); err != nil {
				return fmt.Errorf("register tool %q for %q: %w", desc.Name, role, err)
			}
		}
	}
	return nil
}

func registerAgents(agents *agent.Registry, cfg Config) error {
	managed := []string{RoleFileConverter, RoleFileOrganizer, RolePdfEditor}

	specs := []*agent.Spec{
		{
			Role:        RoleFileConverter,
			Description: "Converts files between formats: images between jpg/png/gif/tif/bmp, and pdf/text files into markdown documents.",
			Instructions: "You are a file conversion specialist. Use your tools to convert the " +
				"requested file and report the output path. Do not touch files outside the request.",
			AllowedTools: []string{"image_format_converter_tool", "file_to_document_tool"},
			MaxSteps:     20,
		},
		{
			Role:        RoleFileOrganizer,
			Description: "Renames, moves, copies and deletes files on the local filesystem.",
			Instructions: "You are a filesystem organizer. Use your tools to rename, move, copy or " +
				"delete the requested files. Deletions require confirm=true and overwriting an " +
				"existing file requires force_overwrite=true; only set these when the request is explicit.",
			AllowedTools: []string{"rename_file_tool", "copy_file_tool", "delete_file_tool"},
			MaxSteps:     20,
		},
		{
			Role:        RolePdfEditor,
			Description: "Inspects PDF documents: counts pages and extracts text from selected pages.",
			Instructions: "You are a PDF specialist. Use your tools to inspect the requested PDF " +
				"and report what you found, including any output path you wrote.",
			AllowedTools: []string{"pdf_page_count_tool", "pdf_extract_text_tool"},
			MaxSteps:     20,
		},
	}

	if cfg.ImageGenerator != nil {
		managed = append(managed, RoleImageCreator)
		specs = append(specs, &agent.Spec{
			Role:        RoleImageCreator,
			Description: "Generates images from text prompts and saves them to disk.",
			Instructions: "You are an image creator. Generate the requested image and save it to " +
				"the requested path, then report that path.",
			AllowedTools: []string{"generate_image_tool"},
			MaxSteps:     15,
		})
	}

	specs = append(specs, &agent.Spec{
		Role:        RoleFileOrchestrator,
		Description: "Coordinates file work by delegating to specialist agents.",
		Instructions: "You are a file management orchestrator. You have no tools of your own; " +
			"break the request into sub-tasks and delegate each to the managed agent whose " +
			"description fits. Delegate one sub-task at a time, wait for the result, and " +
			"compose the final answer from the delegation results.",
		ManagedAgents: managed,
		MaxSteps:      15,
	})

	for _, spec := range specs {
		if err := agents.Register(spec); err != nil {
			return fmt.Errorf("register agent %q: %w", spec.Role, err)
		}
	}
	return nil
}
