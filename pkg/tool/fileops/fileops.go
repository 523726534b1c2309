// Package fileops provides the filesystem tools of the organizer agent:
// renaming/moving, copying and deleting files. Overwrite and confirmation
// gating is enforced by the safety gate before these bodies run; the bodies
// only check what the gate cannot know, such as source existence.
package fileops

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fileagents/pkg/tool"
)

// RenameFileTool moves or renames a file
func RenameFileTool() *tool.Descriptor {
	return &tool.Descriptor{
		Name: "rename_file_tool",
		Description: "Renames or moves a file. Checks that the source exists and refuses to " +
			"overwrite an existing target unless force_overwrite is true.",
		Parameters: map[string]tool.Parameter{
			"source_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path to the file to rename or move",
				Required:    true,
			},
			"target_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path to the new location and/or filename",
				Required:    true,
			},
			"force_overwrite": {
				Type:        tool.ParameterTypeBoolean,
				Description: "Overwrite the target file if it already exists",
				Default:     false,
			},
		},
		SideEffect:      tool.SideEffectMutate,
		TargetPathParam: "target_path",
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			source, _ := args["source_path"].(string)
			target, _ := args["target_path"].(string)

			if err := checkSourceFile(source); err != nil {
				return nil, err
			}
			if err := ensureParentDir(target); err != nil {
				return nil, err
			}
			if err := moveFile(source, target); err != nil {
				return nil, fmt.Errorf("rename %q to %q: %w", source, target, err)
			}

			return map[string]interface{}{
				"source_path": source,
				"target_path": target,
				"message":     fmt.Sprintf("File successfully moved/renamed from %q to %q", source, target),
			}, nil
		},
	}
}

// CopyFileTool duplicates a file, leaving the original intact
func CopyFileTool() *tool.Descriptor {
	return &tool.Descriptor{
		Name: "copy_file_tool",
		Description: "Copies a file to another location. Checks that the source exists and " +
			"refuses to overwrite an existing destination unless force_overwrite is true.",
		Parameters: map[string]tool.Parameter{
			"source_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path to the file to copy",
				Required:    true,
			},
			"destination_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path the file should be copied to, including the filename",
				Required:    true,
			},
			"force_overwrite": {
				Type:        tool.ParameterTypeBoolean,
				Description: "Overwrite the destination file if it already exists",
				Default:     false,
			},
		},
		SideEffect:      tool.SideEffectCreate,
		TargetPathParam: "destination_path",
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			source, _ := args["source_path"].(string)
			destination, _ := args["destination_path"].(string)

			if err := checkSourceFile(source); err != nil {
				return nil, err
			}
			if err := ensureParentDir(destination); err != nil {
				return nil, err
			}
			written, err := copyFile(source, destination)
			if err != nil {
				return nil, fmt.Errorf("copy %q to %q: %w", source, destination, err)
			}

			return map[string]interface{}{
				"source_path":      source,
				"destination_path": destination,
				"bytes_written":    written,
				"message":          fmt.Sprintf("File successfully copied from %q to %q", source, destination),
			}, nil
		},
	}
}

// DeleteFileTool permanently removes a file. Destructive: the safety gate
// rejects any call without confirm=true.
func DeleteFileTool() *tool.Descriptor {
	return &tool.Descriptor{
		Name: "delete_file_tool",
		Description: "Permanently deletes a file. Requires confirm=true to prevent " +
			"accidental deletions.",
		Parameters: map[string]tool.Parameter{
			"file_path": {
				Type:        tool.ParameterTypeString,
				Description: "Full path to the file to delete",
				Required:    true,
			},
			"confirm": {
				Type:        tool.ParameterTypeBoolean,
				Description: "Must be explicitly true for the deletion to proceed",
				Default:     false,
			},
		},
		SideEffect:           tool.SideEffectDestructive,
		RequiresConfirmation: true,
		TargetPathParam:      "file_path",
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			path, _ := args["file_path"].(string)

			if err := checkSourceFile(path); err != nil {
				return nil, err
			}
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("delete %q: %w", path, err)
			}

			return map[string]interface{}{
				"file_path": path,
				"message":   fmt.Sprintf("File %q successfully deleted", path),
			}, nil
		},
	}
}

// checkSourceFile verifies the path exists and is a regular file
func checkSourceFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file %q does not exist", path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", path)
	}
	return nil
}

// ensureParentDir creates the target's directory when missing
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// moveFile renames the file, falling back to copy-and-remove across
// filesystem boundaries
func moveFile(source, target string) error {
	if err := os.Rename(source, target); err == nil {
		return nil
	}
	if _, err := copyFile(source, target); err != nil {
		return err
	}
	return os.Remove(source)
}

// copyFile copies the file contents and permissions
func copyFile(source, destination string) (int64, error) {
	in, err := os.Open(source)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return written, err
}
