package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsgate/fsgate/internal/fsops"
	"github.com/fsgate/fsgate/internal/logging"
	"github.com/fsgate/fsgate/internal/types"
	"go.uber.org/zap"
)

// Filesystem dispatches the eight gateway operations onto the confined
// filesystem core. It holds no mutable state; concurrent calls race only
// at OS granularity.
type Filesystem struct {
	resolver *fsops.Resolver
	log      *logging.Logger
}

// NewFilesystem creates the filesystem provider.
func NewFilesystem(resolver *fsops.Resolver, log *logging.Logger) *Filesystem {
	if log == nil {
		log = logging.NewNop()
	}
	return &Filesystem{resolver: resolver, log: log}
}

// Definition returns the service catalog. The eight operations and their
// argument schemas are the stable contract advertised to callers.
func (f *Filesystem) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Gateway",
		Description: "File and directory operations confined to the allowed root",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read",
			"write",
			"list",
			"create",
			"delete",
			"move",
			"stat",
		},
		Tools: []types.Tool{
			{
				ID:          "filesystem.read_file",
				Name:        "Read File",
				Description: "Read file contents as text",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path relative to the allowed root", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "filesystem.list_directory",
				Name:        "List Directory",
				Description: "List the immediate contents of a directory",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path relative to the allowed root", Required: false, Default: "."},
				},
				Returns: "array",
			},
			{
				ID:          "filesystem.write_file",
				Name:        "Write File",
				Description: "Create or overwrite a file with text content",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path relative to the allowed root", Required: true},
					{Name: "content", Type: "string", Description: "Content to write", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "filesystem.create_directory",
				Name:        "Create Directory",
				Description: "Create a directory and any missing ancestors",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path relative to the allowed root", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "filesystem.delete_file",
				Name:        "Delete File",
				Description: "Delete a single file",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path relative to the allowed root", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "filesystem.delete_directory",
				Name:        "Delete Directory",
				Description: "Delete a directory, optionally with its contents",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path relative to the allowed root", Required: true},
					{Name: "recursive", Type: "boolean", Description: "Remove contents as well", Required: false, Default: "false"},
				},
				Returns: "object",
			},
			{
				ID:          "filesystem.move_path",
				Name:        "Move Path",
				Description: "Move or rename a file or directory",
				Parameters: []types.Parameter{
					{Name: "source", Type: "string", Description: "Source path relative to the allowed root", Required: true},
					{Name: "destination", Type: "string", Description: "Destination path relative to the allowed root", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "filesystem.get_file_info",
				Name:        "File Info",
				Description: "Get metadata for a file or directory",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Path relative to the allowed root", Required: true},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs one gateway operation. It always returns a well-formed
// Result; no raw error from the filesystem layer reaches the caller.
func (f *Filesystem) Execute(ctx context.Context, toolID string, params map[string]interface{}, callCtx *types.Context) (*types.Result, error) {
	if err := ctx.Err(); err != nil {
		return types.Failure(types.KindOSFailure, "request cancelled before execution"), nil
	}

	switch toolID {
	case "filesystem.read_file":
		return f.readFile(params), nil
	case "filesystem.list_directory":
		return f.listDirectory(params), nil
	case "filesystem.write_file":
		return f.writeFile(params), nil
	case "filesystem.create_directory":
		return f.createDirectory(params), nil
	case "filesystem.delete_file":
		return f.deleteFile(params), nil
	case "filesystem.delete_directory":
		return f.deleteDirectory(params), nil
	case "filesystem.move_path":
		return f.movePath(params), nil
	case "filesystem.get_file_info":
		return f.getFileInfo(params), nil
	default:
		return types.Failure(types.KindUnknownOperation, fmt.Sprintf("unknown operation: %s", toolID)), nil
	}
}

// failure translates a core error into a caller-facing result. Path
// escapes surface as permission_denied so callers cannot probe the host
// layout.
func (f *Filesystem) failure(op string, ferr *fsops.Error) *types.Result {
	f.log.Debug("operation failed",
		zap.String("operation", op),
		zap.String("kind", string(ferr.Kind)),
		zap.String("message", ferr.Message),
	)
	return types.Failure(ferr.Kind.External(), ferr.Message)
}

func stringParam(params map[string]interface{}, name string) (string, *types.Result) {
	v, present := params[name]
	if !present {
		return "", types.Failure(types.KindInvalidArgument, fmt.Sprintf("%s parameter required", name))
	}
	s, ok := v.(string)
	if !ok {
		return "", types.Failure(types.KindInvalidArgument, fmt.Sprintf("%s parameter must be a string", name))
	}
	if strings.TrimSpace(s) == "" {
		return "", types.Failure(types.KindInvalidArgument, fmt.Sprintf("%s parameter required", name))
	}
	return s, nil
}

func boolParam(params map[string]interface{}, name string, def bool) (bool, *types.Result) {
	v, present := params[name]
	if !present {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, types.Failure(types.KindInvalidArgument, fmt.Sprintf("%s parameter must be a boolean", name))
	}
	return b, nil
}

func (f *Filesystem) readFile(params map[string]interface{}) *types.Result {
	path, fail := stringParam(params, "path")
	if fail != nil {
		return fail
	}

	p, ferr := f.resolver.Resolve(path)
	if ferr != nil {
		return f.failure("read_file", ferr)
	}

	content, ferr := fsops.ReadFile(p)
	if ferr != nil {
		return f.failure("read_file", ferr)
	}

	return types.Success(map[string]interface{}{
		"path":    path,
		"content": content,
		"size":    len(content),
	})
}

func (f *Filesystem) listDirectory(params map[string]interface{}) *types.Result {
	path := "."
	if _, present := params["path"]; present {
		var fail *types.Result
		if path, fail = stringParam(params, "path"); fail != nil {
			return fail
		}
	}

	p, ferr := f.resolver.Resolve(path)
	if ferr != nil {
		return f.failure("list_directory", ferr)
	}

	entries, ferr := fsops.ListDirectory(p)
	if ferr != nil {
		return f.failure("list_directory", ferr)
	}

	return types.Success(map[string]interface{}{
		"path":    path,
		"entries": entries,
		"count":   len(entries),
		"listing": fsops.FormatEntries(entries),
	})
}

func (f *Filesystem) writeFile(params map[string]interface{}) *types.Result {
	path, fail := stringParam(params, "path")
	if fail != nil {
		return fail
	}
	content, present := params["content"]
	if !present {
		return types.Failure(types.KindInvalidArgument, "content parameter required")
	}
	text, ok := content.(string)
	if !ok {
		return types.Failure(types.KindInvalidArgument, "content parameter must be a string")
	}

	p, ferr := f.resolver.Resolve(path)
	if ferr != nil {
		return f.failure("write_file", ferr)
	}

	n, ferr := fsops.WriteFile(p, text)
	if ferr != nil {
		return f.failure("write_file", ferr)
	}

	return types.Success(map[string]interface{}{
		"written": true,
		"path":    path,
		"bytes":   n,
		"message": fmt.Sprintf("Successfully wrote %d bytes to %s", n, path),
	})
}

func (f *Filesystem) createDirectory(params map[string]interface{}) *types.Result {
	path, fail := stringParam(params, "path")
	if fail != nil {
		return fail
	}

	p, ferr := f.resolver.Resolve(path)
	if ferr != nil {
		return f.failure("create_directory", ferr)
	}

	if ferr := fsops.CreateDirectory(p); ferr != nil {
		return f.failure("create_directory", ferr)
	}

	return types.Success(map[string]interface{}{
		"created": true,
		"path":    path,
		"message": fmt.Sprintf("Directory %s created", path),
	})
}

func (f *Filesystem) deleteFile(params map[string]interface{}) *types.Result {
	path, fail := stringParam(params, "path")
	if fail != nil {
		return fail
	}

	p, ferr := f.resolver.Resolve(path)
	if ferr != nil {
		return f.failure("delete_file", ferr)
	}

	if ferr := fsops.DeleteFile(p); ferr != nil {
		return f.failure("delete_file", ferr)
	}

	return types.Success(map[string]interface{}{
		"deleted": true,
		"path":    path,
		"message": fmt.Sprintf("File %s deleted", path),
	})
}

func (f *Filesystem) deleteDirectory(params map[string]interface{}) *types.Result {
	path, fail := stringParam(params, "path")
	if fail != nil {
		return fail
	}
	recursive, fail := boolParam(params, "recursive", false)
	if fail != nil {
		return fail
	}

	p, ferr := f.resolver.Resolve(path)
	if ferr != nil {
		return f.failure("delete_directory", ferr)
	}

	if ferr := fsops.DeleteDirectory(p, recursive); ferr != nil {
		return f.failure("delete_directory", ferr)
	}

	return types.Success(map[string]interface{}{
		"deleted":   true,
		"path":      path,
		"recursive": recursive,
		"message":   fmt.Sprintf("Directory %s deleted", path),
	})
}

func (f *Filesystem) movePath(params map[string]interface{}) *types.Result {
	source, fail := stringParam(params, "source")
	if fail != nil {
		return fail
	}
	destination, fail := stringParam(params, "destination")
	if fail != nil {
		return fail
	}

	// Both endpoints are validated independently; a destination outside
	// the root is rejected even when the source is fine.
	src, ferr := f.resolver.Resolve(source)
	if ferr != nil {
		return f.failure("move_path", ferr)
	}
	dst, ferr := f.resolver.Resolve(destination)
	if ferr != nil {
		return f.failure("move_path", ferr)
	}

	if ferr := fsops.MovePath(src, dst); ferr != nil {
		return f.failure("move_path", ferr)
	}

	return types.Success(map[string]interface{}{
		"moved":       true,
		"source":      source,
		"destination": destination,
		"message":     fmt.Sprintf("Moved %s to %s", source, destination),
	})
}

func (f *Filesystem) getFileInfo(params map[string]interface{}) *types.Result {
	path, fail := stringParam(params, "path")
	if fail != nil {
		return fail
	}

	p, ferr := f.resolver.Resolve(path)
	if ferr != nil {
		return f.failure("get_file_info", ferr)
	}

	rec, ferr := fsops.StatPath(p)
	if ferr != nil {
		return f.failure("get_file_info", ferr)
	}

	return types.Success(map[string]interface{}{
		"path":      path,
		"info":      rec,
		"formatted": fsops.FormatRecord(rec),
	})
}
