// Package providers implements the service providers exposed by fsgate.
//
// A provider advertises a catalog of named tools and executes them against
// validated parameters. The single provider here is the filesystem
// gateway: a fixed set of eight operations confined to the allowed root.
//
// Provider Interface:
//   - Definition(): Returns service metadata and tool definitions
//   - Execute(): Executes a tool with parameters and caller context
//
// Example Usage:
//
//	fs := providers.NewFilesystem(resolver, logger)
//	result, err := fs.Execute(ctx, "filesystem.read_file", params, callCtx)
package providers
