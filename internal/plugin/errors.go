package plugin

import "errors"

// Sentinel errors for plugin resolution and loading.
var (
	// ErrNotFound indicates a plugin file or package could not be located.
	ErrNotFound = errors.New("plugin not found")

	// ErrNoExtension indicates a plugin manifest does not name an extension
	// recipe, so there is nothing to register into the parser.
	ErrNoExtension = errors.New("plugin manifest missing extension")

	// ErrUnknownBuiltin indicates a builtin plugin name is not in the
	// registry.
	ErrUnknownBuiltin = errors.New("unknown builtin plugin")

	// ErrVersionMismatch indicates the installed package version does not
	// satisfy the requested constraint.
	ErrVersionMismatch = errors.New("plugin version mismatch")

	// ErrSecurity indicates a plugin path escapes its permitted base
	// directory. This is a trust boundary: it is always fatal and never
	// downgraded by lenient mode.
	ErrSecurity = errors.New("plugin path escapes base directory")

	// ErrRemoteNotSupported indicates a remote plugin source. Remote
	// loading is not implemented and never silently no-ops.
	ErrRemoteNotSupported = errors.New("remote plugins are not yet supported")

	// ErrManifestParse indicates a malformed plugin manifest.
	ErrManifestParse = errors.New("failed to parse plugin manifest")
)
