package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "State did not settle",
		Detail:   "Change handlers kept producing state changes past the pass limit.",
		DocURL:   "https://elix.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryTemplate,
		Message:  "Template part missing",
		Detail:   "A named part referenced by a behavior does not exist in the template.",
		DocURL:   "https://elix.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryTemplate,
		Message:  "Invalid template description",
		Detail:   "The template description could not be decoded into a node tree.",
		DocURL:   "https://elix.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "State set during render",
		Detail:   "Rendering reads state but never writes it. Set state from a change handler, an event handler or an update hook.",
		DocURL:   "https://elix.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryRuntime,
		Message:  "Loop closed",
		Detail:   "The event loop has been closed and no longer accepts tasks.",
		DocURL:   "https://elix.dev/docs/errors/E005",
	},
	"E006": {
		Category: CategoryRuntime,
		Message:  "Loop queue full",
		Detail:   "The event loop task queue is full.",
		DocURL:   "https://elix.dev/docs/errors/E006",
	},
	"E007": {
		Category: CategoryRuntime,
		Message:  "Invalid behavior",
		Detail:   "A behavior in the composition list is nil or duplicated.",
		DocURL:   "https://elix.dev/docs/errors/E007",
	},

	// ============================================
	// Configuration Errors (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryConfig,
		Message:  "Invalid elix.yaml",
		Detail:   "The elix.yaml configuration file is malformed.",
		DocURL:   "https://elix.dev/docs/errors/E020",
	},
	"E021": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
		DocURL:   "https://elix.dev/docs/errors/E021",
	},

	// ============================================
	// Storage Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryStorage,
		Message:  "Snapshot store failure",
		Detail:   "The snapshot could not be written or read.",
		DocURL:   "https://elix.dev/docs/errors/E030",
	},
	"E031": {
		Category: CategoryStorage,
		Message:  "Snapshot not found",
		Detail:   "No snapshot exists under the requested key.",
		DocURL:   "https://elix.dev/docs/errors/E031",
	},

	// ============================================
	// Protocol Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryProtocol,
		Message:  "Invalid client message",
		Detail:   "The message received from the client could not be decoded.",
		DocURL:   "https://elix.dev/docs/errors/E040",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
