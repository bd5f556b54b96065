package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration

	"C001": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Suggestion: "Create uploadbox.json or pass --config with an existing file",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The config file is not valid JSON or a value has the wrong type.",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
	},

	// File validation

	"V001": {
		Category: CategoryValidation,
		Message:  "File type not allowed",
		Detail:   "The file extension is not in the accepted types list.",
	},
	"V002": {
		Category: CategoryValidation,
		Message:  "File size exceeded",
		Detail:   "The file is larger than the configured maximum size.",
	},
	"V003": {
		Category: CategoryValidation,
		Message:  "File not readable",
	},

	// Network

	"N001": {
		Category:   CategoryNetwork,
		Message:    "Commit failed",
		Detail:     "The delete or upload request was rejected or could not be sent. Run with --log-level debug for the request log.",
		Suggestion: "Check server.apiBaseURL and the endpoint paths in the config",
	},
	"N002": {
		Category: CategoryNetwork,
		Message:  "Download failed",
		Detail:   "The download endpoint returned an error or an empty payload.",
	},
	"N003": {
		Category:   CategoryNetwork,
		Message:    "Missing API base URL",
		Suggestion: "Set server.apiBaseURL in uploadbox.json or pass --api",
	},

	// Storage

	"S001": {
		Category: CategoryStorage,
		Message:  "Save failed",
	},
	"S002": {
		Category:   CategoryStorage,
		Message:    "AWS configuration failed",
		Suggestion: "Set AWS_REGION and credentials, or configure a profile in ~/.aws/config",
	},

	// Command line usage

	"U001": {
		Category:   CategoryCLI,
		Message:    "Missing record id",
		Detail:     "A commit needs the id of the record the files belong to.",
		Suggestion: "Pass --seq",
	},
	"U002": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
	},
	"U003": {
		Category: CategoryCLI,
		Message:  "Server error",
	},
}

// Codes returns all registered error codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template Template) {
	registry[code] = template
}
