// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Error codes follow the module resolution taxonomy: invalid kernel trees
// are a filterable state (NOT_A_DIRECTORY), broken installations are hard
// failures (DESCRIPTOR_UNREADABLE), and live-table problems distinguish
// unreadable sources from malformed content.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeDescriptorUnreadable,
//	    "failed to parse module dependency descriptor",
//	    readErr,
//	    map[string]interface{}{
//	        "kernel": kver,
//	        "path": depPath,
//	    },
//	)
package errors
