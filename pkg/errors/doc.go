// Package errors provides structured error types whose codes map onto the
// exit statuses of the bumpversion command.
//
// Example usage:
//
//	return errors.WrapWithContext(
//	    errors.ErrCodeSubcommand,
//	    "npm version failed",
//	    err,
//	    map[string]any{"cmd": "npm", "args": args},
//	)
package errors
