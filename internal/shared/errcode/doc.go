// Package errcode defines the result codes shared by every native operation.
//
// Codes fall into two disjoint ranges:
//   - Non-negative: NoError (0) and file system / application failures
//   - Negative: auxiliary runtime lifecycle states
//
// FromError converts OS errors to the narrowest code the platform can
// identify; ErrUnknown is returned only when nothing more specific matches.
//
// Example Usage:
//
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return errcode.FromError(err, errcode.Reading)
//	}
package errcode
