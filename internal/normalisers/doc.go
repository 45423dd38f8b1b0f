// Package normalisers provides the Loader implementations that extract
// the full text of a file, one per supported format, and the registry
// that dispatches to them by file extension.
//
// Loaders are registered with the Registry at startup.
package normalisers
