// Package connectors holds the sources procedure files are ingested from.
// The filesystem connector lists and watches a local directory tree.
package connectors
