// Package idgen generates the upload folder identifiers embedded in cloud
// sample URIs. Tests replace NewFunc to obtain stable output documents.
package idgen
