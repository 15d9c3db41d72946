// Package model contains the in-memory representation of Alteryx workflow
// documents handled by the migrator.
//
// A workflow document is the JSON rendition of the XML tool graph: attribute
// like members are prefixed with `@`, element text is kept under `#text`.
// The document is held as an ordered tree (see the `tree` sub-package); the
// types in this package are thin views that locate the tool nodes and the
// members the migrator reads or replaces, without copying the tree.
package model
