package rule

import (
	"github.com/viant/wfcloud/model"
	"github.com/viant/wfcloud/model/tree"
	"strconv"
	"time"
)

// Time layouts used by the timestamp and createdAt placeholders
const (
	TimestampLayout = "20060102_150405"
	CreatedAtLayout = "Jan 2, 2006 3:04 PM"
)

// Builtin placeholder names
const (
	FilePathName   = "file"
	FileBaseName   = "fileName"
	StemName       = "stem"
	ExtName        = "ext"
	ToolIDName     = "toolId"
	IndexName      = "index"
	DatasetIDName  = "datasetId"
	DatasetURIName = "datasetUri"
	UploadIDName   = "uploadId"
	TimestampName  = "timestamp"
	CreatedAtName  = "createdAt"
)

// Builtins lists placeholder names defined by Input
var Builtins = []string{FilePathName, FileBaseName, StemName, ExtName, ToolIDName, IndexName, DatasetIDName, DatasetURIName, UploadIDName, TimestampName, CreatedAtName}

// Input represents everything a builder may use to rebuild a node configuration
type Input struct {
	// Node is the converted node copy, read-only for builders
	Node *model.Node
	// Previous is the configuration being replaced, read-only for builders
	Previous *tree.Object

	File       string
	FileName   string
	Stem       string
	Ext        string
	ToolID     int
	Index      int
	DatasetID  string
	DatasetURI string
	UploadID   string
	Time       time.Time
}

// Lookup resolves builtin placeholder names
func (i *Input) Lookup(name string) (string, bool) {
	switch name {
	case FilePathName:
		return i.File, true
	case FileBaseName:
		return i.FileName, true
	case StemName:
		return i.Stem, true
	case ExtName:
		return i.Ext, true
	case ToolIDName:
		return strconv.Itoa(i.ToolID), true
	case IndexName:
		return strconv.Itoa(i.Index), true
	case DatasetIDName:
		return i.DatasetID, true
	case DatasetURIName:
		return i.DatasetURI, true
	case UploadIDName:
		return i.UploadID, true
	case TimestampName:
		return i.Time.Format(TimestampLayout), true
	case CreatedAtName:
		return i.Time.Format(CreatedAtLayout), true
	}
	return "", false
}

// IsBuiltin returns true for names resolved by Input
func IsBuiltin(name string) bool {
	for _, candidate := range Builtins {
		if candidate == name {
			return true
		}
	}
	return false
}
