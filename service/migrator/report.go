package migrator

// Change represents a converted node
type Change struct {
	Index      int    `json:"index"`
	ToolID     int    `json:"toolId"`
	Rule       string `json:"rule"`
	FromPlugin string `json:"fromPlugin"`
	ToPlugin   string `json:"toPlugin"`
	File       string `json:"file,omitempty"`
	FileName   string `json:"fileName,omitempty"`
	DatasetID  string `json:"datasetId,omitempty"`
}

// Report summarises a conversion
type Report struct {
	Nodes    int       `json:"nodes"`
	Changes  []*Change `json:"changes,omitempty"`
	Patched  []string  `json:"patched,omitempty"`
	UploadID string    `json:"uploadId,omitempty"`
}

// Converted returns number of converted nodes
func (r *Report) Converted() int {
	if r == nil {
		return 0
	}
	return len(r.Changes)
}

// Unchanged returns number of nodes passed through
func (r *Report) Unchanged() int {
	if r == nil {
		return 0
	}
	return r.Nodes - len(r.Changes)
}
