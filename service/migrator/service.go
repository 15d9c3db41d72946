package migrator

import (
	"errors"
	"fmt"
	"github.com/viant/wfcloud/internal/clock"
	"github.com/viant/wfcloud/internal/idgen"
	"github.com/viant/wfcloud/model"
	"github.com/viant/wfcloud/model/rule"
	"github.com/viant/wfcloud/model/tree"
	"github.com/viant/wfcloud/service/dataset"
	"time"
)

// Service converts workflow documents with a rule set. Convert never mutates
// its input and keeps no state between calls, so one Service can be shared
// by concurrent conversions.
type Service struct {
	annotate    bool
	datasetBase int64
	now         func() time.Time
	newID       func() string
}

// conversion holds per-call state
type conversion struct {
	set       *rule.Set
	allocator *dataset.Allocator
	uploadID  string
	time      time.Time
	annotate  bool
}

// Convert returns a new workflow where nodes matching set rules are retargeted.
// Nodes matching no rule are carried over as the very same objects.
func (s *Service) Convert(workflow *model.Workflow, set *rule.Set) (*model.Workflow, *Report, error) {
	if workflow == nil || workflow.Root == nil {
		return nil, nil, fmt.Errorf("%w: document was nil", model.ErrMalformedDocument)
	}
	if set == nil {
		return nil, nil, fmt.Errorf("rule set was nil")
	}
	if issues := workflow.Validate(); len(issues) > 0 {
		return nil, nil, errors.Join(issues...)
	}
	content, err := workflow.Content()
	if err != nil {
		return nil, nil, err
	}
	nodes, err := workflow.Nodes()
	if err != nil {
		return nil, nil, err
	}
	properties, err := workflow.Properties()
	if err != nil {
		return nil, nil, err
	}

	conv := &conversion{
		set:       set,
		allocator: dataset.New(set.Datasets, s.datasetBase),
		uploadID:  s.newID(),
		time:      s.now(),
		annotate:  s.annotate,
	}
	report := &Report{Nodes: len(nodes.Items), UploadID: conv.uploadID}
	converted := &model.NodeList{Single: nodes.Single}
	for _, node := range nodes.Items {
		aRule := set.Match(node.Plugin())
		if aRule == nil {
			converted.Items = append(converted.Items, node)
			continue
		}
		target, change, err := conv.convertNode(node, aRule)
		if err != nil {
			return nil, nil, &model.NodeError{Index: node.Index, ToolID: node.RawToolID(), Rule: aRule.ID(), Err: err}
		}
		converted.Items = append(converted.Items, target)
		report.Changes = append(report.Changes, change)
	}

	nodesSection, _ := content.Object(model.NodesKey)
	nodesSection = nodesSection.Clone()
	nodesSection.Set(model.NodeKey, converted.Value())

	if properties == nil {
		properties = tree.NewObject()
	} else {
		properties = properties.Clone()
	}
	for _, key := range set.Properties.Keys() {
		value, _ := set.Properties.Get(key)
		properties.Set(key, tree.Clone(value))
		report.Patched = append(report.Patched, key)
	}

	content = content.Clone()
	content.Set(model.NodesKey, nodesSection)
	content.Set(model.PropertiesKey, properties)
	root := workflow.Root.Clone()
	root.Set(model.ContentKey, content)

	ret := model.NewWorkflow(root)
	if workflow.Source != nil {
		ret.Source = &model.Source{URL: workflow.Source.URL}
	}
	return ret, report, nil
}

// convertNode rebuilds a deep copy of node according to aRule
func (c *conversion) convertNode(source *model.Node, aRule *rule.Rule) (*model.Node, *Change, error) {
	node := &model.Node{Index: source.Index, Object: tree.Clone(source.Object).(*tree.Object)}
	toolID, err := node.ToolID()
	if err != nil {
		return nil, nil, err
	}
	previous, err := node.Configuration()
	if err != nil {
		return nil, nil, err
	}
	input := &rule.Input{
		Node:     node,
		Previous: previous,
		ToolID:   toolID,
		Index:    node.Index,
		UploadID: c.uploadID,
		Time:     c.time,
	}
	input.File, err = node.File()
	if err != nil {
		if !errors.Is(err, model.ErrMissingField) || aRule.FileRequired() {
			return nil, nil, err
		}
	}
	if input.File != "" {
		input.FileName = aRule.RenameFile(model.FileName(input.File))
		input.Stem, input.Ext = model.SplitFileName(input.FileName)
	}
	if input.FileName == "" && aRule.FileRequired() {
		return nil, nil, fmt.Errorf("%w: %v.%v.%v has no file name: %q", model.ErrMissingField, model.PropertiesKey, model.ConfigurationKey, model.FileKey, input.File)
	}
	allocation := c.allocator.Allocate(toolID, input.FileName)
	input.DatasetID, input.DatasetURI = allocation.ID, allocation.URI

	configuration, err := aRule.Builder.Build(input)
	if err != nil {
		return nil, nil, err
	}
	if configuration == nil {
		return nil, nil, fmt.Errorf("%w: builder returned no configuration", model.ErrUnsupportedPlugin)
	}

	change := &Change{
		Index:      node.Index,
		ToolID:     toolID,
		Rule:       aRule.ID(),
		FromPlugin: node.Plugin(),
		ToPlugin:   aRule.Plugin,
		File:       input.File,
		FileName:   input.FileName,
		DatasetID:  input.DatasetID,
	}

	node.GuiSettings().Set(model.PluginKey, aRule.Plugin)
	node.Object.Set(model.EngineSettingsKey, aRule.Engine.Object())
	node.Properties().Set(model.ConfigurationKey, configuration)

	if c.annotate && aRule.Annotation != nil {
		text, err := aRule.Annotation.Expand(input.Lookup, rule.MapLookup(c.set.Variables))
		if err != nil {
			return nil, nil, err
		}
		annotation, err := node.Annotation()
		if err != nil {
			return nil, nil, err
		}
		annotation.Set(model.DefaultAnnotationTextKey, text)
	}
	return node, change, nil
}

// New creates a migrator service
func New(opts ...Option) *Service {
	ret := &Service{
		now:   clock.Now,
		newID: idgen.New,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
