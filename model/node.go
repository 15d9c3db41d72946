package model

import (
	"encoding/json"
	"fmt"
	"github.com/viant/toolbox"
	"github.com/viant/wfcloud/model/tree"
	"strings"
)

// Node member names
const (
	ToolIDKey                = "@ToolID"
	GuiSettingsKey           = "GuiSettings"
	PluginKey                = "@Plugin"
	EngineSettingsKey        = "EngineSettings"
	EngineDllKey             = "@EngineDll"
	EngineDllEntryPointKey   = "@EngineDllEntryPoint"
	ConfigurationKey         = "Configuration"
	AnnotationKey            = "Annotation"
	DefaultAnnotationTextKey = "DefaultAnnotationText"
	FileKey                  = "File"
	TextKey                  = "#text"
)

// Node represents a tool node view
type Node struct {
	Index  int
	Object *tree.Object
}

// Engine represents node runtime binding
type Engine struct {
	Dll        string `json:"dll,omitempty" yaml:"dll,omitempty"`
	EntryPoint string `json:"entryPoint,omitempty" yaml:"entryPoint,omitempty"`
}

// Object returns engine settings in document form
func (e *Engine) Object() *tree.Object {
	ret := tree.NewObject()
	ret.Set(EngineDllKey, e.Dll)
	ret.Set(EngineDllEntryPointKey, e.EntryPoint)
	return ret
}

// RawToolID returns tool id text, or empty string if not defined
func (n *Node) RawToolID() string {
	value, ok := n.Object.Get(ToolIDKey)
	if !ok || value == nil {
		return ""
	}
	return toolbox.AsString(value)
}

// ToolID returns integer tool id
func (n *Node) ToolID() (int, error) {
	value, ok := n.Object.Get(ToolIDKey)
	if !ok || value == nil {
		return 0, malformed("node[%d]: missing %v", n.Index, ToolIDKey)
	}
	var text string
	switch actual := value.(type) {
	case string:
		text = actual
	case json.Number:
		text = actual.String()
	default:
		return 0, malformed("node[%d]: %v: %v", n.Index, ToolIDKey, &tree.TypeError{Expected: "integer", Actual: value})
	}
	ret, err := toolbox.ToInt(strings.TrimSpace(text))
	if err != nil {
		return 0, malformed("node[%d]: invalid %v %q", n.Index, ToolIDKey, text)
	}
	return ret, nil
}

// GuiSettings returns GuiSettings section, nil when absent
func (n *Node) GuiSettings() *tree.Object {
	ret, _ := n.Object.Object(GuiSettingsKey)
	return ret
}

// Plugin returns GuiSettings.@Plugin or empty string
func (n *Node) Plugin() string {
	plugin, _ := n.GuiSettings().String(PluginKey)
	return plugin
}

// Engine returns engine settings, nil when absent
func (n *Node) Engine() *Engine {
	settings, ok := n.Object.Object(EngineSettingsKey)
	if !ok {
		return nil
	}
	ret := &Engine{}
	ret.Dll, _ = settings.String(EngineDllKey)
	ret.EntryPoint, _ = settings.String(EngineDllEntryPointKey)
	return ret
}

// Properties returns Properties section, nil when absent
func (n *Node) Properties() *tree.Object {
	ret, _ := n.Object.Object(PropertiesKey)
	return ret
}

// Configuration returns Properties.Configuration
func (n *Node) Configuration() (*tree.Object, error) {
	value, ok := n.Properties().Get(ConfigurationKey)
	if !ok {
		return nil, fmt.Errorf("%w: missing %v.%v", ErrUnsupportedPlugin, PropertiesKey, ConfigurationKey)
	}
	ret, ok := value.(*tree.Object)
	if !ok || ret == nil {
		return nil, unsupported(PropertiesKey+"."+ConfigurationKey, &tree.TypeError{Expected: "object", Actual: value})
	}
	return ret, nil
}

// File returns the legacy file path from Properties.Configuration.File. The
// value is either a string or an element carrying its text under #text.
func (n *Node) File() (string, error) {
	config, err := n.Configuration()
	if err != nil {
		return "", err
	}
	value, ok := config.Get(FileKey)
	if !ok || value == nil {
		return "", fmt.Errorf("%w: %v.%v.%v", ErrMissingField, PropertiesKey, ConfigurationKey, FileKey)
	}
	switch actual := value.(type) {
	case string:
		return actual, nil
	case *tree.Object:
		if text, ok := actual.String(TextKey); ok {
			return text, nil
		}
		if !actual.Has(TextKey) {
			return "", fmt.Errorf("%w: %v.%v.%v", ErrMissingField, ConfigurationKey, FileKey, TextKey)
		}
	}
	return "", unsupported(ConfigurationKey+"."+FileKey, &tree.TypeError{Expected: "string", Actual: value})
}

// Annotation returns Properties.Annotation, creating it when absent
func (n *Node) Annotation() (*tree.Object, error) {
	properties := n.Properties()
	if properties == nil {
		if value, ok := n.Object.Get(PropertiesKey); ok && value != nil {
			return nil, unsupported(PropertiesKey, &tree.TypeError{Expected: "object", Actual: value})
		}
		properties = tree.NewObject()
		n.Object.Set(PropertiesKey, properties)
	}
	value, ok := properties.Get(AnnotationKey)
	if !ok || value == nil {
		annotation := tree.NewObject()
		properties.Set(AnnotationKey, annotation)
		return annotation, nil
	}
	annotation, ok := value.(*tree.Object)
	if !ok {
		return nil, unsupported(PropertiesKey+"."+AnnotationKey, &tree.TypeError{Expected: "object", Actual: value})
	}
	return annotation, nil
}

// FileName returns the last segment of a path using both '/' and '\' as separators
func FileName(path string) string {
	return path[strings.LastIndexAny(path, `/\`)+1:]
}

// SplitFileName splits a file name into stem and extension (with the dot)
func SplitFileName(name string) (string, string) {
	index := strings.LastIndexByte(name, '.')
	if index <= 0 {
		return name, ""
	}
	return name[:index], name[index:]
}

func unsupported(field string, err error) error {
	return fmt.Errorf("%w: %v: %v", ErrUnsupportedPlugin, field, err)
}
