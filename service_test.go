package wfcloud

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/wfcloud/internal/clock"
	"github.com/viant/wfcloud/internal/idgen"
	"github.com/viant/wfcloud/model"
	"github.com/viant/wfcloud/progress"
	"github.com/viant/wfcloud/service/dao"
	"github.com/viant/wfcloud/service/migrator"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const salesFlow = `{"content":{"Nodes":{"Node":[{"@ToolID":"1","GuiSettings":{"@Plugin":"AlteryxBasePluginsGui.DbFileInput.DbFileInput"},"Properties":{"Configuration":{"File":"C:\\data\\sales.csv"},"Annotation":{"DefaultAnnotationText":"sales.csv"}},"EngineSettings":{"@EngineDll":"AlteryxBasePluginsEngine.dll","@EngineDllEntryPoint":"AlteryxDbFileInput"}},{"@ToolID":"2","GuiSettings":{"@Plugin":"AlteryxBasePluginsGui.Filter.Filter"}}]},"Properties":{}}}`

func newTestService(t *testing.T, config *Config, opts ...Option) *Service {
	t.Setenv("WFCLOUD_BUCKET", "acme-trial")
	t.Setenv("WFCLOUD_WORKSPACE", "110911")
	opts = append([]Option{
		WithConfig(config),
		WithMigratorOptions(
			migrator.WithClock(clock.At(time.Date(2025, 12, 4, 21, 8, 0, 0, time.UTC))),
			migrator.WithIDGenerator(idgen.Fixed("cf9ac204")),
		),
	}, opts...)
	srv, err := New(opts...)
	require.NoError(t, err)
	return srv
}

func writeFile(t *testing.T, dir, name, content string) string {
	location := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(location, []byte(content), 0644))
	return location
}

func TestOutputURL(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		suffix      string
		expect      string
	}{
		{description: "relative", input: "flow.json", expect: "flow_cloud.json"},
		{description: "absolute", input: "/tmp/a.b/flow.json", suffix: "_v2", expect: "/tmp/a.b/flow_v2.json"},
		{description: "no extension", input: "/tmp/a.b/flow", expect: "/tmp/a.b/flow_cloud"},
		{description: "windows", input: `C:\flows\sales.yxmd.json`, expect: `C:\flows\sales.yxmd_cloud.json`},
		{description: "url", input: "s3://bucket/flows/flow.json", expect: "s3://bucket/flows/flow_cloud.json"},
		{description: "hidden file", input: "/tmp/.flow", expect: "/tmp/.flow_cloud"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, OutputURL(testCase.input, testCase.suffix), testCase.description)
	}
}

func TestService_Convert(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	inputURL := writeFile(t, dir, "sales.json", salesFlow)

	srv := newTestService(t, DefaultConfig())
	set, err := srv.LoadRules(ctx)
	require.NoError(t, err)

	result, err := srv.Convert(ctx, set, inputURL, "")
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.Equal(t, filepath.Join(dir, "sales_cloud.json"), result.OutputURL)
	assert.Equal(t, 1, result.Report.Converted())

	data, err := os.ReadFile(result.OutputURL)
	require.NoError(t, err)
	workflow, err := model.Decode(data)
	require.NoError(t, err)
	nodes, err := workflow.Nodes()
	require.NoError(t, err)
	assert.Equal(t, "AlteryxBasePluginsGui.UniversalInput.UniversalInput", nodes.Items[0].Plugin())
	assert.Equal(t, "AlteryxBasePluginsGui.Filter.Filter", nodes.Items[1].Plugin())
	assert.Contains(t, string(data), `"SampleFileUri": "tfs://acme-trial/110911/uploads/cf9ac204/sales.csv"`)
	assert.Contains(t, string(data), `"CloudDisableAutorename": {`)

	_, err = srv.Convert(ctx, set, inputURL, "")
	assert.True(t, errors.Is(err, dao.ErrAlreadyExists))

	config := DefaultConfig()
	config.Overwrite = true
	_, err = newTestService(t, config).Convert(ctx, set, inputURL, "")
	assert.NoError(t, err)

	_, err = srv.Convert(ctx, set, inputURL, inputURL)
	assert.Error(t, err)
}

func TestService_Convert_DryRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	inputURL := writeFile(t, dir, "sales.json", salesFlow)

	config := DefaultConfig()
	config.DryRun = true
	srv := newTestService(t, config)
	set, err := srv.LoadRules(ctx)
	require.NoError(t, err)

	result, err := srv.Convert(ctx, set, inputURL, "")
	require.NoError(t, err)
	assert.False(t, result.Written)
	assert.True(t, strings.HasPrefix(result.Diff, "--- "+inputURL))
	assert.Contains(t, result.Diff, `"@Plugin": "AlteryxBasePluginsGui.UniversalInput.UniversalInput"`)
	assert.False(t, result.Stats.Empty())
	_, err = os.Stat(result.OutputURL)
	assert.True(t, os.IsNotExist(err))
}

func TestService_ConvertAll(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.json", salesFlow)
	malformed := writeFile(t, dir, "malformed.json", `{"content":{"Properties":{}}}`)
	missing := filepath.Join(dir, "missing.json")

	var last progress.Counters
	srv := newTestService(t, DefaultConfig(), WithProgressListener(func(p progress.Counters) { last = p }))
	set, err := srv.LoadRules(ctx)
	require.NoError(t, err)

	results, err := srv.ConvertAll(ctx, set, valid, malformed, missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMalformedDocument))
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Error(t, results[2].Err)

	assert.Equal(t, 3, last.TotalDocuments)
	assert.Equal(t, 1, last.ConvertedDocuments)
	assert.Equal(t, 2, last.FailedDocuments)
	assert.Equal(t, 2, last.Nodes)
	assert.Equal(t, 1, last.ChangedNodes)
}

func TestNew(t *testing.T) {
	testCases := []struct {
		description  string
		config       *Config
		expectSuffix string
		expectErr    bool
	}{
		{description: "nil config", config: nil, expectSuffix: DefaultSuffix},
		{description: "custom config", config: &Config{Suffix: "_v2", Indent: "\t"}, expectSuffix: "_v2"},
		{description: "invalid config", config: &Config{Suffix: "_v2", DiffContext: -1}, expectErr: true},
	}
	for _, testCase := range testCases {
		srv, err := New(WithConfig(testCase.config))
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectSuffix, srv.Config().Suffix, testCase.description)
	}
}

func TestService_LoadRules(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rulesURL := writeFile(t, dir, "rules.yaml", `name: minimal
rules:
  - match: DbFileInput
    plugin: UniversalInput
    engine: {dll: UniversalInputTool.dll, entryPoint: UniversalInputTool}
    configuration:
      File: ${fileName}
`)
	config := DefaultConfig()
	config.Rules = rulesURL
	set, err := newTestService(t, config).LoadRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, "minimal", set.Name)
	assert.Len(t, set.Rules, 1)
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testCases := []struct {
		description string
		content     string
		expect      *Config
		expectErr   bool
	}{
		{
			description: "overrides",
			content:     "suffix: _v2\nannotate: true\ndatasetBase: 700\n",
			expect:      &Config{Suffix: "_v2", Indent: "  ", DiffContext: 3, Annotate: true, DatasetBase: 700},
		},
		{
			description: "defaults",
			content:     "{}\n",
			expect:      DefaultConfig(),
		},
		{
			description: "invalid indent",
			content:     "indent: xx\n",
			expectErr:   true,
		},
		{
			description: "empty suffix",
			content:     "suffix: ''\n",
			expectErr:   true,
		},
	}
	for i, testCase := range testCases {
		location := writeFile(t, dir, "config"+string(rune('a'+i))+".yaml", testCase.content)
		actual, err := LoadConfig(ctx, location)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}
