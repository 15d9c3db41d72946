package rule

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/wfcloud/model"
	"github.com/viant/wfcloud/model/tree"
	"testing"
	"time"
)

func TestParseExpression(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expectNames []string
		expectErr   bool
	}{
		{description: "literal", input: "LIST_CONNECTIONS"},
		{description: "dollar without brace", input: "cost $5", expectNames: nil},
		{description: "placeholders", input: "tfs://${workspace}/${fileName}", expectNames: []string{"workspace", "fileName"}},
		{description: "env placeholder", input: "${env.WFCLOUD_BUCKET}", expectNames: []string{"env.WFCLOUD_BUCKET"}},
		{description: "unterminated", input: "tfs://${workspace", expectErr: true},
		{description: "empty name", input: "x${}", expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			expr, err := ParseExpression(testCase.input)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectNames, expr.Names())
		})
	}
}

func TestExpression_Expand(t *testing.T) {
	t.Setenv("WFCLOUD_TEST_BUCKET", "acme")
	expr, err := ParseExpression("tfs://${env.WFCLOUD_TEST_BUCKET}/${workspace}/${fileName}")
	require.NoError(t, err)
	actual, err := expr.Expand(MapLookup(map[string]string{"fileName": "sales.csv"}), MapLookup(map[string]string{"workspace": "110911", "fileName": "ignored"}))
	require.NoError(t, err)
	assert.Equal(t, "tfs://acme/110911/sales.csv", actual)

	_, err = expr.Expand(MapLookup(map[string]string{"fileName": "x"}))
	assert.Error(t, err)
}

func TestTemplate_Build(t *testing.T) {
	value, err := tree.Decode([]byte(`{"Path":"tfs://${workspace}/${fileName}","Header":true,"ColsToUpdate":null,"DatasetId":"${datasetId}","Settings":{"action":"create","names":["${stem}"]}}`))
	require.NoError(t, err)
	template, err := NewTemplate(value.(*tree.Object), map[string]string{"workspace": "110911"})
	require.NoError(t, err)

	actual, err := template.Build(&Input{FileName: "sales.csv", Stem: "sales", DatasetID: "42", Time: time.Now()})
	require.NoError(t, err)
	encoded, err := tree.Encode(actual, "")
	require.NoError(t, err)
	assert.Equal(t, `{"Path":"tfs://110911/sales.csv","Header":true,"ColsToUpdate":null,"DatasetId":"42","Settings":{"action":"create","names":["sales"]}}`+"\n", string(encoded))

	second, err := template.Build(&Input{FileName: "other.csv", Stem: "other", DatasetID: "43"})
	require.NoError(t, err)
	assert.NotSame(t, actual, second)

	_, err = NewTemplate(value.(*tree.Object), nil)
	assert.Error(t, err, "workspace variable is not defined")
}

func TestInput_Lookup(t *testing.T) {
	input := &Input{ToolID: 7, Index: 2, Time: time.Date(2025, 12, 4, 21, 8, 5, 0, time.UTC)}
	testCases := []struct {
		name   string
		expect string
	}{
		{name: ToolIDName, expect: "7"},
		{name: IndexName, expect: "2"},
		{name: TimestampName, expect: "20251204_210805"},
		{name: CreatedAtName, expect: "Dec 4, 2025 9:08 PM"},
	}
	for _, testCase := range testCases {
		actual, ok := input.Lookup(testCase.name)
		assert.True(t, ok)
		assert.Equal(t, testCase.expect, actual, testCase.name)
	}
	_, ok := input.Lookup("bucket")
	assert.False(t, ok)
}

func TestSet_Match(t *testing.T) {
	first := &Rule{Name: "first", Match: "DbFileInput"}
	second := &Rule{Name: "second", Match: "DbFile"}
	set := &Set{Rules: []*Rule{first, second}}

	assert.Same(t, first, set.Match("AlteryxBasePluginsGui.DbFileInput.DbFileInput"))
	assert.Same(t, second, set.Match("AlteryxBasePluginsGui.DbFileOutput.DbFileOutput"))
	assert.Nil(t, set.Match("SomeOtherTool"))
	assert.Nil(t, set.Match(""))
}

func TestRule_RenameFile(t *testing.T) {
	aRule := &Rule{Extensions: map[string]string{".xlsx": ".csv", ".xls": ".csv"}}
	assert.Equal(t, "empdata - Copy.csv", aRule.RenameFile("empdata - Copy.XLSX"))
	assert.Equal(t, "data.csv", aRule.RenameFile("data.xls"))
	assert.Equal(t, "data.json", aRule.RenameFile("data.json"))
	assert.Equal(t, "data.json", (&Rule{}).RenameFile("data.json"))
}

func TestSet_Validate(t *testing.T) {
	valid := &Rule{Match: "DbFileInput", Plugin: "p", Engine: model.Engine{Dll: "x.dll", EntryPoint: "x"}, Builder: BuilderFunc(func(*Input) (*tree.Object, error) { return tree.NewObject(), nil })}
	assert.NoError(t, (&Set{Rules: []*Rule{valid}}).Validate())
	assert.Error(t, (&Set{Rules: []*Rule{{Match: "x"}}}).Validate())
	assert.Error(t, (&Set{Rules: []*Rule{valid}, Datasets: &Datasets{Strategy: "random"}}).Validate())
	assert.Error(t, (&Set{Datasets: &Datasets{Catalog: []*Dataset{{Name: "a.csv"}}}}).Validate())

	ambiguous := *valid
	ambiguous.Extensions = map[string]string{".CSV": ".txt", ".csv": ".tsv"}
	assert.Error(t, (&Set{Rules: []*Rule{&ambiguous}}).Validate())
	ambiguous.Extensions = map[string]string{".xlsx": ".csv", ".XLS": ".csv"}
	assert.NoError(t, (&Set{Rules: []*Rule{&ambiguous}}).Validate())
}
