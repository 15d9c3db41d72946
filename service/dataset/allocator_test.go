package dataset

import (
	"github.com/stretchr/testify/assert"
	"github.com/viant/wfcloud/model/rule"
	"testing"
)

func TestAllocator_Allocate(t *testing.T) {
	catalog := []*rule.Dataset{
		{Name: "empdata.csv", ID: "560409", URI: "tfs://acme/empdata.csv"},
		{Name: "test.csv", ID: "201426", URI: "tfs://acme/test.csv"},
	}
	type call struct {
		toolID   int
		fileName string
		expectID string
	}
	testCases := []struct {
		description string
		settings    *rule.Datasets
		base        int64
		calls       []call
	}{
		{
			description: "sequence",
			settings:    &rule.Datasets{Base: 559479},
			calls:       []call{{toolID: 4, expectID: "559479"}, {toolID: 9, expectID: "559480"}},
		},
		{
			description: "sequence with step and override",
			settings:    &rule.Datasets{Base: 1, Step: 10},
			base:        1000,
			calls:       []call{{expectID: "1000"}, {expectID: "1010"}},
		},
		{
			description: "tool id",
			settings:    &rule.Datasets{Base: 500, Strategy: rule.StrategyToolID},
			calls:       []call{{toolID: 4, expectID: "504"}, {toolID: 2, expectID: "502"}},
		},
		{
			description: "catalog before sequence",
			settings:    &rule.Datasets{Base: 10, Catalog: catalog},
			calls: []call{
				{fileName: "EMPDATA.csv", expectID: "560409"},
				{fileName: "test_2024.csv", expectID: "201426"},
				{fileName: "sales.csv", expectID: "10"},
			},
		},
		{
			description: "nil settings",
			calls:       []call{{expectID: "0"}, {expectID: "1"}},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			allocator := New(testCase.settings, testCase.base)
			for _, c := range testCase.calls {
				allocation := allocator.Allocate(c.toolID, c.fileName)
				assert.Equal(t, c.expectID, allocation.ID)
			}
		})
	}
}
