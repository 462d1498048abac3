package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{"empty existing", Label{}, Label{Value: "a", Source: "recall"}, Label{Value: "a", Source: "recall"}},
		{"empty incoming", Label{Value: "a", Source: "recall"}, Label{}, Label{Value: "a", Source: "recall"}},
		{"accumulate", Label{Value: "0", Source: "recall"}, Label{Value: "1", Source: "filter"}, Label{Value: "0|1", Source: "recall,filter"}},
		{"missing source", Label{Value: "0"}, Label{Value: "1", Source: "recall"}, Label{Value: "0|1", Source: "recall"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeLabel(tt.existing, tt.incoming))
		})
	}
}

func TestLabelValues(t *testing.T) {
	got := LabelValues(map[string]Label{"recall_source": {Value: "copurchase", Source: "recall"}})
	assert.Equal(t, map[string]string{"recall_source": "copurchase"}, got)
	assert.Empty(t, LabelValues(nil))
}
