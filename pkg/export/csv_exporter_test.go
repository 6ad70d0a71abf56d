package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersHeaderFirst(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"Department", "Class", "Student", "Company"},
		Rows: []map[string]string{
			{"Department": "Computer Science", "Class": "22Z1", "Student": "Anu", "Company": "Acme"},
			{"Department": "Mechanical", "Class": "22M1", "Student": "Ravi"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Department,Class,Student,Company\nComputer Science,22Z1,Anu,Acme\nMechanical,22M1,Ravi,\n", string(out))
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})

	assert.Error(t, err)
}
