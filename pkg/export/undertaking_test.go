package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUndertakingData() UndertakingData {
	return UndertakingData{
		StudentName:     "Anita R",
		RollNumber:      "22Z101",
		DepartmentName:  "Computer Science",
		CompanyName:     "Acme Corp",
		CompanyAddress:  "1 Industrial Estate, Coimbatore",
		SupervisorName:  "R. Kumar",
		SupervisorEmail: "kumar@acme.example",
		DepartmentGuide: "Dr. Priya",
		StartDate:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Stipend:         15000,
		GeneratedAt:     time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestUndertakingRendererProducesTwoPagePDF(t *testing.T) {
	renderer := NewUndertakingRenderer()
	pdf, err := renderer.Render(sampleUndertakingData())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	// gofpdf records the page count in the document catalog.
	assert.Contains(t, string(pdf), "/Count 2")
}

func TestUndertakingRendererHandlesEmptyOptionalFields(t *testing.T) {
	renderer := NewUndertakingRenderer()
	data := sampleUndertakingData()
	data.PendingRedoCourses = ""
	data.PendingRACourses = ""
	data.PendingCurrentCourses = ""
	data.Remarks = ""
	data.Stipend = 0

	pdf, err := renderer.Render(data)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "01-05-2026", formatDate(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFormatStipend(t *testing.T) {
	assert.Equal(t, "0", formatStipend(0))
	assert.Equal(t, "15000", formatStipend(15000))
	assert.Equal(t, "12500.5", formatStipend(12500.50))
}

func TestOrNone(t *testing.T) {
	assert.Equal(t, "None", orNone(""))
	assert.Equal(t, "18XW41", orNone("18XW41"))
}
