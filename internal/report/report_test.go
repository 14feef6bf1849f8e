package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiodash/domain/dataset"
	"cardiodash/internal/ingest"
	"cardiodash/internal/testkit"
)

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	raw := strings.Join([]string{
		"age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,num",
		"63,1,1,145,233,1,2,150,0,2.3,3,0,6,0",
		"67,1,4,160,286,0,2,108,1,1.5,2,3,3,2",
		"67,1,4,160,286,0,2,108,1,1.5,2,?,3,2",
	}, "\n")
	ds, err := ingest.Ingest([]byte(raw), ingest.Options{Mode: ingest.ModeUpload, Origin: dataset.UploadOrigin("heart.csv", "csv")})
	require.NoError(t, err)
	return ds
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sample(t))

	assert.True(t, strings.HasPrefix(md, "# "+Title))
	assert.Contains(t, md, "- **Name:** heart.csv")
	assert.Contains(t, md, "| 3 | 2 | 1 | yes |")
	assert.Contains(t, md, "| missing_value | 1 |")
	assert.Contains(t, md, "| chol | 2 | 259.5 |")
	assert.Contains(t, md, "| 4 | Asymptomatic | 1 |")
	assert.Contains(t, md, "| Cholesterol > 240 | 1 |")
	assert.Contains(t, md, "## Disease associations")
	assert.Contains(t, md, "_No significant associations._")
}

func TestMarkdown_Associations(t *testing.T) {
	data := testkit.NewHeartDataGenerator(testkit.DefaultHeartConfig()).Generate()
	ds, err := ingest.Ingest(data.CSV(), ingest.Options{Origin: dataset.SourceOrigin("Cleveland")})
	require.NoError(t, err)

	md := Markdown(ds)
	assert.Contains(t, md, "| Field | Test | Effect | p | Signal |")
	// the generator raises exercise angina among diseased patients
	assert.Contains(t, md, "| exang | chi_square |")
}

func TestMarkdown_Empty(t *testing.T) {
	md := Markdown(dataset.Empty())
	assert.Contains(t, md, "_No data loaded._")
	assert.NotContains(t, md, "## Fields")

	assert.Contains(t, Markdown(nil), "_No data loaded._")
}

func TestHTML(t *testing.T) {
	page := string(HTML(sample(t)))

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, `<h1 id="heart-disease-dataset-report">`)
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<td>Asymptomatic</td>")
}
