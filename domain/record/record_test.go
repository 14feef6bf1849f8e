package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ClevelandRows(t *testing.T) {
	r, err := New([]float64{63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3, 3, 0, 6, 0})
	require.NoError(t, err)

	assert.Equal(t, 63.0, r.Age)
	assert.Equal(t, Male, r.Sex)
	assert.Equal(t, TypicalAngina, r.ChestPainType)
	assert.Equal(t, 233.0, r.Cholesterol)
	assert.True(t, r.FastingBloodSugarHigh)
	assert.False(t, r.ExerciseAngina)
	assert.Equal(t, ThalFixed, r.Thalassemia)
	assert.Equal(t, SeverityNone, r.DiagnosisSeverity)
	assert.False(t, r.DiagnosisSeverity.HasDisease())

	r, err = New([]float64{67, 1, 4, 160, 286, 0, 2, 108, 1, 1.5, 2, 3, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, Asymptomatic, r.ChestPainType)
	assert.Equal(t, 3.0, r.NumVesselsColored)
	assert.Equal(t, Severity(2), r.DiagnosisSeverity)
	assert.True(t, r.DiagnosisSeverity.HasDisease())
}

func TestNew_KeepsOutOfSetCodes(t *testing.T) {
	base := []float64{63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3, 3, 0, 6, 0}

	tests := []struct {
		name  string
		col   int
		value float64
		field Field
	}{
		{"sex outside 0-1", ColSex, 2, FieldSex},
		{"slope zero", ColSTSlope, 0, FieldSTSlope},
		{"thal not in set", ColThalassemia, 5, FieldThal},
		{"fractional vessels", ColVesselsColored, 0.5, FieldVessels},
		{"chest pain zero", ColChestPain, 0, FieldChestPain},
		{"severity above range", ColSeverity, 5, FieldSeverity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := append([]float64(nil), base...)
			values[tt.col] = tt.value

			r, err := New(values)
			require.NoError(t, err)
			assert.Equal(t, tt.value, tt.field.Value(r))
		})
	}
}

func TestNew_OutOfSetCodesMatchNoCategory(t *testing.T) {
	r, err := New([]float64{50, 2, 0, 130, 240, 2, 0, 150, 0, 1, 2, 0, 3, 0.5})
	require.NoError(t, err)

	assert.False(t, r.ChestPainType.Valid())
	assert.Equal(t, "Sex 2", r.Sex.Label())
	assert.False(t, r.FastingBloodSugarHigh)
	assert.True(t, r.DiagnosisSeverity.HasDisease())
}

func TestNew_TooFewValues(t *testing.T) {
	_, err := New([]float64{63, 1})
	assert.Error(t, err)
}

func TestIsHeader(t *testing.T) {
	header := []string{"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
		"thalach", "exang", "oldpeak", "slope", "ca", "thal", "num"}
	assert.True(t, IsHeader(header))

	upper := make([]string, len(header))
	for i, h := range header {
		upper[i] = " " + h + " "
	}
	upper[0] = "AGE"
	assert.True(t, IsHeader(upper))

	assert.False(t, IsHeader([]string{"63", "1", "1"}))
	assert.False(t, IsHeader(append([]string{"years"}, header[1:]...)))
}

func TestFieldValue(t *testing.T) {
	r, err := New([]float64{67, 1, 4, 160, 286, 0, 2, 108, 1, 1.5, 2, 3, 3, 2})
	require.NoError(t, err)

	assert.Equal(t, 286.0, FieldCholesterol.Value(r))
	assert.Equal(t, 1.0, FieldExang.Value(r))
	assert.Equal(t, 0.0, FieldFBS.Value(r))
	assert.Equal(t, 4.0, FieldChestPain.Value(r))
	assert.Len(t, Fields(), ColumnCount)

	f, err := ParseField(" THALACH ")
	require.NoError(t, err)
	assert.Equal(t, FieldMaxHeartRate, f)

	_, err = ParseField("bmi")
	assert.Error(t, err)
}

func TestChestPainLabels(t *testing.T) {
	assert.Equal(t, "Typical angina", TypicalAngina.Label())
	assert.Equal(t, "Asymptomatic", Asymptomatic.Label())
	assert.Equal(t, "Type 9", ChestPainType(9).Label())
	assert.False(t, ChestPainType(0).Valid())
	assert.False(t, ChestPainType(1.5).Valid())
	assert.True(t, Asymptomatic.Valid())
	assert.Equal(t, "Male", Male.Label())
	assert.Equal(t, "Female", Female.Label())
}
