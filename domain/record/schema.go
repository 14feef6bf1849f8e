package record

import (
	"fmt"
	"strings"
)

// Column positions in the fixed 14-column layout
const (
	ColAge = iota
	ColSex
	ColChestPain
	ColRestingBP
	ColCholesterol
	ColFastingBloodSugar
	ColRestingECG
	ColMaxHeartRate
	ColExerciseAngina
	ColSTDepression
	ColSTSlope
	ColVesselsColored
	ColThalassemia
	ColSeverity

	ColumnCount
)

// Column describes one position of the CSV layout
type Column struct {
	Index       int    `json:"index"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// Schema is the ordered column layout shared by remote files and uploads
var Schema = [ColumnCount]Column{
	{ColAge, "age", "Age in years"},
	{ColSex, "sex", "Sex (1=male,0=female)"},
	{ColChestPain, "cp", "Chest pain type (1-4)"},
	{ColRestingBP, "trestbps", "Resting BP (mm Hg)"},
	{ColCholesterol, "chol", "Cholesterol (mg/dl)"},
	{ColFastingBloodSugar, "fbs", "Fasting blood sugar >120 mg/dl"},
	{ColRestingECG, "restecg", "Resting ECG result (0-2)"},
	{ColMaxHeartRate, "thalach", "Max heart rate achieved"},
	{ColExerciseAngina, "exang", "Exercise angina (1=yes)"},
	{ColSTDepression, "oldpeak", "ST depression vs rest"},
	{ColSTSlope, "slope", "ST slope (1-3)"},
	{ColVesselsColored, "ca", "Vessels colored by fluoroscopy (0-3)"},
	{ColThalassemia, "thal", "Thallium test (3=normal,6=fixed,7=reversible)"},
	{ColSeverity, "num", "Heart disease severity (0-4)"},
}

// Columns returns the schema as a slice
func Columns() []Column {
	return Schema[:]
}

// IsHeader reports whether cells spell out the schema keys in order
func IsHeader(cells []string) bool {
	if len(cells) < ColumnCount {
		return false
	}
	for i, col := range Schema {
		if !strings.EqualFold(strings.TrimSpace(cells[i]), col.Key) {
			return false
		}
	}
	return true
}

// Field selects a numeric value from a Record
type Field string

const (
	FieldAge          Field = "age"
	FieldSex          Field = "sex"
	FieldChestPain    Field = "cp"
	FieldRestingBP    Field = "trestbps"
	FieldCholesterol  Field = "chol"
	FieldFBS          Field = "fbs"
	FieldRestingECG   Field = "restecg"
	FieldMaxHeartRate Field = "thalach"
	FieldExang        Field = "exang"
	FieldSTDepression Field = "oldpeak"
	FieldSTSlope      Field = "slope"
	FieldVessels      Field = "ca"
	FieldThal         Field = "thal"
	FieldSeverity     Field = "num"
)

var extractors = map[Field]func(Record) float64{
	FieldAge:          func(r Record) float64 { return r.Age },
	FieldSex:          func(r Record) float64 { return float64(r.Sex) },
	FieldChestPain:    func(r Record) float64 { return float64(r.ChestPainType) },
	FieldRestingBP:    func(r Record) float64 { return r.RestingBloodPressure },
	FieldCholesterol:  func(r Record) float64 { return r.Cholesterol },
	FieldFBS:          func(r Record) float64 { return boolValue(r.FastingBloodSugarHigh) },
	FieldRestingECG:   func(r Record) float64 { return float64(r.RestingECG) },
	FieldMaxHeartRate: func(r Record) float64 { return r.MaxHeartRate },
	FieldExang:        func(r Record) float64 { return boolValue(r.ExerciseAngina) },
	FieldSTDepression: func(r Record) float64 { return r.STDepression },
	FieldSTSlope:      func(r Record) float64 { return float64(r.STSlope) },
	FieldVessels:      func(r Record) float64 { return float64(r.NumVesselsColored) },
	FieldThal:         func(r Record) float64 { return float64(r.Thalassemia) },
	FieldSeverity:     func(r Record) float64 { return float64(r.DiagnosisSeverity) },
}

// Fields lists every selectable field in schema order
func Fields() []Field {
	out := make([]Field, 0, ColumnCount)
	for _, col := range Schema {
		out = append(out, Field(col.Key))
	}
	return out
}

// ParseField resolves a column key to a Field
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := extractors[f]; !ok {
		return "", fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}

// Value extracts the field from r. Unknown fields panic; use ParseField on input.
func (f Field) Value(r Record) float64 {
	fn, ok := extractors[f]
	if !ok {
		panic(fmt.Sprintf("record: unknown field %q", string(f)))
	}
	return fn(r)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
