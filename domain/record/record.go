// Package record defines the normalized patient observation and its coded fields.
package record

import (
	"fmt"
	"math"
)

// Sex is the coded patient sex
type Sex float64

const (
	Female Sex = 0
	Male   Sex = 1
)

// Label returns the display label used by the sex distribution charts
func (s Sex) Label() string {
	switch s {
	case Male:
		return "Male"
	case Female:
		return "Female"
	default:
		return fmt.Sprintf("Sex %g", float64(s))
	}
}

// ChestPainType is the coded chest pain category (1-4)
type ChestPainType float64

const (
	TypicalAngina  ChestPainType = 1
	AtypicalAngina ChestPainType = 2
	NonAnginalPain ChestPainType = 3
	Asymptomatic   ChestPainType = 4
)

// ChestPainTypes lists every legal chest pain code in ascending order
var ChestPainTypes = []ChestPainType{TypicalAngina, AtypicalAngina, NonAnginalPain, Asymptomatic}

// Label returns the human readable chest pain description
func (c ChestPainType) Label() string {
	switch c {
	case TypicalAngina:
		return "Typical angina"
	case AtypicalAngina:
		return "Atypical angina"
	case NonAnginalPain:
		return "Non-anginal pain"
	case Asymptomatic:
		return "Asymptomatic"
	default:
		return fmt.Sprintf("Type %g", float64(c))
	}
}

// Valid reports whether c is one of the four chest pain codes
func (c ChestPainType) Valid() bool {
	return c >= TypicalAngina && c <= Asymptomatic && c == ChestPainType(math.Trunc(float64(c)))
}

// RestingECG is the resting electrocardiographic result (0-2)
type RestingECG float64

// STSlope is the slope of the peak exercise ST segment (1-3)
type STSlope float64

// Thalassemia is the thallium stress test result
type Thalassemia float64

const (
	ThalNormal     Thalassemia = 3
	ThalFixed      Thalassemia = 6
	ThalReversible Thalassemia = 7
)

// Severity is the diagnosis severity, 0 meaning no disease
type Severity float64

const (
	SeverityNone Severity = 0
	SeverityMax  Severity = 4
)

// HasDisease reports whether the diagnosis indicates heart disease. Any positive
// value counts, including values outside 1-4.
func (s Severity) HasDisease() bool {
	return s > SeverityNone
}

// Record is one normalized patient observation. Values are copied, never shared.
type Record struct {
	Age                   float64       `json:"age"`
	Sex                   Sex           `json:"sex"`
	ChestPainType         ChestPainType `json:"cp"`
	RestingBloodPressure  float64       `json:"trestbps"`
	Cholesterol           float64       `json:"chol"`
	FastingBloodSugarHigh bool          `json:"fbs"`
	RestingECG            RestingECG    `json:"restecg"`
	MaxHeartRate          float64       `json:"thalach"`
	ExerciseAngina        bool          `json:"exang"`
	STDepression          float64       `json:"oldpeak"`
	STSlope               STSlope       `json:"slope"`
	NumVesselsColored     float64       `json:"ca"`
	Thalassemia           Thalassemia   `json:"thal"`
	DiagnosisSeverity     Severity      `json:"num"`
}

// New builds a Record from values in schema order. Coded columns are stored
// as given; values outside the documented code sets are kept and simply match
// no chart category.
func New(values []float64) (Record, error) {
	if len(values) < ColumnCount {
		return Record{}, fmt.Errorf("expected %d values, got %d", ColumnCount, len(values))
	}

	return Record{
		Age:                   values[ColAge],
		Sex:                   Sex(values[ColSex]),
		ChestPainType:         ChestPainType(values[ColChestPain]),
		RestingBloodPressure:  values[ColRestingBP],
		Cholesterol:           values[ColCholesterol],
		FastingBloodSugarHigh: values[ColFastingBloodSugar] == 1,
		RestingECG:            RestingECG(values[ColRestingECG]),
		MaxHeartRate:          values[ColMaxHeartRate],
		ExerciseAngina:        values[ColExerciseAngina] == 1,
		STDepression:          values[ColSTDepression],
		STSlope:               STSlope(values[ColSTSlope]),
		NumVesselsColored:     values[ColVesselsColored],
		Thalassemia:           Thalassemia(values[ColThalassemia]),
		DiagnosisSeverity:     Severity(values[ColSeverity]),
	}, nil
}
