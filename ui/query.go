package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cardiodash/domain/filter"
	"cardiodash/domain/record"
	"cardiodash/internal/analysis"

	"github.com/gin-gonic/gin"
)

type summaryQuery struct {
	ChestPain int `form:"cp" binding:"omitempty,min=1,max=4"`
}

type groupedQuery struct {
	Feature string `form:"feature"`
}

type scatterQuery struct {
	X      string   `form:"x"`
	Y      string   `form:"y"`
	Width  float64  `form:"width" binding:"omitempty,gt=0"`
	Height float64  `form:"height" binding:"omitempty,gt=0"`
	X0     *float64 `form:"x0"`
	Y0     *float64 `form:"y0"`
	X1     *float64 `form:"x1"`
	Y1     *float64 `form:"y1"`
}

type categoricalQuery struct {
	AgeMin *float64 `form:"ageMin"`
	AgeMax *float64 `form:"ageMax"`
}

// parseIntList reads a comma separated list. present is false when the
// parameter is absent, so callers can tell "default" from "none selected".
func parseIntList(c *gin.Context, key string) (values []int, present bool, err error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil, false, nil
	}
	values = []int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, true, fmt.Errorf("%s: %q is not an integer", key, part)
		}
		values = append(values, n)
	}
	return values, true, nil
}

func parseCholesterolBins(c *gin.Context) ([]int, error) {
	bins, present, err := parseIntList(c, "chol")
	if err != nil {
		return nil, err
	}
	if !present {
		return filter.DefaultState().CholesterolBins, nil
	}
	for _, b := range bins {
		if b < 0 || b >= len(analysis.CholesterolRanges) {
			return nil, fmt.Errorf("chol: range index %d out of bounds", b)
		}
	}
	return bins, nil
}

func parseChestPainTypes(c *gin.Context) ([]record.ChestPainType, error) {
	codes, present, err := parseIntList(c, "cp")
	if err != nil {
		return nil, err
	}
	if !present {
		return filter.DefaultState().ChestPainTypes, nil
	}
	types := make([]record.ChestPainType, 0, len(codes))
	for _, code := range codes {
		types = append(types, record.ChestPainType(code))
	}
	return types, nil
}

func parseGroupedFeature(q groupedQuery) (record.Field, error) {
	if q.Feature == "" {
		return analysis.GroupedFeatures[0], nil
	}
	f, err := record.ParseField(q.Feature)
	if err != nil {
		return "", err
	}
	if !slices.Contains(analysis.GroupedFeatures, f) {
		return "", fmt.Errorf("feature %q is not offered by the grouped chart", q.Feature)
	}
	return f, nil
}

// scatterOptions applies the query over the default chart. A brush needs all four corners.
func (q scatterQuery) scatterOptions() (analysis.ScatterOptions, error) {
	opts := analysis.DefaultScatterOptions()
	if q.X != "" {
		f, err := record.ParseField(q.X)
		if err != nil {
			return opts, err
		}
		opts.XField = f
	}
	if q.Y != "" {
		f, err := record.ParseField(q.Y)
		if err != nil {
			return opts, err
		}
		opts.YField = f
	}
	if q.Width > 0 {
		opts.Width = q.Width
	}
	if q.Height > 0 {
		opts.Height = q.Height
	}

	corners := []*float64{q.X0, q.Y0, q.X1, q.Y1}
	set := 0
	for _, v := range corners {
		if v != nil {
			set++
		}
	}
	switch set {
	case 0:
	case len(corners):
		opts.Brush = &filter.Rect{X0: *q.X0, Y0: *q.Y0, X1: *q.X1, Y1: *q.Y1}
	default:
		return opts, fmt.Errorf("brush needs x0, y0, x1 and y1")
	}
	return opts, nil
}

// categoricalState builds the filter state for the categorical plot
func (q categoricalQuery) state(types []record.ChestPainType) filter.State {
	state := filter.DefaultState()
	if q.AgeMin != nil {
		state.AgeRange.Low = *q.AgeMin
	}
	if q.AgeMax != nil {
		state.AgeRange.High = *q.AgeMax
	}
	state.ChestPainTypes = types
	return state
}
