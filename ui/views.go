package ui

import (
	"net/http"

	"cardiodash/adapters/stats/senses"
	"cardiodash/domain/dataset"
	"cardiodash/domain/filter"
	"cardiodash/domain/record"
	"cardiodash/internal/analysis"

	apperrors "cardiodash/internal/errors"

	"github.com/gin-gonic/gin"
)

// respondView wraps a view-model. Views over an empty dataset are still 200.
func respondView(c *gin.Context, ds *dataset.Dataset, view interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"empty":  ds.IsEmpty(),
		"source": ds.Origin().Name,
		"view":   view,
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	var q summaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.badRequest(c, err)
		return
	}
	if q.ChestPain == 0 {
		q.ChestPain = int(record.TypicalAngina)
	}
	bins, err := parseCholesterolBins(c)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	ds := s.service.Current()
	respondView(c, ds, analysis.SummaryCard(ds.Records(), record.ChestPainType(q.ChestPain), bins))
}

func (s *Server) handleGrouped(c *gin.Context) {
	var q groupedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.badRequest(c, err)
		return
	}
	feature, err := parseGroupedFeature(q)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	ds := s.service.Current()
	respondView(c, ds, analysis.Grouped(ds.Records(), feature))
}

func (s *Server) handleScatter(c *gin.Context) {
	var q scatterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.badRequest(c, err)
		return
	}
	opts, err := q.scatterOptions()
	if err != nil {
		s.badRequest(c, err)
		return
	}

	ds := s.service.Current()
	respondView(c, ds, analysis.Scatter(ds.Records(), opts))
}

func (s *Server) handlePatterns(c *gin.Context) {
	sex, err := filter.ParseSexFilter(c.Query("sex"))
	if err != nil {
		s.badRequest(c, err)
		return
	}

	ds := s.service.Current()
	respondView(c, ds, analysis.Patterns(ds.Records(), sex))
}

// handleComparison summarizes a named source, or the working dataset when none is given
func (s *Server) handleComparison(c *gin.Context) {
	ds := s.service.Current()
	if name := c.Query("source"); name != "" {
		src, err := s.service.Source(c.Request.Context(), name)
		if err != nil {
			s.respondError(c, err)
			return
		}
		ds = src
	}
	respondView(c, ds, analysis.Comparison(ds.Origin().Name, ds.Records()))
}

func (s *Server) handleCategorical(c *gin.Context) {
	var q categoricalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.badRequest(c, err)
		return
	}
	types, err := parseChestPainTypes(c)
	if err != nil {
		s.badRequest(c, err)
		return
	}
	state := q.state(types)
	if err := state.Validate(); err != nil {
		s.respondError(c, apperrors.WithCode(apperrors.CodeValidationError, err))
		return
	}

	ds := s.service.Current()
	respondView(c, ds, analysis.Categorical(ds.Records(), state.AgeRange, state.ChestPainTypes))
}

// handleAssociations runs the disease association tests, optionally for one field
func (s *Server) handleAssociations(c *gin.Context) {
	ds := s.service.Current()
	var (
		results []senses.Result
		err     error
	)
	if name := c.Query("field"); name != "" {
		field, perr := record.ParseField(name)
		if perr != nil {
			s.badRequest(c, perr)
			return
		}
		results, err = s.senses.AnalyzeField(c.Request.Context(), ds.Records(), field)
	} else {
		results, err = s.senses.AnalyzeAll(c.Request.Context(), ds.Records())
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondView(c, ds, results)
}

func (s *Server) handleDescribe(c *gin.Context) {
	ds := s.service.Current()
	respondView(c, ds, analysis.Describe(ds.Records()))
}
