package ui

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"cardiodash/adapters/excel"
	"cardiodash/domain/dataset"
	"cardiodash/domain/record"
	"cardiodash/internal/report"

	apperrors "cardiodash/internal/errors"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": s.service.Current().Len(),
	})
}

func (s *Server) handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"columns": record.Columns()})
}

func (s *Server) handleSources(c *gin.Context) {
	current := s.service.Current().Origin()
	sources := make([]gin.H, 0, len(s.service.Catalog()))
	for _, name := range s.service.Catalog() {
		sources = append(sources, gin.H{
			"name":     name,
			"selected": current.Kind == dataset.OriginSource && current.Name == name.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

func (s *Server) handleSelectSource(c *gin.Context) {
	ds, err := s.service.SelectSource(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, datasetSummary(ds))
}

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "code": apperrors.CodeInvalidInput})
		return
	}
	if header.Size > s.maxUploadBytes {
		s.respondError(c, apperrors.TooLarge(s.maxUploadBytes))
		return
	}

	file, err := header.Open()
	if err != nil {
		s.respondError(c, apperrors.Wrap(err, "failed to open upload"))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		s.respondError(c, apperrors.Wrap(err, "failed to read upload"))
		return
	}

	ds, err := s.service.Upload(c.Request.Context(), header.Filename, raw)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, datasetSummary(ds))
}

func (s *Server) handleDataset(c *gin.Context) {
	ds := s.service.Current()
	c.JSON(http.StatusOK, gin.H{
		"empty":   ds.IsEmpty(),
		"dataset": ds,
	})
}

func (s *Server) handleClear(c *gin.Context) {
	s.service.Clear()
	c.JSON(http.StatusOK, gin.H{"empty": true})
}

// handleExport writes the accepted records as a single-sheet workbook
func (s *Server) handleExport(c *gin.Context) {
	ds := s.service.Current()
	header := make([]string, 0, record.ColumnCount)
	for _, f := range record.Fields() {
		header = append(header, string(f))
	}
	rows := make([][]string, 0, ds.Len())
	for _, r := range ds.Records() {
		row := make([]string, 0, record.ColumnCount)
		for _, f := range record.Fields() {
			row = append(row, strconv.FormatFloat(f.Value(r), 'f', -1, 64))
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	if err := excel.WriteWorkbook(&buf, header, rows); err != nil {
		s.respondError(c, apperrors.Wrap(err, "failed to build workbook"))
		return
	}
	name := exportName(ds)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func exportName(ds *dataset.Dataset) string {
	name := ds.Origin().Name
	if name == "" {
		name = "dataset"
	}
	if ds.Fingerprint().IsEmpty() {
		return name + ".xlsx"
	}
	return fmt.Sprintf("%s-%s.xlsx", name, ds.Fingerprint().Short())
}

func (s *Server) handleReport(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(s.service.Current()))
}

// datasetSummary is the response to a successful load: the report without the records
func datasetSummary(ds *dataset.Dataset) gin.H {
	return gin.H{
		"id":          ds.ID(),
		"origin":      ds.Origin(),
		"fingerprint": ds.Fingerprint(),
		"report":      ds.Report(),
		"records":     ds.Len(),
		"empty":       ds.IsEmpty(),
	}
}
