package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetSummaryXLSX(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rep, err := s.reportSvc.SummaryXLSX(c.Request.Context(), window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+rep.Filename)
	c.Data(http.StatusOK, rep.ContentType, rep.Payload)
}

func (s *Server) GetSummaryPDF(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rep, err := s.reportSvc.SummaryPDF(c.Request.Context(), window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+rep.Filename)
	c.Data(http.StatusOK, rep.ContentType, rep.Payload)
}
