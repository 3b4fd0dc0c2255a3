package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"marinequote/internal"
	"marinequote/internal/catalog"
	"marinequote/internal/pipeline"
)

func (s *Server) login(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}
	if s.cfg.AdminPasswordHash == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access not configured"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("admin", true)
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) listParts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parts": s.workspace.Catalog()})
}

func (s *Server) importParts(c *gin.Context) {
	blob, _, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parts, err := catalog.ImportWorkbook(blob)
	if errors.Is(err, internal.ErrNoValidData) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no valid rows in supplied list"})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	replace := c.Query("replace") == "1"
	if err := s.workspace.ImportCatalog(parts, replace); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(parts), "replace": replace})
}

func (s *Server) clearParts(c *gin.Context) {
	if err := s.workspace.ClearCatalog(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// reconcile accepts either an uploaded source file (form field "file" plus
// "type": xlsx|pdf|word|eml) or inline "text"/"html" form content, extracts
// candidates and rebuilds the working selection.
func (s *Server) reconcile(c *gin.Context) {
	candidates, err := s.extractUpload(c)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, internal.ErrExtractionFailed) || errors.Is(err, internal.ErrExtractionUnavailable) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	result, err := s.workspace.Reconcile(c.Request.Context(), candidates, func(processed, total int) {
		fmt.Printf("reconcile progress %d/%d\n", processed, total)
	})
	if errors.Is(err, internal.ErrEmptyExtraction) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no part identifiers found in source"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) extractUpload(c *gin.Context) ([]internal.ImportCandidate, error) {
	if text := c.PostForm("text"); strings.TrimSpace(text) != "" {
		return pipeline.ExtractFromText(text), nil
	}
	if html := c.PostForm("html"); strings.TrimSpace(html) != "" {
		return pipeline.ExtractFromHTML(html), nil
	}

	blob, filename, err := readUpload(c)
	if err != nil {
		return nil, err
	}

	kind := c.PostForm("type")
	if kind == "" {
		kind = kindFromFilename(filename)
	}
	switch kind {
	case "xlsx":
		return pipeline.ExtractFromWorkbook(blob)
	case "pdf", "word":
		return pipeline.ExtractFromDocumentWithFallback(blob, pipeline.DocumentKind(kind), s.cfg.DegradedFallback)
	case "eml":
		items, _, err := pipeline.ExtractFromEmailRaw(blob)
		return items, err
	default:
		return nil, fmt.Errorf("unsupported source type: %q", kind)
	}
}

func (s *Server) selection(c *gin.Context) {
	qty, amount := s.workspace.Totals()
	c.JSON(http.StatusOK, gin.H{
		"entries":     s.workspace.Selection(),
		"totalQty":    qty,
		"totalAmount": amount,
	})
}

func (s *Server) updateSelection(c *gin.Context) {
	var body struct {
		Quantity      *int     `json:"quantity"`
		PriceOverride *float64 `json:"priceOverride"`
		Reviewed      *bool    `json:"reviewed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	ok := true
	if body.Quantity != nil {
		ok = s.workspace.SetQuantity(id, *body.Quantity) && ok
	}
	if body.PriceOverride != nil {
		ok = s.workspace.SetPriceOverride(id, *body.PriceOverride) && ok
	}
	if body.Reviewed != nil && *body.Reviewed {
		ok = s.workspace.MarkReviewed(id) && ok
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found or invalid value"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) exportSelection(c *gin.Context) {
	entries := s.workspace.Selection()
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing selected"})
		return
	}
	writeXLSX(c, "quotation.xlsx", entries)
}

func (s *Server) saveQuotation(c *gin.Context) {
	var body struct {
		Title string `json:"title"`
	}
	_ = c.ShouldBindJSON(&body)

	id, err := s.workspace.SaveQuotation(body.Title)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) listQuotations(c *gin.Context) {
	quotes, err := s.db.ListQuotations(100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotations": quotes})
}

func (s *Server) exportQuotation(c *gin.Context) {
	_, entries, err := s.db.GetQuotation(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
		return
	}
	writeXLSX(c, c.Param("id")+".xlsx", entries)
}

func writeXLSX(c *gin.Context, filename string, entries []internal.SelectionEntry) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := pipeline.WriteQuotationXLSX(entries, c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func readUpload(c *gin.Context) ([]byte, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("file upload required")
	}
	f, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	blob, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return blob, file.Filename, nil
}

func kindFromFilename(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls"):
		return "xlsx"
	case strings.HasSuffix(lower, ".pdf"):
		return "pdf"
	case strings.HasSuffix(lower, ".docx") || strings.HasSuffix(lower, ".doc"):
		return "word"
	case strings.HasSuffix(lower, ".eml"):
		return "eml"
	default:
		return ""
	}
}
