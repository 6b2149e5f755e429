package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"log"
	"secure-print-release/internal/model"
	"strings"
)

// AnalysisService : derives document_analysis rows from the plaintext before it is sealed
type AnalysisService struct{}

func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

func (s *AnalysisService) Analyze(content []byte, mimeType string) (*model.DocumentAnalysis, error) {
	sum := sha256.Sum256(content)
	detected := mimetype.Detect(content)

	analysis := &model.DocumentAnalysis{
		Sha256:       hex.EncodeToString(sum[:]),
		DetectedMime: detected.String(),
		SizeBytes:    int64(len(content)),
	}

	switch {
	case detected.Is("application/pdf") || mimeType == "application/pdf":
		pages, words, err := analyzePDF(content)
		if err != nil {
			return analysis, fmt.Errorf("[AnalysisService] failed to read pdf: %w", err)
		}
		analysis.PageCount = pages
		analysis.WordCount = words
	case strings.HasPrefix(detected.String(), "text/") || strings.HasPrefix(mimeType, "text/"):
		analysis.PageCount = 1
		analysis.WordCount = len(strings.Fields(string(content)))
	}

	return analysis, nil
}

// analyzePDF : the pdf reader panics on some malformed files
func analyzePDF(content []byte) (pages int, words int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, 0, err
	}

	pages = reader.NumPage()
	for pageIndex := 1; pageIndex <= pages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("[AnalysisService] failed to extract text from page %d: %v", pageIndex, err)
			continue
		}
		words += len(strings.Fields(text))
	}

	return pages, words, nil
}

// ResolveMimeType : trusts the declared type unless it is missing or generic
func ResolveMimeType(declared string, content []byte) string {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	detected := mimetype.Detect(content).String()
	return strings.TrimSpace(strings.Split(detected, ";")[0])
}
