package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const (
	emptyMessageKeyword = "Mensaje vacío"
	noKeywordsDetected  = "Sin palabras clave detectadas"
	keywordsFailed      = "Error al extraer palabras clave"

	keywordPrompt = "Extrae las palabras clave del siguiente mensaje:\n%s\n\nPalabras clave:"
)

// ExtractKeywords asks the model for the message's keywords. The step is an
// optional enrichment: any failure or empty result degrades to a sentinel
// placeholder instead of failing the request.
func (s *Service) ExtractKeywords(ctx context.Context, message string) []string {
	if strings.TrimSpace(message) == "" {
		return []string{emptyMessageKeyword}
	}
	reply, err := s.generator.GenerateText(ctx, fmt.Sprintf(keywordPrompt, message))
	if err != nil {
		log.Printf("extract keywords failed: %v", err)
		return []string{keywordsFailed}
	}
	var keywords []string
	for _, kw := range strings.Split(reply, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return []string{noKeywordsDetected}
	}
	return keywords
}
