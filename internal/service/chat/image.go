package chat

import (
	"context"
	"strings"
)

const (
	analysisOpening = "Eres DALIA, una asistente experta en el cuidado de plantas. " +
		"Analiza la planta de esta imagen: identifica la especie si es posible, " +
		"describe su estado de salud y recomienda cuidados. " +
		"Si no hay plantas en la imagen, responde que no hay plantas."
	analysisQuestion = "¿Qué hay en la imagen?"

	noPlantsReply = "No se detectaron plantas en la imagen."
)

// noPlantsMarkers are checked case-insensitively in the model's reply and
// collapsed into the canonical no-plants response.
var noPlantsMarkers = []string{"no hay plantas", "no puedo identificar"}

// AnalyzeImage uploads the scratch file and runs a single-turn conversation
// with the fixed plant-analysis instruction.
func (s *Service) AnalyzeImage(ctx context.Context, path, mimeType string) (string, error) {
	handle, err := s.uploader.UploadFile(ctx, path, mimeType)
	if err != nil {
		return "", err
	}
	reply, err := s.generator.GenerateWithFile(ctx, *handle, analysisOpening, analysisQuestion)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return noReplyText, nil
	}
	lower := strings.ToLower(reply)
	for _, marker := range noPlantsMarkers {
		if strings.Contains(lower, marker) {
			return noPlantsReply, nil
		}
	}
	return reply, nil
}
