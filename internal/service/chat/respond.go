package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"daliago/internal/models"
)

const (
	promptForInput = "Por favor, escribe tu consulta sobre el cuidado de plantas para que pueda ayudarte."
	noHistoryLine  = "No hay historial disponible."
	noReplyText    = "No pude generar una respuesta en este momento."
	apologyText    = "Lo siento, ocurrió un error al procesar tu solicitud. Por favor, intenta de nuevo."

	personaTemplate = "Eres DALIA, una asistente experta en el cuidado de plantas. " +
		"Solo debes ayudar en temas relacionados con el mantenimiento, salud y crecimiento de plantas. " +
		"Si la consulta no está relacionada, informa que solo puedes ayudar en temas de plantas.\n\n" +
		"Contexto relevante del historial:\n%s\n\n" +
		"Mensaje del usuario:\n%s\n\n" +
		"Responde de manera detallada y precisa manteniéndote en el rol de DALIA:"
)

// Respond handles the chat flow. It never returns an error: anything that
// goes wrong after the emptiness check degrades to a fixed fallback string.
func (s *Service) Respond(ctx context.Context, message, user string) string {
	if strings.TrimSpace(message) == "" {
		return promptForInput
	}

	keywords := s.ExtractKeywords(ctx, message)
	turns := s.fetchHistory(ctx, user)
	prompt := fmt.Sprintf(personaTemplate, buildContext(turns, keywords), message)

	reply, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("generate response for %s failed: %v", user, err)
		return apologyText
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return noReplyText
	}
	s.recordExchange(ctx, user, message, reply)
	return reply
}

func (s *Service) fetchHistory(ctx context.Context, user string) []models.Turn {
	if s.store == nil {
		log.Printf("history store not available")
		return nil
	}
	turns, err := s.store.History(ctx, user)
	if err != nil {
		log.Printf("fetch history for %s failed: %v", user, err)
		return nil
	}
	if len(turns) == 0 {
		log.Printf("no history found for user: %s", user)
	}
	return turns
}

// buildContext flattens the ordered turns into one line per turn, followed
// by a keyword summary when any were extracted.
func buildContext(turns []models.Turn, keywords []string) string {
	var lines []string
	if len(turns) > 0 {
		for _, turn := range turns {
			if turn.Text == "" {
				continue
			}
			sender := string(turn.Sender)
			if sender == "" {
				sender = "Desconocido"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", sender, turn.Text))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, noHistoryLine)
	}
	if len(keywords) > 0 {
		lines = append(lines, "Palabras clave relevantes: "+strings.Join(keywords, ", "))
	}
	return strings.Join(lines, "\n")
}

// recordExchange appends both turns of a successful exchange. Failures are
// logged only; the reply has already been produced.
func (s *Service) recordExchange(ctx context.Context, user, message, reply string) {
	if s.store == nil || strings.TrimSpace(user) == "" {
		return
	}
	if err := s.store.Append(ctx, user, models.Turn{Sender: models.SenderUser, Text: message}); err != nil {
		log.Printf("append user turn for %s failed: %v", user, err)
		return
	}
	if err := s.store.Append(ctx, user, models.Turn{Sender: models.SenderAssistant, Text: reply}); err != nil {
		log.Printf("append assistant turn for %s failed: %v", user, err)
	}
}
