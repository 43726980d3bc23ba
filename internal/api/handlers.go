package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"daliago/internal/apperr"
	"daliago/internal/image"
	"daliago/internal/service/chat"
)

// Handler wires HTTP routes to the conversation builder and the image
// normalizer.
type Handler struct {
	chat       *chat.Service
	normalizer *image.Normalizer
}

// NewHandler constructs a Handler instance.
func NewHandler(chatService *chat.Service, normalizer *image.Normalizer) *Handler {
	return &Handler{
		chat:       chatService,
		normalizer: normalizer,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/chat", h.handleChat)
	router.POST("/process_image", h.processImage)
	router.GET("/ping", h.ping)
}

type chatRequest struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

func (h *Handler) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El mensaje del usuario no puede estar vacío."})
		return
	}
	response := h.chat.Respond(c.Request.Context(), req.Message, req.User)
	log.Printf("Usuario: %s, Mensaje: %s, Respuesta: %s", req.User, req.Message, response)
	c.JSON(http.StatusOK, gin.H{"response": response})
}

// imageRequest is the union of the JSON input shapes accepted for images.
type imageRequest struct {
	Image       string `json:"image"`
	ImageBase64 string `json:"image_base64"`
	ImageURL    string `json:"image_url"`
}

func (h *Handler) processImage(c *gin.Context) {
	scratch, err := h.normalizeRequest(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer image.Cleanup(scratch)

	respuesta, err := h.chat.AnalyzeImage(c.Request.Context(), scratch.Path, scratch.MIMEType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"respuesta": respuesta})
}

// normalizeRequest resolves the image source. Multipart uploads carry the
// file in the "image" field; JSON bodies carry base64 bytes or a URL.
func (h *Handler) normalizeRequest(c *gin.Context) (*image.Scratch, error) {
	if c.ContentType() == "multipart/form-data" {
		header, err := c.FormFile("image")
		if err != nil {
			return nil, apperr.New(apperr.KindValidation, "No se encontró imagen en la solicitud")
		}
		return h.normalizer.FromUpload(header)
	}

	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperr.New(apperr.KindValidation, "No se encontró imagen en base64")
	}
	switch {
	case req.Image != "":
		return h.normalizer.FromBase64(req.Image)
	case req.ImageBase64 != "":
		return h.normalizer.FromBase64(req.ImageBase64)
	case req.ImageURL != "":
		return h.normalizer.FromURL(req.ImageURL)
	}
	return nil, apperr.New(apperr.KindValidation, "No se encontró imagen en base64")
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Printf("process image failed: %v", err)
		msg = "Error al procesar la imagen: " + msg
	}
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
