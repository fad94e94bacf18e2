package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/scholarcheck/internal/models"
	"alfredoptarigan/scholarcheck/internal/repositories"
	"alfredoptarigan/scholarcheck/internal/services"
)

const manuscriptField = "manuscript"

type UploadHandler struct {
	sessionRepo  repositories.SessionRepository
	pdfInspector services.PDFInspectorService
	maxFileSize  int64
}

func NewUploadHandler(
	sessionRepo repositories.SessionRepository,
	pdfInspector services.PDFInspectorService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		sessionRepo:  sessionRepo,
		pdfInspector: pdfInspector,
		maxFileSize:  maxFileSize,
	}
}

// HandleUpload handles POST /sessions/:id/manuscript
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	file, err := c.FormFile(manuscriptField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("No manuscript uploaded. Please upload a '%s' file.", manuscriptField),
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Manuscript file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	// the multipart data is released once the handler returns, so the
	// analysis job gets its own copy
	data, err := readUpload(file)
	if err != nil {
		log.Printf("❌ Failed to read upload %q: %v\n", file.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file.",
		})
	}

	if len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Manuscript file is empty",
		})
	}

	mimeType := services.DetectMimeType(data, file.Filename)
	if !services.IsAllowedMimeType(mimeType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Unsupported file type: %s. Please upload a PDF, plain text or markdown manuscript.", mimeType),
		})
	}

	response := models.UploadResponse{
		SessionID: session.ID.String(),
		Filename:  file.Filename,
		MimeType:  mimeType,
		Size:      int64(len(data)),
	}

	if mimeType == "application/pdf" {
		response.PageCount = h.inspectPDF(file.Filename, data)
	}

	response.Generation = session.Controller.Submit(c.UserContext(), services.NewBytesSource(file.Filename, data))
	response.Phase = string(session.Controller.State().Phase)

	return c.Status(fiber.StatusAccepted).JSON(response)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, nil
}

// inspectPDF logs what the PDF parser can see. Failures are not fatal: the
// provider may still read a manuscript the parser cannot.
func (h *UploadHandler) inspectPDF(name string, data []byte) *int {
	info, err := h.pdfInspector.Inspect(data)
	if err != nil {
		log.Printf("⚠️  PDF inspection failed for %q: %v\n", name, err)
		return nil
	}

	if !info.HasText {
		log.Printf("⚠️  %q has no extractable text, likely a scan\n", name)
	}
	log.Printf("📄 %q: %d pages\n", name, info.PageCount)

	return &info.PageCount
}
