package server

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/multiflexhq/multiflex/rag"
	"go.uber.org/zap"
)

const maxUploadSize = 10 * 1024 * 1024

// supportedExtensions are the plain-text formats the chunker understands.
var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// UploadHandler serves document ingestion and listing for the RAG store.
type UploadHandler struct {
	store   *rag.Store
	chunker *rag.Chunker
}

type uploadResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Chunks   int    `json:"chunks,omitempty"`
}

// Upload ingests one or more files for a user. Each file succeeds or fails
// independently; the response reports per-file outcomes.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	userID := c.FormValue("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart form"})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no files provided"})
	}

	results := make([]uploadResult, 0, len(files))
	for _, fh := range files {
		result := uploadResult{Filename: fh.Filename, Status: "success"}

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		switch {
		case !supportedExtensions[ext]:
			result.Status = "error"
			result.Message = "unsupported file type, supported: .txt, .md"
		case fh.Size > maxUploadSize:
			result.Status = "error"
			result.Message = fmt.Sprintf("file too large, maximum size: %dMB", maxUploadSize/(1024*1024))
		default:
			chunks, err := h.ingestFile(c.UserContext(), fh, ext, userID)
			if err != nil {
				logger.Error("Failed to ingest file",
					zap.String("filename", fh.Filename), zap.Error(err))
				result.Status = "error"
				result.Message = err.Error()
			} else {
				result.Chunks = chunks
			}
		}

		results = append(results, result)
	}

	return c.JSON(fiber.Map{"results": results})
}

func (h *UploadHandler) ingestFile(ctx context.Context, fh *multipart.FileHeader, ext, userID string) (int, error) {
	f, err := fh.Open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return 0, err
	}

	chunks := h.chunker.Chunk(string(content), fh.Filename, strings.TrimPrefix(ext, "."), userID)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("file has no text content")
	}

	if err := h.store.Ingest(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// Documents lists what a user has uploaded.
func (h *UploadHandler) Documents(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user id is required"})
	}

	info, err := h.store.Info(c.UserContext(), userID)
	if err != nil {
		logger.Error("Failed to list documents", zap.String("userId", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list documents"})
	}

	return c.JSON(info)
}
