package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/docquiz/internal/model"
)

// MaxUploadBytes is the largest document the service accepts.
const MaxUploadBytes = 10 << 20

// AllowedExtensions lists the document types the service parses.
var AllowedExtensions = []string{".pdf", ".docx", ".txt"}

var validate = validator.New()

// ValidateContent checks the generated items for the requested mode.
func ValidateContent(c model.Content, mode model.Mode) error {
	if mode == model.ModeFlashcard {
		for i, card := range c.Flashcards {
			if err := validate.Struct(card); err != nil {
				return fmt.Errorf("flashcard %d: %s", i+1, describe(err))
			}
		}
		return nil
	}
	for i, item := range c.Quiz {
		if err := validate.Struct(item); err != nil {
			return fmt.Errorf("question %d: %s", i+1, describe(err))
		}
		if item.CorrectIndex >= len(item.Options) {
			return fmt.Errorf("question %d: correct index %d is outside %d options", i+1, item.CorrectIndex, len(item.Options))
		}
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag()))
		}
	}
	return "invalid item: " + strings.Join(msgs, "; ")
}

// CheckFile applies the client-side document checks: the file must exist,
// be at most MaxUploadBytes, and have an allowed extension.
func CheckFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no file provided")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if !HasAllowedExtension(path) {
		return fmt.Errorf("unsupported file type. Please upload PDF, DOCX, or TXT")
	}
	if info.Size() > MaxUploadBytes {
		return fmt.Errorf("file too large (max %d MB)", MaxUploadBytes>>20)
	}
	return nil
}

// HasAllowedExtension reports whether path ends in one of AllowedExtensions.
func HasAllowedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
