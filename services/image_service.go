package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadRoot is served by the router under /uploads.
var UploadRoot = "uploads"

var imageExtByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SaveBase64Image decodes a (data URL or bare) base64 image into UploadRoot/subdir and
// returns the path relative to UploadRoot.
func SaveBase64Image(b64 string, subdir string) (string, error) {
	ext := ".jpg"
	if strings.HasPrefix(b64, "data:") {
		if semi := strings.Index(b64, ";"); semi > 5 {
			if e, ok := imageExtByMime[b64[5:semi]]; ok {
				ext = e
			}
		}
	}
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	if len(data) == 0 {
		return "", invalid("image", "empty")
	}

	dir := filepath.Join(UploadRoot, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	fullpath := filepath.Join(dir, filename)

	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(subdir, filename)), nil
}
