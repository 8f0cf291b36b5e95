package cmd

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxAttachment is the largest slip image accepted, in bytes.
const maxAttachment = 5 << 20

// readAttachment turns the -slip flag value into the stored attachment. URLs
// and data URLs are kept as is, a file path is read and embedded as a data URL.
func readAttachment(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	for _, prefix := range []string{"data:", "http://", "https://"} {
		if strings.HasPrefix(ref, prefix) {
			return ref, nil
		}
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("cannot read slip: %w", err)
	}
	if len(data) > maxAttachment {
		return "", fmt.Errorf("slip %q is too large: %d bytes, max %d", ref, len(data), maxAttachment)
	}
	typ := mime.TypeByExtension(filepath.Ext(ref))
	if typ == "" {
		typ = http.DetectContentType(data)
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
