package pdf

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQR renders the QR payload for a return as a PNG. With a base URL
// the payload is the admin deep link; without one it is the bare return id.
func GenerateQR(returnID, baseURL string) ([]byte, string, error) {
	payload := returnID
	if baseURL != "" {
		payload = strings.TrimRight(baseURL, "/") + "/admin/returns/" + returnID
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	return png, payload, nil
}
