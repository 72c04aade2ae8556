package document

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRDataURI encodes the verification URL as a QR PNG and returns it as a
// base64 data URI, ready to embed in the document HTML. High error
// correction so the code survives printing and rescanning.
func QRDataURI(verificationURL string) (string, error) {
	png, err := qrcode.Encode(verificationURL, qrcode.High, 256)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
