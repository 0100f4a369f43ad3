package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/slikapay/payment-engine/internal/domain/port/core"
)

// Generator renders payment URLs as PNG QR codes
type Generator struct{}

// NewGenerator creates a new QR code generator
func NewGenerator() core.QRGenerator {
	return &Generator{}
}

// Encode renders url as a size x size PNG. Medium error correction is
// enough for on-screen codes scanned at close range.
func (g *Generator) Encode(url string, size int) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("cannot encode empty url")
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr encoding failed: %w", err)
	}
	return png, nil
}
