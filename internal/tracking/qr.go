package tracking

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders tracking codes as PNG QR codes pointing at the public lookup URL.
type QRGenerator struct {
	BaseURL string
	Size    int
}

func NewQRGenerator(baseURL string) *QRGenerator {
	return &QRGenerator{BaseURL: strings.TrimRight(baseURL, "/"), Size: 256}
}

// URL is the lookup address encoded in the QR; kind is "reservations" or "orders".
func (q *QRGenerator) URL(kind, code string) string {
	return fmt.Sprintf("%s/api/%s/track/%s", q.BaseURL, kind, code)
}

func (q *QRGenerator) Generate(kind, code string) ([]byte, error) {
	return qrcode.Encode(q.URL(kind, code), qrcode.Medium, q.Size)
}
