package core

// QRGenerator turns a payment URL into a scannable image.
// Implementations must be pure: same URL in, same bytes out.
type QRGenerator interface {
	// Encode renders url as a PNG of size x size pixels
	Encode(url string, size int) ([]byte, error)
}
