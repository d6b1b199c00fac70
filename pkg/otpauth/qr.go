package otpauth

import (
	"errors"

	skipqrcode "github.com/skip2/go-qrcode"
)

// defaultQRSize is the edge length in pixels used when no size is given.
const defaultQRSize = 256

// QR renders the account's provisioning URI as a PNG QR code, ready to be
// scanned by another authenticator.
func QR(p Params, size int) ([]byte, error) {
	uri, err := URI(p)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := skipqrcode.Encode(uri, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}
