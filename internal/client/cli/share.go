package cli

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Share prints the public join link for a token along with a QR code that
// encodes the same link, ready to be projected in class.
func (a *App) Share(joinToken string) error {
	link := strings.TrimRight(a.config.PublicBaseURL, "/") + "/session/run/" + joinToken

	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		printlnFn("Could not build a QR code:", err.Error())
		return err
	}

	printlnFn(qr.ToSmallString(false))
	printlnFn("Join token:", joinToken)
	printlnFn("Join link: ", link)
	return nil
}
