package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// TOTPIssuer is the issuer name shown in authenticator apps.
const TOTPIssuer = "Content Admin"

// TOTPEnrollment is what a user needs to add the account to an
// authenticator app.
type TOTPEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauth_url"`
	// QRCode is a base64-encoded PNG of URL.
	QRCode string `json:"qr_code"`
}

// GenerateTOTP creates a new secret for the account.
func GenerateTOTP(accountName string) (*TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	return &TOTPEnrollment{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	}, nil
}

// ValidateTOTP checks a six-digit code against secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
