package model

import (
	"crypto/sha256"

	pg "github.com/witworkapp/storekit-go/database/postgres"
)

// ReceiptFingerprint returns a stable identifier for a raw receipt blob. The
// receipt itself can be tens of kilobytes of opaque PKCS#7 data, so the
// fingerprint is what gets logged and what keys coalescing of concurrent
// validations.
func ReceiptFingerprint(receiptData []byte) []byte {
	h := sha256.Sum256(receiptData)
	return h[:]
}

// ReceiptFingerprintString renders a fingerprint for logs.
func ReceiptFingerprintString(receiptData []byte) string {
	return pg.Encode(ReceiptFingerprint(receiptData), pg.Base58)
}
