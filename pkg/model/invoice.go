package model

import (
	"crypto/sha256"
	"encoding/base64"
	"time"
)

// HashSHA is a hash value together with its algorithm and encoding.
type HashSHA struct {
	Algorithm string `json:"algorithm"`
	Encoding  string `json:"encoding"`
	Value     string `json:"value"`
}

// InvoiceHash pairs a document hash with the document size in bytes.
type InvoiceHash struct {
	HashSHA  HashSHA `json:"hashSHA"`
	FileSize int64   `json:"fileSize"`
}

// SendInvoiceRequest submits one encrypted invoice to an online session.
// EncryptedInvoiceContent carries the AES-encrypted invoice bytes, base64
// encoded; the plaintext never crosses the wire.
type SendInvoiceRequest struct {
	InvoiceHash             InvoiceHash  `json:"invoiceHash"`
	EncryptedInvoiceHash    InvoiceHash  `json:"encryptedInvoiceHash"`
	EncryptedInvoiceContent string       `json:"encryptedInvoiceContent"`
	CorrectedInvoiceHash    *InvoiceHash `json:"correctedInvoiceHash,omitempty"`
}

// NewSendInvoiceRequest builds a SendInvoiceRequest from the plaintext
// invoice and its encrypted form, computing both SHA-256 digests. The
// encrypted bytes must have been produced with the session's declared
// encryption parameters; this constructor only carries them.
func NewSendInvoiceRequest(invoice, encrypted []byte) (*SendInvoiceRequest, error) {
	if len(invoice) == 0 {
		return nil, &ValidationError{Field: "invoice", Reason: "must not be empty"}
	}
	if len(encrypted) == 0 {
		return nil, &ValidationError{Field: "encrypted", Reason: "must not be empty"}
	}
	return &SendInvoiceRequest{
		InvoiceHash:             newInvoiceHash(invoice),
		EncryptedInvoiceHash:    newInvoiceHash(encrypted),
		EncryptedInvoiceContent: base64.StdEncoding.EncodeToString(encrypted),
	}, nil
}

// WithCorrectedInvoice records the hash of the invoice being corrected,
// for technical-correction submissions.
func (r *SendInvoiceRequest) WithCorrectedInvoice(original []byte) *SendInvoiceRequest {
	h := newInvoiceHash(original)
	r.CorrectedInvoiceHash = &h
	return r
}

func newInvoiceHash(data []byte) InvoiceHash {
	sum := sha256.Sum256(data)
	return InvoiceHash{
		HashSHA: HashSHA{
			Algorithm: "SHA-256",
			Encoding:  "Base64",
			Value:     base64.StdEncoding.EncodeToString(sum[:]),
		},
		FileSize: int64(len(data)),
	}
}

// SendInvoiceResponse acknowledges an accepted invoice submission.
type SendInvoiceResponse struct {
	ReferenceNumber string    `json:"referenceNumber"`
	Timestamp       time.Time `json:"timestamp,omitempty"`
}
