package model

import "time"

// FormCode declares the logical invoice schema a session carries.
type FormCode struct {
	SystemCode    string `json:"systemCode"`
	SchemaVersion string `json:"schemaVersion"`
	Value         string `json:"value"`
}

// EncryptionInfo declares the symmetric encryption parameters for a session:
// the AES key wrapped with the service's public key and the CBC
// initialization vector, both base64 encoded. Immutable for the life of the
// session once declared at open.
type EncryptionInfo struct {
	EncryptedSymmetricKey string `json:"encryptedSymmetricKey"`
	InitializationVector  string `json:"initializationVector"`
}

// OpenOnlineSessionRequest opens a streamed, invoice-at-a-time session.
type OpenOnlineSessionRequest struct {
	FormCode   FormCode       `json:"formCode"`
	Encryption EncryptionInfo `json:"encryption"`
}

// OpenSessionResponse acknowledges an opened session. ReferenceNumber is
// opaque and must be echoed verbatim in every follow-up call.
type OpenSessionResponse struct {
	ReferenceNumber string    `json:"referenceNumber"`
	ValidUntil      time.Time `json:"validUntil,omitempty"`
}

// SessionStatus is the aggregate state of a session as observed by polling.
// The server is the sole source of truth for the counts; at every
// observation SuccessCount+FailureCount <= TotalCount holds.
type SessionStatus struct {
	ReferenceNumber string     `json:"referenceNumber"`
	Status          StatusInfo `json:"status"`
	ValidUntil      time.Time  `json:"validUntil,omitempty"`
	TotalCount      int        `json:"totalCount"`
	SuccessCount    int        `json:"successCount"`
	FailureCount    int        `json:"failureCount"`
}

// Complete reports whether the session has finished processing: either the
// status code is terminal, or every submitted invoice has been accounted
// for. A session observed with TotalCount zero is never complete on counts
// alone, since the server may not have registered any items yet.
func (s *SessionStatus) Complete() bool {
	if s.Status.Terminal() {
		return true
	}
	return s.TotalCount > 0 && s.SuccessCount+s.FailureCount == s.TotalCount
}

// SessionInvoice is the outcome of one submitted invoice or batch element.
// KSeFNumber is assigned only after the invoice is accepted.
type SessionInvoice struct {
	OrdinalNumber   int        `json:"ordinalNumber"`
	ReferenceNumber string     `json:"referenceNumber,omitempty"`
	InvoiceHash     string     `json:"invoiceHash"`
	InvoiceSize     int64      `json:"invoiceSize"`
	EncryptedHash   string     `json:"encryptedInvoiceHash,omitempty"`
	EncryptedSize   int64      `json:"encryptedInvoiceSize,omitempty"`
	Status          StatusInfo `json:"status"`
	KSeFNumber      string     `json:"ksefNumber,omitempty"`
}

// SessionInvoicesPage is one page of per-invoice outcomes. A non-empty
// ContinuationToken must be passed back verbatim to fetch the next page.
type SessionInvoicesPage struct {
	ContinuationToken string           `json:"continuationToken,omitempty"`
	Invoices          []SessionInvoice `json:"invoices"`
}

// BatchPartInfo declares one part of a batch file before upload.
type BatchPartInfo struct {
	OrdinalNumber int    `json:"ordinalNumber"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize"`
	FileHash      string `json:"fileHash"`
}

// BatchFile describes the complete batch archive and its declared parts.
type BatchFile struct {
	FileSize  int64           `json:"fileSize"`
	FileHash  string          `json:"fileHash"`
	FileParts []BatchPartInfo `json:"fileParts"`
}

// OpenBatchSessionRequest opens a chunked-upload session.
type OpenBatchSessionRequest struct {
	FormCode   FormCode       `json:"formCode"`
	BatchFile  BatchFile      `json:"batchFile"`
	Encryption EncryptionInfo `json:"encryption"`
}

// PartUploadRequest is a pre-signed upload slot for one declared batch part.
// The slot is immutable once issued and is consumed by exactly one upload,
// performed with the dictated method and headers against URL.
type PartUploadRequest struct {
	OrdinalNumber int               `json:"ordinalNumber"`
	FileName      string            `json:"fileName,omitempty"`
	URL           string            `json:"url"`
	Method        string            `json:"method"`
	Headers       map[string]string `json:"headers,omitempty"`
}

// OpenBatchSessionResponse acknowledges an opened batch session. Every
// declared part yields exactly one upload slot; all slots must be consumed
// before the session can be expected to leave the in-progress state.
type OpenBatchSessionResponse struct {
	ReferenceNumber    string              `json:"referenceNumber"`
	ValidUntil         time.Time           `json:"validUntil,omitempty"`
	PartUploadRequests []PartUploadRequest `json:"partUploadRequests"`
}
