package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/openksef/go-ksef/pkg/model"
	"github.com/openksef/go-ksef/pkg/transport"
)

// OpenBatch opens a chunked-upload session. Every part declared in the
// batch file descriptor yields exactly one pre-signed upload slot in the
// response; all slots must be consumed before the server starts
// processing.
func (c *Client) OpenBatch(ctx context.Context, formCode model.FormCode, batchFile model.BatchFile, encryption model.EncryptionInfo) (*model.OpenBatchSessionResponse, error) {
	req := model.OpenBatchSessionRequest{FormCode: formCode, BatchFile: batchFile, Encryption: encryption}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp model.OpenBatchSessionResponse
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/sessions/batch",
		Body:        req,
		BearerToken: c.accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.PartUploadRequests) != len(batchFile.FileParts) {
		return nil, fmt.Errorf("server issued %d upload slots for %d declared parts",
			len(resp.PartUploadRequests), len(batchFile.FileParts))
	}
	c.logger.Debug("batch session opened",
		"referenceNumber", resp.ReferenceNumber, "parts", len(resp.PartUploadRequests))
	return &resp, nil
}

// UploadPart uploads one encrypted batch part to its pre-signed slot,
// using exactly the method and headers the server dictated. The slot
// targets external storage, not the KSeF API, so no bearer credential is
// attached. Each slot is independent and consumed once; upload order
// across parts is unconstrained.
func (c *Client) UploadPart(ctx context.Context, slot model.PartUploadRequest, data []byte) error {
	if slot.URL == "" {
		return &model.ValidationError{Field: "slot.url", Reason: "must not be empty"}
	}
	method := slot.Method
	if method == "" {
		method = http.MethodPut
	}

	req, err := http.NewRequestWithContext(ctx, method, slot.URL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	for k, v := range slot.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.uploader.Do(req)
	if err != nil {
		return fmt.Errorf("part %d upload failed: %w", slot.OrdinalNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("part %d upload rejected with status %d: %s",
			slot.OrdinalNumber, resp.StatusCode, string(body))
	}
	return nil
}

// CloseBatch signals that every part has been uploaded and processing
// may start. Like online sessions, closing is mandatory.
func (c *Client) CloseBatch(ctx context.Context, referenceNumber string) error {
	return c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/sessions/batch/" + url.PathEscape(referenceNumber) + "/close",
		BearerToken: c.accessToken,
	}, nil)
}
