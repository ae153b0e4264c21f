package session

import (
	"context"
	"net/http"
	"net/url"

	"github.com/openksef/go-ksef/pkg/model"
	"github.com/openksef/go-ksef/pkg/transport"
)

// OpenOnline opens a streamed, invoice-at-a-time session. The encryption
// parameters declared here bind every subsequent submission; they cannot
// change for the life of the session.
func (c *Client) OpenOnline(ctx context.Context, formCode model.FormCode, encryption model.EncryptionInfo) (*model.OpenSessionResponse, error) {
	req := model.OpenOnlineSessionRequest{FormCode: formCode, Encryption: encryption}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp model.OpenSessionResponse
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/sessions/online",
		Body:        req,
		BearerToken: c.accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("online session opened", "referenceNumber", resp.ReferenceNumber)
	return &resp, nil
}

// SendInvoice submits one encrypted invoice to an open online session.
// The acknowledgment only confirms receipt; the processing outcome is
// observed through Status and the invoice listings.
func (c *Client) SendInvoice(ctx context.Context, referenceNumber string, invoice *model.SendInvoiceRequest) (*model.SendInvoiceResponse, error) {
	if invoice == nil || invoice.EncryptedInvoiceContent == "" {
		return nil, &model.ValidationError{Field: "invoice", Reason: "encrypted content is required"}
	}

	var resp model.SendInvoiceResponse
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/sessions/online/" + url.PathEscape(referenceNumber) + "/invoices",
		Body:        invoice,
		BearerToken: c.accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CloseOnline terminates an online session. Closing is mandatory even
// after full success; afterwards the session reports status code 440 and
// accepts no further invoices.
func (c *Client) CloseOnline(ctx context.Context, referenceNumber string) error {
	return c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/sessions/online/" + url.PathEscape(referenceNumber) + "/close",
		BearerToken: c.accessToken,
	}, nil)
}
