// Package netx performs the byte transfer of an upload: a single PUT of a
// file's contents straight to a presigned object-storage URL.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/assetvault/internal/checksum"
	"github.com/dmitrijs2005/assetvault/internal/common"
)

// maxErrorBody bounds how much of a rejection body is kept for the error.
const maxErrorBody = 4 << 10

// ProgressFunc receives the cumulative number of bytes handed to the
// transport and the total body size. Calls are serialized per Put.
type ProgressFunc func(sent, total int64)

// PutRequest describes one authorized upload.
type PutRequest struct {
	URL         string
	ContentType string
	// Checksum is the hex SHA-256 the URL was presigned with. When set it is
	// sent base64-encoded in the x-amz-checksum-sha256 header.
	Checksum string
	Body     []byte
}

// RejectedError is returned when storage answers with a non-2xx status,
// e.g. on checksum or size mismatch or an expired grant.
type RejectedError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("upload failed: %s; body: %s", e.Status, e.Body)
}

func (e *RejectedError) Unwrap() error {
	return common.ErrUploadRejected
}

// Uploader issues presigned PUTs. It is safe for concurrent use.
type Uploader struct {
	client *http.Client
}

// NewUploader returns an Uploader; a nil client means http.DefaultClient.
func NewUploader(client *http.Client) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{client: client}
}

// Put sends req.Body to req.URL. It returns nil on a 2xx answer, a
// *RejectedError (matching common.ErrUploadRejected) on any other status,
// and an error matching common.ErrTransport when no response arrived. A
// malformed checksum matches common.ErrValidation and sends nothing.
func (u *Uploader) Put(ctx context.Context, req PutRequest, onProgress ProgressFunc) error {
	total := int64(len(req.Body))

	var body io.Reader = bytes.NewReader(req.Body)
	if onProgress != nil {
		body = &progressReader{r: body, total: total, fn: onProgress}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, req.URL, body)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", common.ErrTransport, err)
	}
	httpReq.ContentLength = total

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	httpReq.Header.Set("Content-Type", contentType)

	if req.Checksum != "" {
		b64, err := checksum.ToBase64(req.Checksum)
		if err != nil {
			return fmt.Errorf("checksum header: %w", err)
		}
		httpReq.Header.Set(common.ChecksumHeaderName, b64)
	}

	resp, err := u.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RejectedError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}
