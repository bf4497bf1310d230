package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"

	"github.com/careforms/intake/pkg/models"
)

// DefaultTimeout bounds one submission request end to end.
const DefaultTimeout = 15 * time.Second

const formPath = "/api/form"

// User-facing messages for the failure shapes the client distinguishes.
const (
	MsgTimeout      = "Request timed out. Please try again."
	MsgFileTooLarge = "File is too large. Maximum size is 5MB."
	MsgNetworkError = "Network error. Please check your connection."
	MsgGenericError = "Submission error"
)

// Client posts validated form data to the intake service. It implements
// form.Sender.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send builds the multipart payload and posts it. Every failure shape is
// folded into an Outcome; no error escapes to the caller.
func (c *Client) Send(ctx context.Context, sub models.Submission) models.Outcome {
	body, contentType, err := encodePayload(sub)
	if err != nil {
		return models.Failure(fmt.Sprintf("%s: %v", MsgGenericError, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+formPath, body)
	if err != nil {
		return models.Failure(fmt.Sprintf("%s: %v", MsgGenericError, err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return MapOutcome(0, nil, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return MapOutcome(resp.StatusCode, nil, err)
	}
	return MapOutcome(resp.StatusCode, respBody, nil)
}

func encodePayload(sub models.Submission) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.WriteField("name", sub.Name); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("age", sub.Age); err != nil {
		return nil, "", err
	}
	if sub.File != nil {
		part, err := createFilePart(w, sub.File)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(sub.File.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// createFilePart builds the file part carrying the upload's declared MIME
// type; the server validates that type against its whitelist.
func createFilePart(w *multipart.Writer, file *models.FileUpload) (io.Writer, error) {
	if file.MimeType == "" {
		return w.CreateFormFile("file", file.Name)
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, file.Name))
	h.Set("Content-Type", file.MimeType)
	return w.CreatePart(h)
}

// MapOutcome translates one transport result into the user-facing Outcome.
// Failure precedence: timeout, 413, no response at all, server-reported
// error, raw transport text.
func MapOutcome(status int, body []byte, err error) models.Outcome {
	if err != nil && isTimeout(err) {
		return models.Failure(MsgTimeout)
	}

	if status == http.StatusRequestEntityTooLarge {
		return models.Failure(MsgFileTooLarge)
	}

	if err != nil {
		if status == 0 {
			return models.Failure(MsgNetworkError)
		}
		return models.Failure(err.Error())
	}

	if status >= 200 && status < 300 {
		var ok struct {
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(body, &ok); jsonErr == nil && ok.Message != "" {
			return models.Success(ok.Message)
		}
		return models.Success("Form submitted successfully!")
	}

	var fail struct {
		Error string `json:"error"`
	}
	if jsonErr := json.Unmarshal(body, &fail); jsonErr == nil && fail.Error != "" {
		return models.Failure(fail.Error)
	}
	return models.Failure(MsgGenericError)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return os.IsTimeout(err)
}
