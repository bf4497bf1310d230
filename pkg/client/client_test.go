package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careforms/intake/pkg/models"
)

func testSubmission() models.Submission {
	return models.Submission{
		Name: "Jane Doe",
		Age:  "34",
		File: &models.FileUpload{
			Name:     "record.pdf",
			MimeType: "application/pdf",
			Size:     8,
			Content:  []byte("%PDF-1.4"),
		},
	}
}

func TestSendSuccess(t *testing.T) {
	var gotName, gotAge, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/form", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))

		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotName = r.FormValue("name")
		gotAge = r.FormValue("age")
		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		gotFile = fh.Filename
		assert.Equal(t, []byte("%PDF-1.4"), content)
		assert.Equal(t, "application/pdf", fh.Header.Get("Content-Type"),
			"file part must carry the upload's declared MIME type")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "Form submitted successfully!"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	outcome := c.Send(context.Background(), testSubmission())

	assert.True(t, outcome.IsSuccess())
	assert.Equal(t, "Form submitted successfully!", outcome.Message)
	assert.Equal(t, "Jane Doe", gotName)
	assert.Equal(t, "34", gotAge)
	assert.Equal(t, "record.pdf", gotFile)
}

func TestSendWithoutFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("file")
		assert.Error(t, err)
		w.Write([]byte(`{"message": "ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	outcome := c.Send(context.Background(), models.Submission{Name: "Jane Doe", Age: "34"})
	assert.True(t, outcome.IsSuccess())
}

func TestSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "All fields are required."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	outcome := c.Send(context.Background(), testSubmission())

	assert.Equal(t, models.OutcomeFailure, outcome.Kind)
	assert.Equal(t, "All fields are required.", outcome.Message)
}

func TestSendPayloadTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	outcome := c.Send(context.Background(), testSubmission())

	assert.Equal(t, models.OutcomeFailure, outcome.Kind)
	assert.Equal(t, MsgFileTooLarge, outcome.Message)
}

func TestSendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 20*time.Millisecond)
	outcome := c.Send(context.Background(), testSubmission())

	assert.Equal(t, models.OutcomeFailure, outcome.Kind)
	assert.Equal(t, MsgTimeout, outcome.Message)
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := New(srv.URL, time.Second)
	outcome := c.Send(context.Background(), testSubmission())

	assert.Equal(t, models.OutcomeFailure, outcome.Kind)
	assert.Equal(t, MsgNetworkError, outcome.Message)
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "deadline exceeded" }
func (timeoutErr) Timeout() bool { return true }

func TestMapOutcome(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		err     error
		kind    models.OutcomeKind
		message string
	}{
		{"timeout wins", 0, "", timeoutErr{}, models.OutcomeFailure, MsgTimeout},
		{"context deadline", 0, "", context.DeadlineExceeded, models.OutcomeFailure, MsgTimeout},
		{"413", http.StatusRequestEntityTooLarge, "", nil, models.OutcomeFailure, MsgFileTooLarge},
		{"413 with body read error", http.StatusRequestEntityTooLarge, "", errors.New("read failed"), models.OutcomeFailure, MsgFileTooLarge},
		{"no response", 0, "", errors.New("connection refused"), models.OutcomeFailure, MsgNetworkError},
		{"success message", 200, `{"message":"saved"}`, nil, models.OutcomeSuccess, "saved"},
		{"success no body", 204, "", nil, models.OutcomeSuccess, "Form submitted successfully!"},
		{"server error field", 400, `{"error":"Age must be between 0 and 150"}`, nil, models.OutcomeFailure, "Age must be between 0 and 150"},
		{"garbage body", 500, "<html>oops</html>", nil, models.OutcomeFailure, MsgGenericError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapOutcome(tt.status, []byte(tt.body), tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}
