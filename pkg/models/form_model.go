package models

// FileUpload is one selected medical-record file, held in memory until the
// form is submitted.
type FileUpload struct {
	Name     string `json:"name" form:"name"`
	MimeType string `json:"mime_type" form:"mime_type"`
	Size     int64  `json:"size" form:"size"`
	Content  []byte `json:"-" form:"-"`
}

// Submission is the validated form data handed to the submission client.
type Submission struct {
	Name string      `json:"name" form:"name"`
	Age  string      `json:"age" form:"age"`
	File *FileUpload `json:"file,omitempty" form:"file"`
}

// OutcomeKind tags the result of one submission attempt.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is the user-facing result of a submission attempt. Every failure
// path in the client collapses into one of these; no raw transport error
// leaves the client.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
}

func Success(message string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Message: message}
}

func Failure(message string) Outcome {
	return Outcome{Kind: OutcomeFailure, Message: message}
}

func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// SubmissionEvent is published to RabbitMQ after a submission is accepted.
type SubmissionEvent struct {
	Name      string `json:"name"`
	Age       string `json:"age"`
	ObjectKey string `json:"object_key"`
	FileName  string `json:"file_name"`
}
