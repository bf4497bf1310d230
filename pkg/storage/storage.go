package storage

import "context"

// Store keeps the uploaded medical-record file after a submission is
// accepted. Save returns the object key the file was stored under.
type Store interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
}
