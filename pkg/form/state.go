package form

import (
	"context"
	"sync"
	"time"

	"github.com/careforms/intake/pkg/models"
)

// resultTTL is how long a success message stays visible before the
// controller clears it.
const resultTTL = 5 * time.Second

// Sender transmits a validated submission and reports the outcome. The
// HTTP client in pkg/client is the production implementation.
type Sender interface {
	Send(ctx context.Context, sub models.Submission) models.Outcome
}

// State is a snapshot of the form for the presentation layer.
type State struct {
	Name        string
	Age         string
	File        *models.FileUpload
	FieldErrors map[string]string
	Submitting  bool
	LastResult  *models.Outcome
}

// Controller owns the mutable form state for one session and enforces
// validation before a submission leaves the client.
type Controller struct {
	mu sync.Mutex

	name        string
	age         string
	file        *models.FileUpload
	fieldErrors map[string]string
	submitting  bool
	lastResult  *models.Outcome

	sender     Sender
	ttl        time.Duration
	clearTimer *time.Timer
	resultGen  int
}

func NewController(sender Sender) *Controller {
	return &Controller{
		fieldErrors: make(map[string]string),
		sender:      sender,
		ttl:         resultTTL,
	}
}

// State returns a copy of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make(map[string]string, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		errs[k] = v
	}
	var result *models.Outcome
	if c.lastResult != nil {
		r := *c.lastResult
		result = &r
	}
	var file *models.FileUpload
	if c.file != nil {
		f := *c.file
		file = &f
	}
	return State{
		Name:        c.name,
		Age:         c.age,
		File:        file,
		FieldErrors: errs,
		Submitting:  c.submitting,
		LastResult:  result,
	}
}

// UpdateField sets the name or age field and optimistically clears that
// field's error; validation runs again on the next ValidateAll.
func (c *Controller) UpdateField(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch key {
	case FieldName:
		c.name = value
	case FieldAge:
		c.age = value
	default:
		return
	}
	delete(c.fieldErrors, key)
}

// SelectFile validates a candidate upload and, when acceptable, replaces
// the current file. A rejected candidate leaves the current file unchanged.
func (c *Controller) SelectFile(candidate models.FileUpload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg := ValidateFile(candidate.MimeType, candidate.Size); msg != "" {
		c.fieldErrors[FieldFile] = msg
		return
	}
	c.file = &candidate
	delete(c.fieldErrors, FieldFile)
}

// ValidateAll recomputes name and age errors from scratch. A file error set
// by SelectFile stays as-is and still blocks submission.
func (c *Controller) ValidateAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Controller) validateLocked() bool {
	delete(c.fieldErrors, FieldName)
	delete(c.fieldErrors, FieldAge)
	if msg := ValidateName(c.name); msg != "" {
		c.fieldErrors[FieldName] = msg
	}
	if msg := ValidateAge(c.age); msg != "" {
		c.fieldErrors[FieldAge] = msg
	}
	return len(c.fieldErrors) == 0
}

// Submit validates the form and, when valid, sends it. It blocks until the
// submission settles. A Submit while another submission is in flight is
// ignored; the presentation layer disables the action via State().Submitting.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return
	}
	if !c.validateLocked() {
		r := models.Failure("Please fix the errors before submitting.")
		c.lastResult = &r
		c.mu.Unlock()
		return
	}
	// A pending clear from a previous success must not fire mid-submission.
	c.resultGen++
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
	c.submitting = true
	c.lastResult = nil
	sub := models.Submission{Name: c.name, Age: c.age, File: c.file}
	c.mu.Unlock()

	outcome := c.sender.Send(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	c.lastResult = &outcome
	if outcome.IsSuccess() {
		c.name = ""
		c.age = ""
		c.file = nil
		c.scheduleClearLocked()
	}
}

func (c *Controller) scheduleClearLocked() {
	if c.clearTimer != nil {
		c.clearTimer.Stop()
	}
	gen := c.resultGen
	c.clearTimer = time.AfterFunc(c.ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Superseded by a newer submission.
		if gen != c.resultGen {
			return
		}
		c.lastResult = nil
	})
}
