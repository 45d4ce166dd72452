package view

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/store"
)

// MaxUploadSize is the client-side file size cap.
const MaxUploadSize = 10 << 20

// DefaultResetDelay is how long a completed upload stays on screen before
// the controller returns to idle.
const DefaultResetDelay = 5 * time.Second

// Upload phases.
const (
	PhaseIdle      = "idle"
	PhaseUploading = "uploading"
	PhaseCompleted = "completed"
	PhaseError     = "error"
)

// Upload validation and feedback messages.
const (
	MsgNoFile        = "Nenhum arquivo selecionado"
	MsgUploadBusy    = "Aguarde o envio atual terminar"
	MsgUploadSuccess = "Arquivo enviado com sucesso!"
	MsgUploadToast   = "Contrato enviado com sucesso! Análise iniciada."
)

// File is a selected upload candidate.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Uploader performs the actual transfer, reporting progress in percent.
type Uploader func(ctx context.Context, filename string, content io.Reader, onProgress func(int)) (*models.UploadResult, error)

// UploadState is the observable controller snapshot.
type UploadState struct {
	Phase    string
	Filename string
	Progress int
	Message  string
	Error    string
	Result   *models.UploadResult
}

// UploadController drives a single contract upload at a time through
// idle, uploading and completed-or-error, with phase messages keyed to
// progress. A successful upload returns to idle on its own after
// DefaultResetDelay; an error stays until dismissed or retried.
type UploadController struct {
	mu            sync.Mutex
	upload        Uploader
	notifications *store.Notifications
	resetDelay    time.Duration

	phase    string
	selected *File
	filename string
	progress int
	message  string
	errMsg   string
	result   *models.UploadResult

	resetTimer *time.Timer
	listeners  map[int]func(UploadState)
	nextSub    int
}

// NewUploadController creates an idle controller. A non-positive resetDelay
// falls back to DefaultResetDelay.
func NewUploadController(upload Uploader, notifications *store.Notifications, resetDelay time.Duration) *UploadController {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	return &UploadController{
		upload:        upload,
		notifications: notifications,
		resetDelay:    resetDelay,
		phase:         PhaseIdle,
		listeners:     make(map[int]func(UploadState)),
	}
}

// State returns the current snapshot.
func (c *UploadController) State() UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Subscribe registers a listener and returns an unsubscribe function.
func (c *UploadController) Subscribe(l func(UploadState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Validate applies the client-side checks a file must pass before any
// network traffic: present, a .pdf, and at most MaxUploadSize bytes.
func Validate(file *File) error {
	if file == nil {
		return errors.New(MsgNoFile)
	}
	if !strings.EqualFold(filepath.Ext(file.Name), ".pdf") {
		return errors.New("Tipo de arquivo não suportado. Use PDF.")
	}
	if file.Size > MaxUploadSize {
		return errors.New("Arquivo muito grande. Limite máximo: 10MB")
	}
	return nil
}

// SelectFile records the upload candidate. Invalid files are rejected with
// an inline error and nothing is stored.
func (c *UploadController) SelectFile(file *File) error {
	if err := Validate(file); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.notifyLocked()
		return err
	}

	c.mu.Lock()
	c.selected = file
	c.filename = file.Name
	c.errMsg = ""
	c.notifyLocked()
	return nil
}

// Upload runs the transfer and blocks until it finishes. A nil file falls
// back to the selected candidate. Validation failures record an inline
// error and never reach the network; only one upload may run at a time.
func (c *UploadController) Upload(ctx context.Context, file *File) error {
	if file == nil {
		c.mu.Lock()
		file = c.selected
		c.mu.Unlock()
	}

	if err := Validate(file); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.notifyLocked()
		return err
	}

	c.mu.Lock()
	if c.phase == PhaseUploading {
		c.mu.Unlock()
		return errors.New(MsgUploadBusy)
	}
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	c.phase = PhaseUploading
	c.filename = file.Name
	c.progress = 0
	c.message = phaseMessage(0)
	c.errMsg = ""
	c.result = nil
	c.notifyLocked()

	result, err := c.upload(ctx, file.Name, file.Content, c.reportProgress)

	c.mu.Lock()
	if err != nil {
		c.phase = PhaseError
		c.progress = 0
		c.errMsg = err.Error()
		c.message = err.Error()
		if c.notifications != nil {
			c.notifications.Error(err.Error())
		}
		c.notifyLocked()
		return err
	}

	c.phase = PhaseCompleted
	c.progress = 100
	c.message = MsgUploadSuccess
	c.result = result
	if c.notifications != nil {
		c.notifications.Success(MsgUploadToast)
	}
	c.resetTimer = time.AfterFunc(c.resetDelay, c.Reset)
	c.notifyLocked()
	return nil
}

// Reset returns the controller to idle, discarding any previous outcome.
// Safe to call in any phase except mid-upload, where it is ignored.
func (c *UploadController) Reset() {
	c.mu.Lock()
	if c.phase == PhaseUploading {
		c.mu.Unlock()
		return
	}
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	c.phase = PhaseIdle
	c.selected = nil
	c.filename = ""
	c.progress = 0
	c.message = ""
	c.errMsg = ""
	c.result = nil
	c.notifyLocked()
}

func (c *UploadController) reportProgress(percent int) {
	c.mu.Lock()
	if c.phase != PhaseUploading {
		c.mu.Unlock()
		return
	}
	c.progress = percent
	c.message = phaseMessage(percent)
	c.notifyLocked()
}

// phaseMessage maps a progress percentage to the user-facing stage label.
func phaseMessage(percent int) string {
	switch {
	case percent < 30:
		return "Conectando ao servidor..."
	case percent < 60:
		return "Enviando arquivo..."
	case percent < 90:
		return "Processando arquivo no servidor..."
	default:
		return "Finalizando..."
	}
}

func (c *UploadController) stateLocked() UploadState {
	return UploadState{
		Phase:    c.phase,
		Filename: c.filename,
		Progress: c.progress,
		Message:  c.message,
		Error:    c.errMsg,
		Result:   c.result,
	}
}

func (c *UploadController) notifyLocked() {
	snapshot := c.stateLocked()
	listeners := make([]func(UploadState), 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
