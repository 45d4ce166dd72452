package view

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/store"
)

func pdf(name string, size int64) *File {
	return &File{Name: name, Size: size, Content: strings.NewReader("%PDF-1.4")}
}

func okUploader(steps ...int) Uploader {
	return func(_ context.Context, filename string, content io.Reader, onProgress func(int)) (*models.UploadResult, error) {
		_, _ = io.Copy(io.Discard, content)
		for _, p := range steps {
			onProgress(p)
		}
		return &models.UploadResult{ID: "c1", Filename: filename, Status: models.StatusPendente}, nil
	}
}

func TestUploadWithoutFileNeverHitsNetwork(t *testing.T) {
	var calls int
	uploader := func(context.Context, string, io.Reader, func(int)) (*models.UploadResult, error) {
		calls++
		return nil, nil
	}
	c := NewUploadController(uploader, nil, time.Hour)

	err := c.Upload(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, MsgNoFile, err.Error())
	assert.Equal(t, 0, calls)

	state := c.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Equal(t, MsgNoFile, state.Error)
}

func TestSelectFileThenUpload(t *testing.T) {
	c := NewUploadController(okUploader(50), nil, time.Hour)

	require.Error(t, c.SelectFile(pdf("contrato.docx", 100)), "invalid candidate rejected")
	assert.Empty(t, c.State().Filename)

	require.NoError(t, c.SelectFile(pdf("contrato.pdf", 100)))
	assert.Equal(t, "contrato.pdf", c.State().Filename)
	assert.Empty(t, c.State().Error)

	require.NoError(t, c.Upload(context.Background(), nil))
	assert.Equal(t, PhaseCompleted, c.State().Phase)

	c.Reset()
	err := c.Upload(context.Background(), nil)
	require.Error(t, err, "reset discards the candidate")
	assert.Equal(t, MsgNoFile, err.Error())
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name string
		file *File
		want string
	}{
		{"wrong extension", pdf("contrato.docx", 100), "Tipo de arquivo não suportado. Use PDF."},
		{"too large", pdf("contrato.pdf", MaxUploadSize+1), "Arquivo muito grande. Limite máximo: 10MB"},
		{"uppercase extension ok", pdf("CONTRATO.PDF", 100), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.file)
			if tt.want == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.want, err.Error())
			}
		})
	}
}

func TestUploadProgressMessages(t *testing.T) {
	notifications := store.NewNotifications()
	c := NewUploadController(okUploader(10, 45, 75, 95), notifications, time.Hour)

	var messages []string
	unsubscribe := c.Subscribe(func(s UploadState) {
		if s.Phase == PhaseUploading {
			messages = append(messages, s.Message)
		}
	})
	defer unsubscribe()

	require.NoError(t, c.Upload(context.Background(), pdf("contrato.pdf", 1024)))

	assert.Equal(t, []string{
		"Conectando ao servidor...",
		"Conectando ao servidor...",
		"Enviando arquivo...",
		"Processando arquivo no servidor...",
		"Finalizando...",
	}, messages)

	state := c.State()
	assert.Equal(t, PhaseCompleted, state.Phase)
	assert.Equal(t, 100, state.Progress)
	assert.Equal(t, MsgUploadSuccess, state.Message)
	require.NotNil(t, state.Result)
	assert.Equal(t, "c1", state.Result.ID)

	toasts := notifications.List()
	require.Len(t, toasts, 1)
	assert.Equal(t, store.TypeSuccess, toasts[0].Type)
	assert.Equal(t, MsgUploadToast, toasts[0].Message)
}

func TestUploadSuccessAutoResets(t *testing.T) {
	c := NewUploadController(okUploader(50), nil, 30*time.Millisecond)
	require.NoError(t, c.Upload(context.Background(), pdf("contrato.pdf", 1024)))
	assert.Equal(t, PhaseCompleted, c.State().Phase)

	assert.Eventually(t, func() bool {
		return c.State().Phase == PhaseIdle
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, c.State().Filename)
}

func TestUploadErrorPersists(t *testing.T) {
	notifications := store.NewNotifications()
	uploader := func(context.Context, string, io.Reader, func(int)) (*models.UploadResult, error) {
		return nil, errors.New("Arquivo muito grande. Limite máximo: 10MB")
	}
	c := NewUploadController(uploader, notifications, 20*time.Millisecond)

	err := c.Upload(context.Background(), pdf("contrato.pdf", 1024))
	require.Error(t, err)

	time.Sleep(60 * time.Millisecond)
	state := c.State()
	assert.Equal(t, PhaseError, state.Phase, "errors never auto-reset")
	assert.Equal(t, "Arquivo muito grande. Limite máximo: 10MB", state.Error)
	assert.Equal(t, 0, state.Progress)

	toasts := notifications.List()
	require.Len(t, toasts, 1)
	assert.Equal(t, store.TypeError, toasts[0].Type)

	c.Reset()
	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Empty(t, c.State().Error)
}

func TestSecondUploadWhileBusyIsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	uploader := func(context.Context, string, io.Reader, func(int)) (*models.UploadResult, error) {
		close(started)
		<-release
		return &models.UploadResult{ID: "c1"}, nil
	}
	c := NewUploadController(uploader, nil, time.Hour)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Upload(context.Background(), pdf("first.pdf", 10))
	}()
	<-started

	err := c.Upload(context.Background(), pdf("second.pdf", 10))
	require.Error(t, err)
	assert.Equal(t, MsgUploadBusy, err.Error())
	assert.Equal(t, "first.pdf", c.State().Filename)

	close(release)
	wg.Wait()
	assert.Equal(t, PhaseCompleted, c.State().Phase)
}

func TestNewUploadCancelsPendingReset(t *testing.T) {
	c := NewUploadController(okUploader(50), nil, 40*time.Millisecond)
	require.NoError(t, c.Upload(context.Background(), pdf("a.pdf", 10)))
	require.NoError(t, c.Upload(context.Background(), pdf("b.pdf", 10)))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "b.pdf", c.State().Filename, "first reset must not fire mid-flight")
}
