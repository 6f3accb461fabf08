package transfer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"
)

// File is a local file to upload
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Target names the app or prompt an attachment belongs to
type Target struct {
	Type models.TargetType
	ID   string
}

// Result describes how a transfer ended
type Result struct {
	State       State
	StoragePath string
	Bytes       int64
}

// Orchestrator drives the two-phase transfers: a ticket from the API, then
// bytes straight to or from blob storage.
type Orchestrator struct {
	issuer   TicketIssuer
	blobs    *http.Client
	saver    Saver
	opener   Opener
	observer Observer
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithBlobClient sets the client used for signed URL PUT and GET requests.
// It must not retry.
func WithBlobClient(c *http.Client) Option {
	return func(o *Orchestrator) { o.blobs = c }
}

// WithSaver sets where downloads are written
func WithSaver(s Saver) Option {
	return func(o *Orchestrator) { o.saver = s }
}

// WithOpener sets how a fallback link is opened
func WithOpener(op Opener) Option {
	return func(o *Orchestrator) { o.opener = op }
}

// WithObserver reports state changes
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// NewOrchestrator creates an orchestrator around issuer
func NewOrchestrator(issuer TicketIssuer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		issuer: issuer,
		blobs:  &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Upload requests a ticket, PUTs the bytes and records the attachment. Any
// failure is reported as ErrUploadFailed wrapping the cause.
func (o *Orchestrator) Upload(
	ctx context.Context,
	file File,
	target Target,
) (*models.Attachment, Result, error) {
	run := &attempt{observer: o.observer}

	run.to(StateTicketRequested)
	ticket, err := o.issuer.RequestUploadTicket(ctx, services.UploadTicketRequest{
		TargetType:  target.Type,
		FileName:    file.Name,
		FileSize:    file.Size,
		ContentType: file.ContentType,
	})
	if err != nil {
		run.to(StateTicketDenied)
		return nil, Result{State: run.state}, fmt.Errorf("%w: %w", core.ErrUploadFailed, err)
	}
	run.to(StateTicketGranted)

	result := Result{StoragePath: ticket.StoragePath}

	run.to(StateTransferring)
	if err := o.put(ctx, ticket.SignedURL, file); err != nil {
		run.to(StateFailed)
		result.State = run.state
		return nil, result, fmt.Errorf("%w: %w", core.ErrUploadFailed, err)
	}
	result.Bytes = file.Size

	attachment, err := o.issuer.RecordUpload(ctx, services.RecordInput{
		TargetID:    target.ID,
		TargetType:  target.Type,
		Name:        file.Name,
		Size:        file.Size,
		ContentType: file.ContentType,
		StoragePath: ticket.StoragePath,
	})
	if err != nil {
		log.Printf("[Transfer] Orphaned blob at %s: record failed: %v", ticket.StoragePath, err)
		run.to(StateOrphanedBlob)
		result.State = run.state
		return nil, result, fmt.Errorf("%w: %w", core.ErrUploadFailed, err)
	}

	run.to(StateRecorded)
	result.State = run.state
	return attachment, result, nil
}

// Download fetches a fresh signed URL and saves the bytes as filename. When
// either the ticket or the GET fails and fallbackURL is set, the fallback is
// opened instead and no error is returned.
func (o *Orchestrator) Download(
	ctx context.Context,
	storagePath, filename string,
	targetType models.TargetType,
	fallbackURL string,
) (Result, error) {
	run := &attempt{observer: o.observer}
	result := Result{StoragePath: storagePath}

	run.to(StateTicketRequested)
	ticket, err := o.issuer.RequestDownloadTicket(ctx, services.DownloadTicketRequest{
		StoragePath: storagePath,
		TargetType:  targetType,
	})
	if err != nil {
		run.to(StateTicketDenied)
		return o.fallback(ctx, run, result, fallbackURL, err)
	}
	run.to(StateTicketGranted)

	run.to(StateTransferring)
	body, err := o.get(ctx, ticket.SignedURL)
	if err != nil {
		return o.fallback(ctx, run, result, fallbackURL, err)
	}
	defer body.Close()

	if o.saver == nil {
		run.to(StateFailed)
		result.State = run.state
		return result, fmt.Errorf("%w: no saver configured", core.ErrDownloadFailed)
	}
	n, err := o.saver.Save(ctx, filename, body)
	if err != nil {
		run.to(StateFailed)
		result.State = run.state
		return result, fmt.Errorf("%w: %w", core.ErrDownloadFailed, err)
	}

	run.to(StateSaved)
	result.State = run.state
	result.Bytes = n
	return result, nil
}

func (o *Orchestrator) fallback(
	ctx context.Context,
	run *attempt,
	result Result,
	fallbackURL string,
	cause error,
) (Result, error) {
	if fallbackURL == "" || o.opener == nil {
		run.to(StateFailed)
		result.State = run.state
		return result, fmt.Errorf("%w: %w", core.ErrDownloadFailed, cause)
	}

	log.Printf("[Transfer] Download of %s failed, opening fallback: %v", result.StoragePath, cause)
	if err := o.opener.Open(ctx, fallbackURL); err != nil {
		run.to(StateFailed)
		result.State = run.state
		return result, fmt.Errorf("%w: fallback: %w", core.ErrDownloadFailed, err)
	}

	run.to(StateFallbackOpened)
	result.State = run.state
	return result, nil
}

// put sends the bytes exactly once
func (o *Orchestrator) put(ctx context.Context, signedURL string, file File) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, file.Body)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.ContentLength = file.Size
	req.Header.Set("Content-Type", file.ContentType)

	resp, err := o.blobs.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("blob storage returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// get opens the signed URL; the caller closes the body
func (o *Orchestrator) get(ctx context.Context, signedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := o.blobs.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("blob storage returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}
