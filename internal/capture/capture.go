package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxBytes caps a captured photo.
const DefaultMaxBytes = 10 << 20

var (
	ErrNoStream        = errors.New("no capture stream available")
	ErrEmptyPhoto      = errors.New("captured photo is empty")
	ErrPhotoTooLarge   = errors.New("captured photo is too large")
	ErrUnsupportedType = errors.New("unsupported image type")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Stream is an open source of image bytes, such as a camera or a file
// picked in the browser.
type Stream interface {
	io.ReadCloser
	Name() string
}

// Photo is a captured still.
type Photo struct {
	Data        []byte
	ContentType string
	Filename    string
	TakenAt     time.Time
}

// Device is the capture capability: open a stream, take a photo from it
// and upload the result. Everything that depends on camera hardware sits
// behind this interface.
type Device interface {
	RequestStream(ctx context.Context) (Stream, error)
	CapturePhoto(ctx context.Context, s Stream) (*Photo, error)
	UploadBlob(ctx context.Context, p *Photo) (string, error)
}

// BlobStore persists uploaded photos and returns a URL to read them back.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Capture runs a full capture against d. An upload failure is logged and
// yields an empty URL; the photo is still returned.
func Capture(ctx context.Context, d Device) (*Photo, string, error) {
	stream, err := d.RequestStream(ctx)
	if err != nil {
		return nil, "", err
	}
	defer stream.Close()

	photo, err := d.CapturePhoto(ctx, stream)
	if err != nil {
		return nil, "", err
	}

	url, err := d.UploadBlob(ctx, photo)
	if err != nil {
		log.Printf("[Capture] upload of %s failed: %v", photo.Filename, err)
		return photo, "", nil
	}
	return photo, url, nil
}

// UploadDevice is the server-side Device: its stream is a photo the
// browser already took and posted as a multipart file.
type UploadDevice struct {
	file     *multipart.FileHeader
	owner    string
	store    BlobStore
	maxBytes int64
}

// NewUploadDevice wraps an uploaded file. store may be nil, in which case
// nothing is uploaded.
func NewUploadDevice(file *multipart.FileHeader, owner string, store BlobStore, maxBytes int64) *UploadDevice {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &UploadDevice{file: file, owner: owner, store: store, maxBytes: maxBytes}
}

type fileStream struct {
	multipart.File
	name string
}

func (s fileStream) Name() string { return s.name }

func (d *UploadDevice) RequestStream(ctx context.Context) (Stream, error) {
	if d.file == nil {
		return nil, ErrNoStream
	}
	if d.file.Size > d.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrPhotoTooLarge, d.file.Size)
	}
	f, err := d.file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	return fileStream{File: f, name: d.file.Filename}, nil
}

// CapturePhoto reads the stream and checks the bytes really are an image.
func (d *UploadDevice) CapturePhoto(ctx context.Context, s Stream) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(s, d.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyPhoto
	}
	if int64(len(data)) > d.maxBytes {
		return nil, ErrPhotoTooLarge
	}

	contentType := http.DetectContentType(data)
	if _, ok := allowedTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	name := path.Base(s.Name())
	if name == "." || name == "/" {
		name = "photo" + allowedTypes[contentType]
	}
	return &Photo{Data: data, ContentType: contentType, Filename: name, TakenAt: time.Now()}, nil
}

func (d *UploadDevice) UploadBlob(ctx context.Context, p *Photo) (string, error) {
	if d.store == nil {
		return "", nil
	}
	return d.store.Put(ctx, ObjectKey(d.owner, p), p.Data, p.ContentType)
}

// ObjectKey places a photo under its owner with a random name.
func ObjectKey(owner string, p *Photo) string {
	return fmt.Sprintf("captures/%s/%s/%s%s", owner, p.TakenAt.UTC().Format("2006-01-02"), uuid.New(), allowedTypes[p.ContentType])
}
