package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"estatehub/api/internal/upload"
)

var ErrNotImage = errors.New("not an image, please upload only images")

// ObjectStore is the slice of the storage client the pipeline needs.
type ObjectStore interface {
	Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	PublicURL(objectKey string) string
}

type UploadService struct {
	store ObjectStore
	log   zerolog.Logger
}

func NewUploadService(store ObjectStore, log zerolog.Logger) *UploadService {
	return &UploadService{
		store: store,
		log:   log,
	}
}

// UploadForm runs the upload slots against a parsed multipart form: each
// accepted file is renamed to a generated id plus its extension, streamed to
// object storage under the given prefix, and mapped to its public URL.
// Uploads are best-effort: a later slot failing leaves earlier objects in
// place.
func (s *UploadService) UploadForm(ctx context.Context, form *multipart.Form, slots []upload.Slot, prefix string) (map[string][]string, error) {
	urls := make(map[string][]string, len(slots))

	for _, slot := range slots {
		files := form.File[slot.Field]
		if len(files) == 0 {
			continue
		}
		if len(files) > slot.MaxCount {
			return nil, fmt.Errorf("too many files for field %s", slot.Field)
		}

		for _, header := range files {
			url, err := s.uploadOne(ctx, header, prefix)
			if err != nil {
				return nil, err
			}
			urls[slot.Field] = append(urls[slot.Field], url)
		}
	}

	return urls, nil
}

func (s *UploadService) uploadOne(ctx context.Context, header *multipart.FileHeader, prefix string) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !upload.IsImageType(contentType) {
		return "", ErrNotImage
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open part: %w", err)
	}
	defer file.Close()

	objectKey := path.Join(prefix, fmt.Sprintf("%s.%s", ksuid.New().String(), upload.Extension(contentType)))
	if err := s.store.Put(ctx, objectKey, file, header.Size, contentType); err != nil {
		return "", err
	}

	s.log.Debug().Str("object_key", objectKey).Str("field_file", header.Filename).Msg("uploaded")
	return s.store.PublicURL(objectKey), nil
}
