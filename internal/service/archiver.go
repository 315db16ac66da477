package service

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
	"github.com/njprem/TripWise_APP_BackEnd/internal/repository/ports"
)

const archiveTimeout = 10 * time.Second

// Archiver copies generated documents to object storage in the background.
// A nil *Archiver is valid and archives nothing.
type Archiver struct {
	storage ports.ObjectStorage
	bucket  string
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewArchiver returns nil when storage or bucket is missing.
func NewArchiver(storage ports.ObjectStorage, bucket string) *Archiver {
	bucket = strings.TrimSpace(bucket)
	if storage == nil || bucket == "" {
		return nil
	}
	return &Archiver{storage: storage, bucket: bucket, log: logging.With("archive")}
}

// Archive uploads doc as JSON under objectName. Failures are logged only.
func (a *Archiver) Archive(objectName string, doc any) {
	if a == nil {
		return
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		a.log.Error().Err(err).Str("object", objectName).Msg("encode archive document")
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if _, err := a.storage.Upload(ctx, a.bucket, objectName, "application/json", bytes.NewReader(payload), int64(len(payload))); err != nil {
			a.log.Warn().Err(err).Str("bucket", a.bucket).Str("object", objectName).Msg("archive upload failed")
		}
	}()
}

// Wait blocks until pending uploads finish.
func (a *Archiver) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}
