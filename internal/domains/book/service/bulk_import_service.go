package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/config"
	"library-catalog/internal/domains/book/importer"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/repository"
	"library-catalog/internal/shared"
	"library-catalog/pkg/cache"
)

const importLockKey = "import:lock"

var contentTypes = map[string]string{
	importer.ExtCSV:  "text/csv",
	importer.ExtXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type bulkImportService struct {
	stores       repository.ImportStoreFactory
	jobs         repository.ImportJobRepository
	lock         cache.Cache
	objects      ObjectStorage
	tasks        TaskEnqueuer
	invalidators []CacheInvalidator
	cfg          config.ImportConfig
}

// BulkImportDeps groups the collaborators of the import service. Objects and
// Tasks may be nil, which disables asynchronous imports.
type BulkImportDeps struct {
	Stores       repository.ImportStoreFactory
	Jobs         repository.ImportJobRepository
	Lock         cache.Cache
	Objects      ObjectStorage
	Tasks        TaskEnqueuer
	Invalidators []CacheInvalidator
	Config       config.ImportConfig
}

// NewBulkImportService creates a new bulk import service
func NewBulkImportService(deps BulkImportDeps) BulkImportServiceInterface {
	return &bulkImportService{
		stores:       deps.Stores,
		jobs:         deps.Jobs,
		lock:         deps.Lock,
		objects:      deps.Objects,
		tasks:        deps.Tasks,
		invalidators: deps.Invalidators,
		cfg:          deps.Config,
	}
}

// ========================================
// SYNC IMPORT
// ========================================

// ImportFile runs one import. Only one run may hold the lock at a time.
func (s *bulkImportService) ImportFile(ctx context.Context, fileName string, r io.Reader) (*model.ImportResult, error) {
	release, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	src, err := openSource(fileName, r)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := importer.CloseSource(src); err != nil {
			log.Warn().Err(err).Str("file_name", fileName).Msg("failed to close import source")
		}
	}()

	log.Info().Str("file_name", fileName).Msg("Starting book import")

	result, err := importer.New(s.stores.NewImportStore()).Run(ctx, src)

	// authors may have been committed even when the run failed
	s.invalidateCaches(ctx)

	if err != nil {
		log.Error().Err(err).Str("file_name", fileName).Msg("Book import failed")
		return nil, err
	}
	return result, nil
}

// PreviewFile parses the file and reports what an import would do without writing
func (s *bulkImportService) PreviewFile(ctx context.Context, fileName string, r io.Reader) (*model.ImportPreview, error) {
	src, err := openSource(fileName, r)
	if err != nil {
		return nil, err
	}
	defer importer.CloseSource(src)

	return importer.Preview(ctx, src, s.stores.NewImportStore())
}

// ========================================
// ASYNC IMPORT
// ========================================

func (s *bulkImportService) EnqueueImport(ctx context.Context, userID *uuid.UUID, fileName string, data []byte) (*model.ImportJob, error) {
	if s.objects == nil || s.tasks == nil {
		return nil, model.ErrAsyncImportOffline
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = importer.ExtCSV
	}
	contentType, ok := contentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedFile, ext)
	}
	if len(data) == 0 {
		return nil, importer.ErrInputMissing
	}

	job := &model.ImportJob{
		ID:       uuid.New(),
		UserID:   userID,
		FileName: filepath.Base(fileName),
		Status:   model.JobStatusPending,
	}
	job.ObjectKey = s.cfg.UploadPrefix + job.ID.String() + ext

	if err := s.objects.Upload(ctx, job.ObjectKey, data, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", importer.ErrStoreFailure, err)
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	payload := model.ImportBooksPayload{JobID: job.ID.String()}
	if err := s.tasks.Enqueue(ctx, shared.TypeImportBooks, payload); err != nil {
		if markErr := s.jobs.MarkFailed(ctx, job.ID, "failed to enqueue: "+err.Error()); markErr != nil {
			log.Error().Err(markErr).Str("job_id", job.ID.String()).Msg("failed to mark job failed")
		}
		return nil, fmt.Errorf("failed to enqueue import job: %w", err)
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("object_key", job.ObjectKey).
		Int("size_bytes", len(data)).
		Msg("Import job enqueued")

	return job, nil
}

func (s *bulkImportService) GetJob(ctx context.Context, id uuid.UUID) (*model.ImportJob, error) {
	return s.jobs.GetByID(ctx, id)
}

// ProcessJob downloads the job's file and imports it. Import failures are
// recorded on the job; a held lock or a download failure is returned
// unrecorded so the task can be retried.
func (s *bulkImportService) ProcessJob(ctx context.Context, jobID uuid.UUID) (*model.ImportResult, error) {
	if s.objects == nil {
		return nil, model.ErrAsyncImportOffline
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.IsFinished() {
		log.Info().Str("job_id", jobID.String()).Str("status", job.Status).Msg("Import job already finished, skipping")
		return &model.ImportResult{AuthorsAdded: job.AuthorsAdded, BooksAdded: job.BooksAdded}, nil
	}

	data, err := s.objects.Download(ctx, job.ObjectKey)
	if err != nil {
		return nil, err
	}

	if err := s.jobs.MarkProcessing(ctx, jobID); err != nil {
		return nil, err
	}

	result, err := s.ImportFile(ctx, job.FileName, bytes.NewReader(data))
	if errors.Is(err, model.ErrImportInProgress) {
		return nil, err
	}
	if err != nil {
		if markErr := s.jobs.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			log.Error().Err(markErr).Str("job_id", jobID.String()).Msg("failed to mark job failed")
		}
		return nil, err
	}

	if err := s.jobs.MarkCompleted(ctx, jobID, result); err != nil {
		return nil, err
	}

	log.Info().
		Str("job_id", jobID.String()).
		Int("authors_added", result.AuthorsAdded).
		Int("books_added", result.BooksAdded).
		Msg("Import job completed")

	return result, nil
}

func (s *bulkImportService) CleanupUploads(ctx context.Context) (int, error) {
	if s.objects == nil {
		return 0, model.ErrAsyncImportOffline
	}

	cutoff := time.Now().Add(-s.cfg.UploadRetention)
	keys, err := s.objects.ListOlderThan(ctx, s.cfg.UploadPrefix, cutoff)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := s.objects.RemoveObjects(ctx, keys); err != nil {
		return 0, err
	}

	log.Info().Int("removed", len(keys)).Time("cutoff", cutoff).Msg("Removed old import uploads")
	return len(keys), nil
}

// ========================================
// HELPERS
// ========================================

// acquireLock takes the global import lock. When Redis is unreachable the run
// proceeds unlocked; the unique constraint on author names still catches races.
func (s *bulkImportService) acquireLock(ctx context.Context) (func(), error) {
	noop := func() {}
	if s.lock == nil {
		return noop, nil
	}

	token := uuid.NewString()
	ok, err := s.lock.SetNX(ctx, importLockKey, token, s.cfg.LockTTL)
	if err != nil {
		log.Warn().Err(err).Msg("import lock unavailable, continuing without it")
		return noop, nil
	}
	if !ok {
		return nil, model.ErrImportInProgress
	}

	return func() {
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		released, err := s.lock.DeleteIfValue(releaseCtx, importLockKey, token)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("failed to release import lock")
		case !released:
			log.Warn().Dur("lock_ttl", s.cfg.LockTTL).Msg("import lock expired before the run finished")
		}
	}, nil
}

func (s *bulkImportService) invalidateCaches(ctx context.Context) {
	for _, inv := range s.invalidators {
		if err := inv.InvalidateCache(ctx); err != nil {
			log.Warn().Err(err).Msg("cache invalidation after import failed")
		}
	}
}

func openSource(fileName string, r io.Reader) (importer.RowSource, error) {
	src, err := importer.OpenSource(fileName, r)
	if errors.Is(err, importer.ErrUnsupportedFormat) {
		return nil, fmt.Errorf("%w: %v", model.ErrUnsupportedFile, err)
	}
	return src, err
}
