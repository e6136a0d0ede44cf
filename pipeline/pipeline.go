// Package pipeline validates resources against a requested type and commits
// them to durable storage. It is the error boundary for everything below it:
// callers observe a status message on the resource plus a Result, never a
// raw failure.
package pipeline

import (
	"context"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/dataresource/meta"
	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/restype"
	"github.com/rise-and-shine/dataresource/storage"
)

type Pipeline struct {
	store    resource.Store
	backend  storage.Backend
	registry *restype.Registry
	cfg      Config

	locks    *keyedMutex
	recorder *recorder
	tracer   trace.Tracer
	logger   logger.Logger
}

func New(
	store resource.Store,
	backend storage.Backend,
	registry *restype.Registry,
	cfg Config,
	log logger.Logger,
	opts ...Option,
) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Pipeline{
		store:    store,
		backend:  backend,
		registry: registry,
		cfg:      cfg,
		locks:    newKeyedMutex(),
		recorder: newRecorder(o.metrics),
		tracer:   o.tracer,
		logger:   log.Named("pipeline"),
	}
}

// ValidateAndStore loads the resource, locks it for the duration of the run
// and commits it with ValidateAndStoreResource. The error is only set when
// the resource could not be loaded or locked.
func (p *Pipeline) ValidateAndStore(ctx context.Context, id uuid.UUID, requested *restype.Code) (Result, error) {
	unlock := p.locks.Lock(id)
	defer unlock()

	r, err := p.markInactive(ctx, id)
	if err != nil {
		return Result{ResourceID: id}, err
	}
	return p.ValidateAndStoreResource(ctx, r, requested), nil
}

// Validate re-types a resource already in durable storage. Unlike
// ValidateAndStore the file is not moved first and its size is kept.
func (p *Pipeline) Validate(ctx context.Context, id uuid.UUID, requested *restype.Code) (Result, error) {
	unlock := p.locks.Lock(id)
	defer unlock()

	ctx = context.WithoutCancel(meta.With(ctx, meta.ResourceID, id.String()))

	r, err := p.markInactive(ctx, id)
	if err != nil {
		return Result{ResourceID: id}, err
	}

	res := p.ValidateResource(ctx, r, requested)

	r.IsActive = true
	if err = p.store.Save(ctx, r); err != nil {
		p.logger.WithContext(ctx).Errorx(err)
		if res.Err == nil {
			res.Err = err
		}
	}
	res.Status, res.Path = r.Status, r.Path
	return res, nil
}

// DeleteFile removes a stored file. A missing file is not an error.
func (p *Pipeline) DeleteFile(ctx context.Context, path string) error {
	return p.backend.Delete(ctx, path)
}

func (p *Pipeline) markInactive(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	r, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	r.IsActive = false
	r.Status = resource.StatusValidating
	if err = p.store.Save(ctx, r); err != nil {
		return nil, errx.Wrap(err)
	}
	return r, nil
}

// ValidateAndStoreResource moves r to its final location, validates it as
// requested and persists it. The resource always ends active, whatever happened.
func (p *Pipeline) ValidateAndStoreResource(ctx context.Context, r *resource.Resource, requested *restype.Code) Result {
	ctx = context.WithoutCancel(meta.With(ctx, meta.ResourceID, r.ID.String()))
	ctx, span := p.tracer.Start(ctx, "pipeline.ValidateAndStoreResource",
		trace.WithAttributes(
			attribute.String("resource.id", r.ID.String()),
			attribute.String("resource.requested_type", codeString(requested)),
		),
	)
	defer span.End()

	started := time.Now()
	log := p.logger.WithContext(ctx).With("requested_type", codeString(requested))

	var res Result
	finalPath, err := p.backend.Store(ctx, r)
	if err != nil {
		log.With("path", r.Path).Errorx(err)
		r.Status = resource.StatusUnexpectedStorageError
		res = Result{State: UnexpectedStorageError, Err: err}
	} else {
		r.Path = finalPath
		res = p.ValidateResource(ctx, r, requested)
	}

	r.IsActive = true
	size, err := p.backend.Filesize(ctx, r.Path)
	if err != nil {
		log.With("path", r.Path).Warnx(err)
		size = 0
	}
	r.Size = size

	if err = p.store.Save(ctx, r); err != nil {
		log.Errorx(err)
		if res.Err == nil {
			res.Err = err
		}
	}

	res.ResourceID, res.Status, res.Path = r.ID, r.Status, r.Path

	p.recorder.observe(res.State, started)
	span.SetAttributes(attribute.String("pipeline.state", res.State.String()))
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.State.String())
	}
	log.With("state", res.State.String(), "path", r.Path).Info("resource committed")

	return res
}

// ValidateResource checks r against requested and, when valid, standardizes
// it, extracts its metadata and stores the result. Only r's fields and the
// metadata row are written; the resource itself is not saved.
func (p *Pipeline) ValidateResource(ctx context.Context, r *resource.Resource, requested *restype.Code) Result {
	res := p.validate(ctx, r, requested)
	res.ResourceID, res.Status, res.Path = r.ID, r.Status, r.Path
	return res
}

func (p *Pipeline) validate(ctx context.Context, r *resource.Resource, requested *restype.Code) Result {
	if requested == nil {
		r.ResourceType = nil
		r.Status = resource.StatusReady
		return Result{State: Ready}
	}

	code := *requested
	log := p.logger.WithContext(ctx).With("requested_type", code.String())

	if !p.registry.ExtensionConsistent(code, r.Name) {
		r.Status = resource.UnknownExtensionStatus(
			r.Name, p.registry.HumanReadable(code), p.registry.AcceptableExtensions(code),
		)
		return Result{State: UnknownExtension}
	}

	handler, err := p.registry.Get(code)
	if err != nil {
		log.Errorx(err)
		r.Status = resource.StatusUnexpectedValidationError
		return Result{State: UnexpectedValidationError, Err: err}
	}

	if !handler.PerformsValidation() {
		return p.handleValid(ctx, r, handler, "")
	}

	localPath, err := p.backend.LocalPath(ctx, r)
	if err != nil {
		log.With("path", r.Path).Errorx(err)
		r.Status = resource.StatusUnexpectedStorageError
		return Result{State: UnexpectedStorageError, Err: err}
	}

	valid, reason, err := handler.ValidateType(ctx, localPath)
	if err != nil {
		log.With("local_path", localPath).Errorx(err)
		r.Status = resource.StatusUnexpectedValidationError
		return Result{State: UnexpectedValidationError, Err: err}
	}
	if !valid {
		log.With("reason", reason).Info("resource failed validation")
		return p.handleInvalid(ctx, r, code, reason)
	}
	return p.handleValid(ctx, r, handler, localPath)
}

// handleValid finishes a resource that passed validation. localPath is empty
// for types that do not validate; their file is never pulled locally.
func (p *Pipeline) handleValid(ctx context.Context, r *resource.Resource, h restype.Handler, localPath string) Result {
	log := p.logger.WithContext(ctx).With("requested_type", h.Code().String())

	metadataPath := r.Path
	if h.PerformsValidation() {
		newPath, newName, err := h.SaveInStandardizedFormat(ctx, localPath, r.Name)
		if err != nil {
			log.With("local_path", localPath).Errorx(err)
			r.Status = resource.StatusUnexpectedValidationError
			return Result{State: UnexpectedValidationError, Err: err}
		}

		if newPath != localPath {
			log.With("path", r.Path, "standardized_path", newPath).Info("standardization changed the path")
			if err = p.backend.Delete(ctx, r.Path); err != nil {
				log.With("path", r.Path).Warnx(err)
			}
			r.Path = newPath
		}
		if newName != r.Name {
			r.Name = newName
		}
		metadataPath = newPath
	}

	extracted, err := h.ExtractMetadata(ctx, metadataPath)
	if err != nil {
		log.With("path", metadataPath).Errorx(err)
		r.Status = resource.StatusUnexpectedValidationError
		return Result{State: UnexpectedValidationError, Err: err}
	}
	p.attachMetadata(ctx, r, extracted)

	finalPath, err := p.backend.Store(ctx, r)
	if err != nil {
		log.With("path", r.Path).Errorx(err)
		r.Status = resource.StatusUnexpectedStorageError
		return Result{State: UnexpectedStorageError, Err: err}
	}

	r.Path = finalPath
	r.ResourceType = h.Code().Ptr()
	r.Status = resource.StatusReady
	return Result{State: Ready}
}

// handleInvalid never touches the type or metadata of a resource that was
// valid before.
func (p *Pipeline) handleInvalid(ctx context.Context, r *resource.Resource, requested restype.Code, reason string) Result {
	var reasonErr error
	if reason != "" {
		reasonErr = errx.New(reason,
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"resource_type": requested.String()}),
		)
	}

	if r.ResourceType == nil {
		r.Status = resource.FailedStatus(requested.String())
		p.attachMetadata(ctx, r, restype.Metadata{})
		return Result{State: ValidationFailedNoPriorType, Err: reasonErr}
	}

	r.Status = resource.RevertedStatus(
		p.registry.HumanReadable(requested), p.registry.HumanReadable(*r.ResourceType),
	)
	return Result{State: ValidationFailedReverted, Err: reasonErr}
}

// attachMetadata upserts the metadata row of r. A row that fails the schema,
// the size limit or the write is replaced by an empty one.
func (p *Pipeline) attachMetadata(ctx context.Context, r *resource.Resource, extracted restype.Metadata) {
	log := p.logger.WithContext(ctx)

	md := resource.NewMetadata(r.ID, extracted)
	existing, err := p.store.GetMetadata(ctx, r.ID)
	switch {
	case err == nil:
		md.ParentOperation = existing.ParentOperation
	case !errx.IsCodeIn(err, resource.CodeMetadataNotFound):
		log.Warnx(err)
	}

	err = resource.ValidateMetadata(md, p.cfg.MaxMetadataBytes)
	if err == nil {
		err = p.store.SaveMetadata(ctx, md)
	}
	if err == nil {
		return
	}
	log.Errorx(err)

	empty := resource.NewMetadata(r.ID, restype.Metadata{})
	empty.ParentOperation = md.ParentOperation
	if err = p.store.SaveMetadata(ctx, empty); err != nil {
		log.Errorx(err)
	}
}

func codeString(c *restype.Code) string {
	if c == nil {
		return "null"
	}
	return c.String()
}
