// Package taskq dispatches resource tasks in process. Tasks are spread over
// partitions by resource id and every partition has a single consumer, so two
// tasks for the same resource never run at the same time.
package taskq

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/code19m/errx"
	"github.com/google/uuid"

	"github.com/rise-and-shine/dataresource/meta"
	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/restype"
)

const (
	topicPrefix = "dataresource.tasks."
	metaTraceID = "trace_id"
	metaKind    = "kind"
)

type Config struct {
	Partitions int   `yaml:"partitions"  default:"8"   validate:"min=1"`
	BufferSize int64 `yaml:"buffer_size" default:"256" validate:"min=0"`
}

type Dispatcher struct {
	cfg    Config
	pubsub *gochannel.GoChannel
	runner Runner
	logger logger.Logger

	started atomic.Bool
	wg      sync.WaitGroup
}

func New(runner Runner, cfg Config, log logger.Logger) *Dispatcher {
	log = log.Named("taskq")
	return &Dispatcher{
		cfg: cfg,
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: cfg.BufferSize},
			newLoggerAdapter(log),
		),
		runner: runner,
		logger: log,
	}
}

// Start subscribes one consumer per partition. Tasks enqueued before Start
// are rejected. Consumers stop when ctx is done or Close is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	for i := range d.cfg.Partitions {
		msgs, err := d.pubsub.Subscribe(ctx, topic(i))
		if err != nil {
			return errx.Wrap(err, errx.WithDetails(errx.D{"partition": i}))
		}
		d.wg.Go(func() { d.consume(msgs) })
	}
	d.started.Store(true)
	return nil
}

// Close stops accepting tasks and waits for running ones to finish.
func (d *Dispatcher) Close() error {
	d.started.Store(false)
	if err := d.pubsub.Close(); err != nil {
		return errx.Wrap(err)
	}
	d.wg.Wait()
	return nil
}

func (d *Dispatcher) EnqueueValidateAndStore(ctx context.Context, id uuid.UUID, requested *restype.Code) error {
	return d.enqueue(ctx, Task{Kind: KindValidateAndStore, ResourceID: id, ResourceType: requested})
}

func (d *Dispatcher) EnqueueValidate(ctx context.Context, id uuid.UUID, requested *restype.Code) error {
	return d.enqueue(ctx, Task{Kind: KindValidate, ResourceID: id, ResourceType: requested})
}

func (d *Dispatcher) EnqueueDeleteFile(ctx context.Context, path string) error {
	return d.enqueue(ctx, Task{Kind: KindDeleteFile, Path: path})
}

func (d *Dispatcher) enqueue(ctx context.Context, t Task) error {
	if !d.started.Load() {
		return errx.New("task queue is not started", errx.WithCode(CodeNotStarted))
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return errx.Wrap(err, errx.WithCode(CodeInvalidTask))
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metaKind, string(t.Kind))
	if traceID := meta.Find(ctx, meta.TraceID); traceID != "" {
		msg.Metadata.Set(metaTraceID, traceID)
	}

	if err = d.pubsub.Publish(topic(d.partition(t.partitionKey())), msg); err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodePublishFailed),
			errx.WithDetails(errx.D{"kind": string(t.Kind), "key": t.partitionKey()}),
		)
	}
	return nil
}

func (d *Dispatcher) consume(msgs <-chan *message.Message) {
	for msg := range msgs {
		d.handle(msg)
		// the outcome lives on the resource, so every task is acked
		msg.Ack()
	}
}

func (d *Dispatcher) handle(msg *message.Message) {
	ctx := meta.With(context.Background(), meta.TaskKind, msg.Metadata.Get(metaKind))
	if traceID := msg.Metadata.Get(metaTraceID); traceID != "" {
		ctx = meta.With(ctx, meta.TraceID, traceID)
	}
	log := d.logger.WithContext(ctx).With("message_id", msg.UUID)

	var t Task
	if err := json.Unmarshal(msg.Payload, &t); err != nil {
		log.Errorx(errx.Wrap(err, errx.WithCode(CodeInvalidTask)))
		return
	}

	var err error
	switch t.Kind {
	case KindValidateAndStore:
		_, err = d.runner.ValidateAndStore(ctx, t.ResourceID, t.ResourceType)
	case KindValidate:
		_, err = d.runner.Validate(ctx, t.ResourceID, t.ResourceType)
	case KindDeleteFile:
		err = d.runner.DeleteFile(ctx, t.Path)
	default:
		err = errx.New("unknown task kind",
			errx.WithCode(CodeInvalidTask),
			errx.WithDetails(errx.D{"kind": string(t.Kind)}),
		)
	}

	if err != nil {
		log.With("resource_id", t.ResourceID, "path", t.Path).Errorx(err)
	}
}

func (d *Dispatcher) partition(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(d.cfg.Partitions)) //nolint:gosec // partitions is validated positive
}

func topic(partition int) string {
	return topicPrefix + strconv.Itoa(partition)
}
