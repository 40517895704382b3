package service

import (
	"context"
	"encoding/json"

	"prompt-library-be/internal/pkg/logger"
	"prompt-library-be/internal/repository/specification"
	"prompt-library-be/internal/repository/unitofwork"
	"prompt-library-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const AttachmentCleanupTopic = "attachments.cleanup"

type attachmentCleanupMessage struct {
	Filename string `json:"filename"`
}

// IAttachmentJanitor removes files that no prompt points at any more. Deletion runs
// after the database commit so a failed write never loses the old file.
type IAttachmentJanitor interface {
	Schedule(ctx context.Context, filename string)
	Consume(ctx context.Context) error
}

type attachmentJanitor struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	uowFactory unitofwork.RepositoryFactory
	files      storage.FileStore
	logger     logger.ILogger
}

func NewAttachmentJanitor(
	publisher message.Publisher,
	subscriber message.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	files storage.FileStore,
	log logger.ILogger,
) IAttachmentJanitor {
	return &attachmentJanitor{
		publisher:  publisher,
		subscriber: subscriber,
		uowFactory: uowFactory,
		files:      files,
		logger:     log,
	}
}

func (j *attachmentJanitor) Schedule(ctx context.Context, filename string) {
	if filename == "" {
		return
	}
	payload, _ := json.Marshal(attachmentCleanupMessage{Filename: filename})
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := j.publisher.Publish(AttachmentCleanupTopic, msg); err != nil {
		j.logger.Error("ATTACHMENT", "Failed to schedule cleanup", logger.Fields{
			"filename": filename,
			"error":    err.Error(),
		})
	}
}

func (j *attachmentJanitor) Consume(ctx context.Context) error {
	messages, err := j.subscriber.Subscribe(ctx, AttachmentCleanupTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			j.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (j *attachmentJanitor) processMessage(ctx context.Context, msg *message.Message) {
	var payload attachmentCleanupMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		j.logger.Error("ATTACHMENT", "Invalid cleanup message", logger.Fields{"error": err.Error()})
		msg.Ack() // malformed, retrying will not help
		return
	}

	// A duplicated prompt may share the file; keep it while anything references it.
	uow := j.uowFactory.NewUnitOfWork(ctx)
	refs, err := uow.PromptRepository().Count(ctx, specification.ByAttachment{Filename: payload.Filename})
	if err != nil {
		j.logger.Error("ATTACHMENT", "Failed to count references", logger.Fields{
			"filename": payload.Filename,
			"error":    err.Error(),
		})
		msg.Ack() // gochannel redelivers a Nack immediately, so the file is left in place
		return
	}
	if refs > 0 {
		j.logger.Debug("ATTACHMENT", "File still referenced, keeping", logger.Fields{"filename": payload.Filename, "refs": refs})
		msg.Ack()
		return
	}

	if err := j.files.Delete(payload.Filename); err != nil {
		j.logger.Error("ATTACHMENT", "Failed to delete file", logger.Fields{
			"filename": payload.Filename,
			"error":    err.Error(),
		})
		msg.Ack() // logged for manual cleanup
		return
	}

	j.logger.Info("ATTACHMENT", "Deleted orphaned attachment", logger.Fields{"filename": payload.Filename})
	msg.Ack()
}
