package lifecycle

import (
	"context"
	"fmt"
	"io"

	"interviewprep/internal/metrics"
	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/storage"

	"go.uber.org/zap"
)

type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool { return k == MediaAudio || k == MediaVideo }

// Upload is a media file sent for one question.
type Upload struct {
	SlotID      uint
	Kind        MediaKind
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadMedia stores the file and then attaches it to the question's answer.
// When storing fails the answer is not touched; when attaching fails the
// stored file is removed again.
func (c *Controller) UploadMedia(ctx context.Context, userID, sessionID uint, up Upload) (*Snapshot, error) {
	if !up.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown media kind %q", ErrValidation, up.Kind)
	}
	s, err := c.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireInProgress(s); err != nil {
		return nil, err
	}
	if _, err := c.sessions.GetSlot(ctx, sessionID, up.SlotID); err != nil {
		return nil, translate(err)
	}

	key := storage.ObjectKey(fmt.Sprintf("%s/%d/%d", up.Kind, sessionID, up.SlotID), up.Filename)
	obj, err := c.files.Put(ctx, key, up.Body, up.Size, up.ContentType)
	if err != nil {
		metrics.Upload(string(up.Kind), err)
		return nil, fmt.Errorf("store %s upload: %w", up.Kind, err)
	}

	snap, err := c.AttachMedia(ctx, userID, sessionID, up.SlotID, up.Kind, obj)
	metrics.Upload(string(up.Kind), err)
	if err != nil {
		if derr := c.files.Delete(context.WithoutCancel(ctx), obj.Key); derr != nil {
			c.logger.Warn("failed to remove orphaned upload", zap.String("key", obj.Key), zap.Error(derr))
		}
		return nil, err
	}
	return snap, nil
}

// AttachMedia records an already stored file on the question's answer.
func (c *Controller) AttachMedia(ctx context.Context, userID, sessionID, slotID uint, kind MediaKind, obj storage.Object) (*Snapshot, error) {
	return c.act(ctx, "attach_"+string(kind), userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		if err := requireInProgress(s); err != nil {
			return err
		}
		slot, err := tx.GetSlot(ctx, s.ID, slotID)
		if err != nil {
			return err
		}
		if slot.Status == models.SlotSkipped {
			return invalid("question %d was skipped", slot.Sequence)
		}
		ans, err := answerFor(ctx, tx, slot)
		if err != nil {
			return err
		}
		now := c.now()
		switch kind {
		case MediaAudio:
			ans.AudioPath, ans.AudioSize = obj.Key, obj.Size
		case MediaVideo:
			ans.VideoPath, ans.VideoSize = obj.Key, obj.Size
		}
		ans.FileUploadedAt = &now
		return tx.SaveAnswer(ctx, ans)
	})
}
