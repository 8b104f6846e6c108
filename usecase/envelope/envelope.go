package envelope

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/roast/domain"
)

// Draft is the caller's description of an operation outcome.
type Draft struct {
	Status   string
	Data     any
	Messages []MessageDraft
}

type MessageDraft struct {
	Text  string
	Code  any
	Field string
}

type UseCase struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{logger: logger}
}

// Build packages a draft into a result. An empty status means success.
// Malformed drafts are reported as domain errors with the INVALID code.
func (uc *UseCase) Build(ctx context.Context, draft Draft) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := domain.NewResult()
	switch domain.Status(draft.Status) {
	case "", domain.StatusSuccess:
	case domain.StatusFail:
		result.SetStatusFail()
	case domain.StatusError:
		result.SetStatusError()
	default:
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown status %q", draft.Status))
	}

	if err := result.SetData(draft.Data); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid data", err)
	}

	for i, m := range draft.Messages {
		message, err := domain.NewMessage(m.Text, m.Code, m.Field)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid message %d", i), err)
		}
		result.AddMessage(message)
	}

	uc.logger.Debug("envelope built",
		zap.String("status", result.Status().String()),
		zap.Int("messages", len(draft.Messages)),
	)
	return result, nil
}
