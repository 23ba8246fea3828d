package splitbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"split-server/internal/domain/conversation"
	"split-server/internal/domain/llm"
	"split-server/internal/domain/tool"
	"split-server/internal/infrastructure/metrics"
	"split-server/internal/utils/platformerrors"
)

// OCRClient extracts text from a bill image. Failures come back as errors
// whose message is safe to show the user.
type OCRClient interface {
	ExtractFromURL(ctx context.Context, imageURL string) (string, error)
}

// Service is the produced interface of the core: one inbound group message
// in, one reply out. The caller performs the whitelist gate before
// invoking it.
type Service struct {
	window       *conversation.Window
	orchestrator *tool.Orchestrator
	ocr          OCRClient
	locks        *conversation.KeyedMutex
	log          zerolog.Logger
}

// NewService wires the message-processing core.
func NewService(window *conversation.Window, orchestrator *tool.Orchestrator, ocr OCRClient, log zerolog.Logger) *Service {
	return &Service{
		window:       window,
		orchestrator: orchestrator,
		ocr:          ocr,
		locks:        conversation.NewKeyedMutex(),
		log:          log.With().Str("domain", "splitbot").Logger(),
	}
}

// ProcessParams carries one inbound group message.
type ProcessParams struct {
	Sender   string
	GroupID  string
	Text     string
	ImageURL string
	Platform string
}

// ProcessMessage ingests the message, runs the oracle loop over the
// group's trimmed conversation window and returns the reply. Requests for
// the same group are serialized end to end so the user turn and the
// assistant turn land adjacently in append order.
func (s *Service) ProcessMessage(ctx context.Context, params ProcessParams) (string, error) {
	started := time.Now()

	unlock := s.locks.Lock(params.GroupID)
	defer unlock()

	userTurn, err := s.buildUserTurn(ctx, params)
	if err != nil {
		// OCR failure short-circuits: no oracle call, no turn appended.
		metrics.AIProcessingTotal.WithLabelValues(params.Platform, "failure").Inc()
		return "", err
	}

	if err := s.window.AppendTurn(ctx, params.GroupID, conversation.Turn{
		Role:    conversation.RoleUser,
		Content: userTurn,
	}); err != nil {
		return "", err
	}

	turns, err := s.window.LoadForInference(ctx, params.GroupID)
	if err != nil {
		return "", err
	}

	history := make([]llm.ChatMessage, 0, len(turns)+1)
	history = append(history, llm.ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range turns {
		history = append(history, turn.ToChatMessage())
	}

	result, err := s.orchestrator.Execute(ctx, history)
	if err != nil {
		// The user turn stays appended; the next request's window still
		// carries the unanswered message.
		metrics.AIProcessingTotal.WithLabelValues(params.Platform, "failure").Inc()
		s.log.Error().Err(err).Str("group_id", params.GroupID).Msg("oracle invocation failed")
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeOracle, "failed to process message", err)
	}

	produced := make([]conversation.Turn, 0, len(result.NewMessages))
	for _, msg := range result.NewMessages {
		produced = append(produced, conversation.TurnFromChatMessage(params.GroupID, msg))
	}
	if err := s.window.AppendTurns(ctx, params.GroupID, produced); err != nil {
		return "", err
	}

	metrics.AIProcessingTotal.WithLabelValues(params.Platform, "success").Inc()
	metrics.AIProcessingDuration.WithLabelValues(params.Platform).Observe(time.Since(started).Seconds())

	return result.FinalMessage.Content, nil
}

// buildUserTurn prefixes the message with the sender's identity tag and,
// when an image reference is present, appends the OCR extraction. An OCR
// failure aborts the whole request before any inference happens.
func (s *Service) buildUserTurn(ctx context.Context, params ProcessParams) (string, error) {
	turn := fmt.Sprintf("%s: %s", params.Sender, params.Text)

	if strings.TrimSpace(params.ImageURL) == "" {
		return turn, nil
	}

	extracted, err := s.ocr.ExtractFromURL(ctx, params.ImageURL)
	if err != nil {
		s.log.Error().Err(err).Str("group_id", params.GroupID).Msg("ocr extraction failed")
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, err.Error(), err)
	}

	return turn + "\n\nExtracted bill text:\n" + extracted, nil
}
