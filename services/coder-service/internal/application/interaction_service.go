package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-coder/config"
	"ai-coder/services/coder-service/internal/application/dto"
	"ai-coder/services/coder-service/internal/domain"
	"ai-coder/services/coder-service/internal/snippet"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type InteractionService struct {
	sessions     domain.SessionRepository
	interactions domain.InteractionRepository
	model        domain.ModelClient
	formatter    domain.CodeFormatter
	llm          config.LLMConfig
	coder        config.CoderConfig
	now          domain.Clock
}

func NewInteractionService(
	sessions domain.SessionRepository,
	interactions domain.InteractionRepository,
	model domain.ModelClient,
	formatter domain.CodeFormatter,
	llm config.LLMConfig,
	coder config.CoderConfig,
) *InteractionService {
	return &InteractionService{
		sessions:     sessions,
		interactions: interactions,
		model:        model,
		formatter:    formatter,
		llm:          llm,
		coder:        coder,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *InteractionService) language(requested string) (string, error) {
	language := strings.ToLower(strings.TrimSpace(requested))
	if language == "" {
		language = s.coder.DefaultLanguage
	}
	if !s.coder.SupportsLanguage(language) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, requested)
	}
	return language, nil
}

// Create asks the model, extracts and formats the code, and stores the exchange.
// Nothing is persisted unless the model call succeeds.
func (s *InteractionService) Create(ctx context.Context, userID string, req *dto.CreateInteractionReq) (*dto.CreateInteractionResp, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidArgument)
	}
	language, err := s.language(req.Language)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	recent, err := s.interactions.FindRecent(ctx, session.ID, s.llm.ContextSize)
	if err != nil {
		return nil, err
	}

	temperature := s.llm.Temperature
	if req.ThinkMode {
		temperature = s.llm.ThinkTemperature
	}
	logger := log.FromContext(ctx).With("session_id", session.ID, "language", language)

	result, err := s.model.Generate(ctx, &domain.GenerateRequest{
		Model:  s.llm.Model,
		Prompt: req.Prompt,
		System: systemInstruction(language, req.ThinkMode, recent),
		Options: domain.GenerateOptions{
			Temperature: temperature,
			MaxTokens:   s.llm.MaxTokens,
		},
	})
	if err != nil {
		logger.Error("model call failed", "err", err)
		return nil, err
	}

	snippets := snippet.Extract(result.Text, language)
	for i := range snippets {
		snippets[i].Code = s.format(ctx, snippets[i])
	}

	interaction := &domain.Interaction{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		Prompt:      req.Prompt,
		Response:    result.Text,
		CodeSnippet: snippet.Representative(snippets, language),
		Language:    language,
		CreatedAt:   s.now(),
	}
	if err := s.interactions.Save(ctx, interaction); err != nil {
		return nil, err
	}
	logger.Info("interaction created", "interaction_id", interaction.ID, "snippets", len(snippets))

	return &dto.CreateInteractionResp{
		InteractionResp: *dto.ToInteractionResp(interaction),
		CodeSnippets:    snippets,
	}, nil
}

// format is best effort: any failure keeps the extracted code.
func (s *InteractionService) format(ctx context.Context, sn domain.Snippet) string {
	if sn.Code == "" || !s.formatter.Available() {
		return sn.Code
	}
	formatted, err := s.formatter.Format(ctx, sn.Code, sn.Language)
	if err != nil {
		log.FromContext(ctx).Warn("code formatting failed", "language", sn.Language, "err", err)
		return sn.Code
	}
	return formatted
}

// List returns the user's interactions, newest first. With a session id it returns
// that session's interactions in creation order.
func (s *InteractionService) List(ctx context.Context, userID, sessionID string, limit, offset int) ([]*dto.InteractionResp, error) {
	var (
		interactions []*domain.Interaction
		err          error
	)
	if sessionID != "" {
		if _, err = s.sessions.FindByID(ctx, userID, sessionID); err != nil {
			return nil, err
		}
		interactions, err = s.interactions.FindBySessionID(ctx, sessionID, limit, offset)
	} else {
		interactions, err = s.interactions.FindByUserID(ctx, userID, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.InteractionResp, len(interactions))
	for i, in := range interactions {
		resp[i] = dto.ToInteractionResp(in)
	}
	return resp, nil
}

func (s *InteractionService) Get(ctx context.Context, userID, interactionID string) (*dto.InteractionResp, error) {
	interaction, err := s.interactions.FindByID(ctx, userID, interactionID)
	if err != nil {
		return nil, err
	}
	return dto.ToInteractionResp(interaction), nil
}

func (s *InteractionService) Delete(ctx context.Context, userID, interactionID string) error {
	return s.interactions.Delete(ctx, userID, interactionID)
}
