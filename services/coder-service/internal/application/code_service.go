package application

import (
	"context"
	"fmt"
	"strings"

	"ai-coder/services/coder-service/internal/application/dto"
	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
)

const pythonLanguage = "python"

type CodeService struct {
	executor  domain.CodeExecutor
	formatter domain.CodeFormatter
}

func NewCodeService(executor domain.CodeExecutor, formatter domain.CodeFormatter) *CodeService {
	return &CodeService{executor: executor, formatter: formatter}
}

func requirePython(language, action string) error {
	if language == "" || strings.EqualFold(language, pythonLanguage) {
		return nil
	}
	return fmt.Errorf("%w: only Python %s is supported currently", domain.ErrUnsupportedLanguage, action)
}

func (s *CodeService) Run(ctx context.Context, req *dto.CodeReq) (*dto.RunCodeResp, error) {
	if err := requirePython(req.Language, "execution"); err != nil {
		return nil, err
	}
	output, err := s.executor.Execute(ctx, req.Code)
	if err != nil {
		log.FromContext(ctx).Warn("code execution failed", "err", err)
		return nil, err
	}
	return &dto.RunCodeResp{Output: output}, nil
}

func (s *CodeService) Format(ctx context.Context, req *dto.CodeReq) (*dto.FormatCodeResp, error) {
	if err := requirePython(req.Language, "formatting"); err != nil {
		return nil, err
	}
	if !s.formatter.Available() {
		return nil, domain.ErrFormatterUnavailable
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("%w: no code provided", domain.ErrInvalidArgument)
	}
	formatted, err := s.formatter.Format(ctx, req.Code, pythonLanguage)
	if err != nil {
		return nil, err
	}
	return &dto.FormatCodeResp{FormattedCode: formatted}, nil
}
