package in

import (
	"context"
	"fmt"
	"os"

	"ereader/internal/modules/render/dto"
	renderin "ereader/internal/modules/render/port/in"
)

type CLIHandler struct {
	usecase renderin.Usecase
}

func NewCLIHandler(usecase renderin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// RenderToFile draws one page synchronously and writes it to path.
func (h CLIHandler) RenderToFile(ctx context.Context, input dto.RenderInput, path string) (dto.StatusOutput, error) {
	token, err := h.usecase.RenderSync(ctx, input)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	if err := h.export(ctx, path); err != nil {
		return dto.StatusOutput{}, err
	}
	return h.usecase.Status(ctx, token), nil
}

// ExportCommitted writes the page currently on display to path.
func (h CLIHandler) ExportCommitted(ctx context.Context, path string) (dto.StatusOutput, error) {
	if err := h.export(ctx, path); err != nil {
		return dto.StatusOutput{}, err
	}
	status := h.usecase.Status(ctx, 0)
	return h.usecase.Status(ctx, status.Committed), nil
}

func (h CLIHandler) export(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := h.usecase.WriteCommitted(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
