package pipeline

import (
	"context"
	"fmt"

	"newscrawler/pkg/domain"
	"newscrawler/pkg/render"
	"newscrawler/pkg/sites"
)

// ContentProcessor renders one article URL and extracts its record
type ContentProcessor interface {
	ProcessContent(ctx context.Context, url string, run sites.RunInfo) (*domain.ArticleRecord, error)
}

// RenderProcessor implements ContentProcessor with a renderer and the source's extraction policy
type RenderProcessor struct {
	renderer render.Renderer
	source   sites.Source
	opts     render.Options
}

// NewRenderProcessor creates a processor for source
func NewRenderProcessor(renderer render.Renderer, source sites.Source, opts render.Options) *RenderProcessor {
	return &RenderProcessor{
		renderer: renderer,
		source:   source,
		opts:     opts,
	}
}

// ProcessContent renders url and extracts the record. The only error is
// render.ErrPageNotRendered; extraction itself never fails.
func (p *RenderProcessor) ProcessContent(ctx context.Context, url string, run sites.RunInfo) (*domain.ArticleRecord, error) {
	page, err := p.renderer.Render(ctx, url, p.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", render.ErrPageNotRendered, err)
	}
	if !render.OK(page, nil) {
		return nil, fmt.Errorf("%w: %s", render.ErrPageNotRendered, render.Reason(page))
	}

	rec := p.source.ExtractRecord(url, page, run)
	return &rec, nil
}
