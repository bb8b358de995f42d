package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gh300site/internal/model"
)

var tracer = otel.Tracer("gh300site/internal/service")

// SiteService supplies the content shown on the site's pages.
type SiteService interface {
	// FeatureCards returns the highlight cards for the home page, in display order.
	FeatureCards(ctx context.Context) []model.FeatureCard

	// RepoInfo returns a freshly built project record for the info page.
	RepoInfo(ctx context.Context) model.RepoInfo
}

// siteService serves the fixed content of this deployment.
type siteService struct{}

// NewSiteService constructs the default SiteService.
func NewSiteService() SiteService {
	return &siteService{}
}

func (s *siteService) FeatureCards(ctx context.Context) []model.FeatureCard {
	_, span := tracer.Start(ctx, "SiteService.FeatureCards")
	defer span.End()

	cards := model.DefaultFeatureCards()
	span.SetAttributes(attribute.Int("site.cards", len(cards)))
	return cards
}

func (s *siteService) RepoInfo(ctx context.Context) model.RepoInfo {
	_, span := tracer.Start(ctx, "SiteService.RepoInfo", trace.WithAttributes(
		attribute.String("repo.name", model.ProjectName),
	))
	defer span.End()

	return model.DefaultRepoInfo()
}
