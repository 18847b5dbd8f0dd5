// Package content manages CMS pages and the university identity record.
package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/querycache"
	"github.com/heartmarshall/scolary/internal/service/resource"
)

var (
	CmsPagesDef   = resource.Definition{Name: "cms_pages", Path: "/cms_pages/"}
	UniversityDef = resource.Definition{Name: "university", Path: "/university/"}
)

var allowedLogoExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".svg": true, ".webp": true}

// api defines the HTTP client interface needed by content services.
type api interface {
	Do(ctx context.Context, path string, req scolaryapi.Request, out any) error
}

// Service exposes CMS pages and university info.
type Service struct {
	log        *slog.Logger
	api        api
	CmsPages   *resource.Service[domain.CmsPage, domain.CmsPagePayload]
	University *resource.Service[domain.University, domain.UniversityPayload]
}

// NewService creates a content service.
func NewService(logger *slog.Logger, client api, cache *querycache.Cache) *Service {
	return &Service{
		log:        logger.With("service", "content"),
		api:        client,
		CmsPages:   resource.New[domain.CmsPage, domain.CmsPagePayload](logger, client, cache, CmsPagesDef),
		University: resource.New[domain.University, domain.UniversityPayload](logger, client, cache, UniversityDef),
	}
}

// PageBySlug returns the CMS page with the given slug.
func (s *Service) PageBySlug(ctx context.Context, slug string) (*domain.CmsPage, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.NewValidationError("slug", "required")
	}
	resp, err := s.CmsPages.List(ctx, domain.ListQuery{
		Where: []domain.Clause{{Key: "slug", Operator: domain.OpEqual, Value: slug}},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("cms page %q: %w", slug, domain.ErrNotFound)
	}
	return &resp.Data[0], nil
}

// UploadLogo uploads a logo image for the university as multipart/form-data.
func (s *Service) UploadLogo(ctx context.Context, universityID int64, fileName string, content io.Reader) (*domain.University, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedLogoExt[ext] {
		return nil, domain.NewValidationError("file", "unsupported image type")
	}

	body, contentType, err := scolaryapi.MultipartBody(nil, scolaryapi.FilePart{
		Field:    "file",
		FileName: filepath.Base(fileName),
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("content.UploadLogo: %w", err)
	}

	var out domain.University
	err = s.api.Do(ctx, UniversityDef.ItemPath(universityID)+"/logo", scolaryapi.Request{
		Method:      http.MethodPost,
		Body:        body,
		ContentType: contentType,
	}, &out)
	if err != nil {
		return nil, err
	}

	s.University.Invalidate()
	s.log.InfoContext(ctx, "university logo uploaded", slog.Int64("university_id", universityID))
	return &out, nil
}
