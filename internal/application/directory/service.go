package directory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clientdir-backend/internal/domain"
	"clientdir-backend/internal/pkg/apperr"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Tab is the activity-status filter of the list view.
type Tab string

const (
	TabAll      Tab = "all"
	TabActive   Tab = "active"
	TabInactive Tab = "inactive"
)

// PageSize is the fixed page size of the list view.
const PageSize = 20

// ParseTab maps a query-string value to a Tab. Empty means "all".
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabAll:
		return TabAll, nil
	case TabActive:
		return TabActive, nil
	case TabInactive:
		return TabInactive, nil
	}
	return "", apperr.Validationf("unknown tab %q", s)
}

// TabCounts are the per-tab totals under one search predicate.
type TabCounts struct {
	All      int64 `json:"all"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// Page is one slice of the list view.
type Page struct {
	Items   []domain.ClientAccount `json:"items"`
	HasMore bool                   `json:"has_more"`
	Total   int64                  `json:"total"`
}

// Service serves filtered, paginated, tab-counted views over client accounts.
// Stateless per call; results are cached under versioned keys and superseded
// wholesale on any change notification.
type Service struct {
	DB    *gorm.DB
	Cache *Cache
}

// scoped applies the search predicate (case-insensitive substring over
// display_name, client_code, city, state, country) and the tab filter. The
// same predicate feeds counts and pages, which is what keeps them consistent.
func (s *Service) scoped(ctx context.Context, tab Tab, search string) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&domain.ClientAccount{})
	if search = strings.TrimSpace(search); search != "" {
		pat := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(display_name) LIKE @q OR LOWER(client_code) LIKE @q OR LOWER(COALESCE(city, '')) LIKE @q OR LOWER(COALESCE(state, '')) LIKE @q OR LOWER(COALESCE(country, '')) LIKE @q",
			sql.Named("q", pat),
		)
	}
	switch tab {
	case TabActive:
		q = q.Where("is_active = ?", true)
	case TabInactive:
		q = q.Where("is_active = ?", false)
	}
	return q
}

// CountByTab computes the three tab totals under the search predicate. The
// counts are issued concurrently; they have no ordering dependency.
func (s *Service) CountByTab(ctx context.Context, search string) (TabCounts, error) {
	var counts TabCounts
	key, err := s.Cache.BuildKey(ctx, "directory", "counts", search)
	if err != nil {
		return counts, apperr.Dependency("directory cache", err)
	}
	err = s.Cache.FetchJSON(ctx, key, &counts, func(ctx context.Context) (interface{}, error) {
		var out TabCounts
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return s.scoped(gctx, TabAll, search).Count(&out.All).Error })
		g.Go(func() error { return s.scoped(gctx, TabActive, search).Count(&out.Active).Error })
		g.Go(func() error { return s.scoped(gctx, TabInactive, search).Count(&out.Inactive).Error })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		if apperr.IsDependency(err) {
			return counts, err
		}
		return counts, apperr.Dependency("directory counts", err)
	}
	return counts, nil
}

// FetchPage returns page pageIndex of the tab under the search predicate,
// ordered by created_at descending.
func (s *Service) FetchPage(ctx context.Context, tab Tab, search string, pageIndex int) (Page, error) {
	var page Page
	if pageIndex < 0 {
		return page, apperr.Validationf("page index must not be negative")
	}
	key, err := s.Cache.BuildKey(ctx, "directory", "page", string(tab), search, fmt.Sprint(pageIndex))
	if err != nil {
		return page, apperr.Dependency("directory cache", err)
	}
	err = s.Cache.FetchJSON(ctx, key, &page, func(ctx context.Context) (interface{}, error) {
		var out Page
		if err := s.scoped(ctx, tab, search).Count(&out.Total).Error; err != nil {
			return nil, err
		}
		if err := s.scoped(ctx, tab, search).
			Order("created_at DESC").
			Offset(pageIndex * PageSize).
			Limit(PageSize).
			Find(&out.Items).Error; err != nil {
			return nil, err
		}
		out.HasMore = int64((pageIndex+1)*PageSize) < out.Total
		return out, nil
	})
	if err != nil {
		if apperr.IsDependency(err) {
			return page, err
		}
		return page, apperr.Dependency("directory page", err)
	}
	return page, nil
}
