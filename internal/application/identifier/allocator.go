package identifier

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clientdir-backend/internal/pkg/apperr"

	"github.com/google/uuid"
)

// SlugLookup is the injected persistence capability: whether a slug is taken
// among currently stored slugs.
type SlugLookup interface {
	Taken(ctx context.Context, slug string) (bool, error)
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSlug lower-cases the name, collapses every run of non-alphanumeric
// characters to a single hyphen and strips leading/trailing hyphens.
// Pure and deterministic.
func DeriveSlug(displayName string) string {
	s := strings.ToLower(displayName)
	s = nonAlnumRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// AllocateUniqueSlug returns a slug for displayName that is free among stored
// slugs at the instant of check. currentSlug (may be empty) keeps renames
// stable: if the derived slug equals it, it is returned unchanged without any
// lookup. On collision a base-36 timestamp suffix is tried, then a random
// token; a third collision is reported as a conflict rather than retried
// blindly, since allocation is not idempotent-safe.
func AllocateUniqueSlug(ctx context.Context, displayName string, lookup SlugLookup, currentSlug string) (string, error) {
	if strings.TrimSpace(displayName) == "" {
		return "", apperr.Validationf("display name is required")
	}
	base := DeriveSlug(displayName)
	if base == "" {
		return "", apperr.Validationf("display name must contain letters or digits")
	}
	if currentSlug != "" && base == currentSlug {
		return currentSlug, nil
	}

	taken, err := lookup.Taken(ctx, base)
	if err != nil {
		return "", apperr.Dependency("slug lookup", err)
	}
	if !taken {
		return base, nil
	}

	stamped := base + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
	taken, err = lookup.Taken(ctx, stamped)
	if err != nil {
		return "", apperr.Dependency("slug lookup", err)
	}
	if !taken {
		return stamped, nil
	}

	random := stamped + "-" + randomToken(6)
	taken, err = lookup.Taken(ctx, random)
	if err != nil {
		return "", apperr.Dependency("slug lookup", err)
	}
	if taken {
		return "", &apperr.ConflictError{Msg: "could not allocate a unique slug for " + base}
	}
	return random, nil
}

// DeriveClientCode returns explicitCode when non-empty, else the first three
// characters of displayName upper-cased. Uniqueness is not guaranteed; the
// directory treats client_code as a display identifier only.
func DeriveClientCode(displayName, explicitCode string) string {
	if code := strings.TrimSpace(explicitCode); code != "" {
		return code
	}
	runes := []rune(strings.TrimSpace(displayName))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

func randomToken(n int) string {
	s := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
