package language

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	xlanguage "golang.org/x/text/language"

	"envoi/internal/logging"
)

// All is the sentinel token that expands to the full catalog.
const All = "all"

// Target is the per-language descriptor embedded in an execution request.
type Target struct {
	LanguageCode     string `json:"LanguageCode"`
	OutputBucketName string `json:"OutputBucketName"`
}

// Language is one catalog entry.
type Language struct {
	Code string
	Name string
}

// Catalog lists the languages supported by the translation service.
type Catalog interface {
	Languages(ctx context.Context) ([]Language, error)
}

// Resolver turns requested language tokens into Targets.
type Resolver struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewResolver builds a resolver. catalog may be nil when the caller never
// passes the All sentinel.
func NewResolver(catalog Catalog, logger *slog.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		logger:  logging.NewComponentLogger(logger, "language"),
	}
}

// IsAll reports whether tokens is exactly the single sentinel token.
func IsAll(tokens []string) bool {
	return len(tokens) == 1 && strings.TrimSpace(tokens[0]) == All
}

// Resolve returns one Target per language. An empty request yields an empty,
// non-nil slice.
func (r *Resolver) Resolve(ctx context.Context, tokens []string, outputBucket string) ([]Target, error) {
	r.logger.Debug("resolving translation languages", slog.Any("requested", tokens))
	if len(tokens) == 0 {
		return []Target{}, nil
	}

	codes := make([]string, 0, len(tokens))
	if IsAll(tokens) {
		if r.catalog == nil {
			return nil, fmt.Errorf("resolve %q: no language catalog configured", All)
		}
		entries, err := r.catalog.Languages(ctx)
		if err != nil {
			return nil, fmt.Errorf("list catalog languages: %w", err)
		}
		for _, entry := range entries {
			codes = append(codes, entry.Code)
		}
		r.logger.Info("expanded language catalog", logging.Int("count", len(codes)))
	} else {
		for _, token := range tokens {
			code := strings.TrimSpace(token)
			if code == "" {
				continue
			}
			if _, err := xlanguage.Parse(code); err != nil {
				r.logger.Warn("language code is not a well-formed tag; passing through",
					logging.String("code", code))
			}
			codes = append(codes, code)
		}
	}

	targets := make([]Target, 0, len(codes))
	for _, code := range codes {
		targets = append(targets, Target{LanguageCode: code, OutputBucketName: outputBucket})
	}
	return targets, nil
}
