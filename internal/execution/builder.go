package execution

import (
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"envoi/internal/language"
	"envoi/internal/services"
)

const (
	suffixLength    = 8
	fallbackJobStem = "transcription"
)

// Params are the user-supplied inputs to a request.
type Params struct {
	MediaFileURI     string
	OutputBucketName string
	JobName          string
	SourceLanguage   string
	Languages        []language.Target
}

// Builder maps Params to a Request.
type Builder struct {
	suffix func() string
}

// NewBuilder returns a Builder that suffixes default job names with the first
// eight hex characters of a random UUID.
func NewBuilder() *Builder {
	return &Builder{suffix: randomSuffix}
}

// NewBuilderWithSuffix returns a Builder with a fixed suffix source.
func NewBuilderWithSuffix(suffix func() string) *Builder {
	return &Builder{suffix: suffix}
}

func randomSuffix() string {
	return uuid.NewString()[:suffixLength]
}

// Build assembles the request. An explicit job name is used unchanged.
func (b *Builder) Build(p Params) (Request, error) {
	mediaURI := strings.TrimSpace(p.MediaFileURI)
	if mediaURI == "" {
		return Request{}, services.Wrap(services.ErrValidation, "builder", "build request", "media file uri is required", nil)
	}
	bucket := strings.TrimSpace(p.OutputBucketName)
	if bucket == "" {
		return Request{}, services.Wrap(services.ErrValidation, "builder", "build request", "output bucket name is required", nil)
	}

	jobName := p.JobName
	if strings.TrimSpace(jobName) == "" {
		jobName = DefaultJobName(mediaURI, b.suffix())
	}

	languages := p.Languages
	if languages == nil {
		languages = []language.Target{}
	}

	return Request{
		Transcribe: TranscribeSection{
			Media:                Media{MediaFileURI: mediaURI},
			OutputBucketName:     bucket,
			TranscriptionJobName: jobName,
			LanguageCode:         strings.TrimSpace(p.SourceLanguage),
		},
		Translate: TranslateSection{Languages: languages},
	}, nil
}

// DefaultJobName returns "<stem>-<suffix>" for the media URI.
func DefaultJobName(mediaURI, suffix string) string {
	stem := FileStem(mediaURI)
	if stem == "" {
		stem = fallbackJobStem
	}
	return stem + "-" + suffix
}

// FileStem returns the last path segment of the URI with its extension
// removed. A leading dot does not count as an extension.
func FileStem(mediaURI string) string {
	p := mediaURI
	if parsed, err := url.Parse(mediaURI); err == nil {
		p = parsed.Path
	}
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	base := path.Base(p)
	ext := path.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}
