package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"envoi/internal/logging"
	"envoi/internal/services"
)

// PutObjectTaggingAPI replaces the tag set of one object.
type PutObjectTaggingAPI interface {
	PutObjectTagging(ctx context.Context, params *s3.PutObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error)
}

// Tags maps tag keys to values.
type Tags map[string]string

// ParseTags reads key=value pairs. Values may be empty; keys may not.
func ParseTags(pairs []string) (Tags, error) {
	tags := Tags{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, services.Wrap(services.ErrValidation, "storage", "parse tags",
				fmt.Sprintf("%q is not key=value", pair), nil)
		}
		tags[key] = strings.TrimSpace(value)
	}
	return tags, nil
}

// TagSet renders tags sorted by key.
func (t Tags) TagSet() []types.Tag {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	set := make([]types.Tag, 0, len(keys))
	for _, key := range keys {
		set = append(set, types.Tag{Key: aws.String(key), Value: aws.String(t[key])})
	}
	return set
}

// TagMap assigns tags per bucket and key prefix:
//
//	{"media": {"video/": {"team": "post"}}}
type TagMap map[string]map[string]Tags

// LoadTagMap reads a JSON tag map from path.
func LoadTagMap(path string) (TagMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "read tag map", path, err)
	}
	var m TagMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, services.Wrap(services.ErrValidation, "storage", "parse tag map", path, err)
	}
	return m, nil
}

// Lookup returns the tags for key in bucket. An exact entry for prefix wins;
// otherwise the longest mapped prefix of key is used.
func (m TagMap) Lookup(bucket, prefix, key string) (Tags, bool) {
	prefixes := m[bucket]
	if len(prefixes) == 0 {
		return nil, false
	}
	if prefix != "" {
		if tags, ok := prefixes[prefix]; ok {
			return tags, true
		}
	}
	best, found := "", false
	for candidate := range prefixes {
		if strings.HasPrefix(key, candidate) && (!found || len(candidate) > len(best)) {
			best, found = candidate, true
		}
	}
	if !found {
		return nil, false
	}
	return prefixes[best], true
}

// Tagger writes tag sets onto listed objects.
type Tagger struct {
	api    PutObjectTaggingAPI
	logger *slog.Logger
}

// NewTagger wraps api.
func NewTagger(api PutObjectTaggingAPI, logger *slog.Logger) *Tagger {
	return &Tagger{api: api, logger: logging.NewComponentLogger(logger, "storage")}
}

// Apply replaces the tag set of obj with tags.
func (t *Tagger) Apply(ctx context.Context, obj Object, tags Tags) error {
	if len(tags) == 0 {
		return services.Wrap(services.ErrValidation, "storage", "tag object", obj.URL()+": no tags", nil)
	}
	_, err := t.api.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket:  aws.String(obj.Bucket),
		Key:     aws.String(obj.Key),
		Tagging: &types.Tagging{TagSet: tags.TagSet()},
	})
	if err != nil {
		remote := services.RemoteDetail(err)
		t.logger.Warn("put object tagging failed",
			logging.String(logging.FieldBucket, obj.Bucket),
			logging.String(logging.FieldKey, obj.Key),
			logging.String(logging.FieldErrorCode, remote.Code),
		)
		return services.Wrap(services.ErrExternalService, "storage", "tag "+obj.URL(), remote.String(), err)
	}
	t.logger.Info("tagged object",
		logging.String(logging.FieldBucket, obj.Bucket),
		logging.String(logging.FieldKey, obj.Key),
		logging.Int("tags", len(tags)),
	)
	return nil
}
