package artifact

import (
	"fmt"
	"strings"
)

type SourceType string

const (
	SourceTypeDirect SourceType = "direct"
	SourceTypeFile   SourceType = "file"
	SourceTypeS3     SourceType = "s3"

	SourceTypeHuggingface SourceType = "huggingface"
)

type Source struct {
	Type     SourceType
	Location string
	Raw      string
}

// ParseSource classifies an artifact location. Accepted forms are
// http(s)://..., file:<path>, s3://<bucket>/<key> and hf:<org>/<repo>/<file>.
func ParseSource(source string) (*Source, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("empty source string. Source is required")
	}

	s := &Source{
		Raw: source,
	}

	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		s.Type = SourceTypeDirect
		s.Location = source
	case strings.HasPrefix(source, "file:"):
		s.Type = SourceTypeFile
		s.Location = strings.TrimPrefix(strings.TrimPrefix(source, "file:"), "//")
	case strings.HasPrefix(source, "s3://"):
		s.Type = SourceTypeS3
		s.Location = strings.TrimPrefix(source, "s3://")
		if _, _, err := s.BucketKey(); err != nil {
			return nil, err
		}
	case strings.HasPrefix(source, "hf:"):
		s.Type = SourceTypeHuggingface
		s.Location = strings.TrimPrefix(source, "hf:")
		if _, _, err := s.RepoFile(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported artifact source: %s", source)
	}

	if s.Location == "" {
		return nil, fmt.Errorf("artifact source %s has no location", source)
	}

	return s, nil
}

// BucketKey splits an s3 location into bucket and object key.
func (s *Source) BucketKey() (string, string, error) {
	if s.Type != SourceTypeS3 {
		return "", "", fmt.Errorf("source %s is not an s3 source", s.Raw)
	}

	bucket, key, ok := strings.Cut(s.Location, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 source %q, expected s3://<bucket>/<key>", s.Raw)
	}

	return bucket, key, nil
}

// RepoFile splits a Hugging Face location into repo id and the file path
// inside the repo.
func (s *Source) RepoFile() (string, string, error) {
	if s.Type != SourceTypeHuggingface {
		return "", "", fmt.Errorf("source %s is not a huggingface source", s.Raw)
	}

	parts := strings.SplitN(s.Location, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("invalid huggingface source %q, expected hf:<org>/<repo>/<file>", s.Raw)
	}

	return parts[0] + "/" + parts[1], parts[2], nil
}

func (s *Source) String() string {
	return s.Raw
}
