package execution

import (
	"bytes"
	"encoding/json"
	"fmt"

	"envoi/internal/language"
)

// Media references the source media file.
type Media struct {
	MediaFileURI string `json:"MediaFileUri"`
}

// TranscribeSection describes the transcription job.
type TranscribeSection struct {
	Media                Media  `json:"Media"`
	OutputBucketName     string `json:"OutputBucketName"`
	TranscriptionJobName string `json:"TranscriptionJobName"`
	LanguageCode         string `json:"LanguageCode,omitempty"`
}

// TranslateSection lists the translation targets; it may be empty.
type TranslateSection struct {
	Languages []language.Target `json:"Languages"`
}

// Request is the execution input document.
type Request struct {
	Transcribe TranscribeSection `json:"Transcribe"`
	Translate  TranslateSection  `json:"Translate"`
}

// Encode renders the request in its canonical compact form.
func (r Request) Encode() (string, error) {
	if r.Translate.Languages == nil {
		r.Translate.Languages = []language.Target{}
	}
	data, err := marshalCompact(r)
	if err != nil {
		return "", fmt.Errorf("encode execution request: %w", err)
	}
	return string(data), nil
}

// marshalCompact encodes v without a trailing newline and leaves <, > and &
// unescaped so object keys reach the state machine as written.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeRequest parses an encoded request, rejecting unknown fields.
func DecodeRequest(encoded string) (Request, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(encoded)))
	dec.DisallowUnknownFields()
	var r Request
	if err := dec.Decode(&r); err != nil {
		return Request{}, fmt.Errorf("decode execution request: %w", err)
	}
	if r.Translate.Languages == nil {
		r.Translate.Languages = []language.Target{}
	}
	return r, nil
}
