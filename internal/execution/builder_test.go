package execution_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"envoi/internal/execution"
	"envoi/internal/language"
	"envoi/internal/services"
)

func fixedSuffix() string { return "1a2b3c4d" }

func TestFileStem(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"s3://bucket/path/clip.mp4", "clip"},
		{"s3://bucket/clip", "clip"},
		{"s3://bucket/path/archive.tar.gz", "archive.tar"},
		{"https://cdn.example.com/media/interview.mov?sig=abc", "interview"},
		{"s3://bucket/path/.hidden", ".hidden"},
		{"s3://bucket/path/", ""},
		{"s3://bucket", ""},
		{"local/file.wav", "file"},
	}
	for _, tc := range tests {
		if got := execution.FileStem(tc.uri); got != tc.want {
			t.Errorf("FileStem(%q) = %q, want %q", tc.uri, got, tc.want)
		}
	}
}

func TestBuildDerivesJobNameFromStem(t *testing.T) {
	req, err := execution.NewBuilder().Build(execution.Params{
		MediaFileURI:     "s3://bucket/path/clip.mp4",
		OutputBucketName: "out",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !regexp.MustCompile(`^clip-[0-9a-f]{8}$`).MatchString(req.Transcribe.TranscriptionJobName) {
		t.Fatalf("unexpected job name %q", req.Transcribe.TranscriptionJobName)
	}
	if req.Transcribe.Media.MediaFileURI != "s3://bucket/path/clip.mp4" {
		t.Fatalf("unexpected media uri %q", req.Transcribe.Media.MediaFileURI)
	}
	if req.Transcribe.OutputBucketName != "out" {
		t.Fatalf("unexpected bucket %q", req.Transcribe.OutputBucketName)
	}
	if req.Translate.Languages == nil || len(req.Translate.Languages) != 0 {
		t.Fatalf("expected empty language list, got %#v", req.Translate.Languages)
	}
}

func TestBuildRandomSuffixVaries(t *testing.T) {
	b := execution.NewBuilder()
	first, _ := b.Build(execution.Params{MediaFileURI: "s3://b/a.mp4", OutputBucketName: "o"})
	second, _ := b.Build(execution.Params{MediaFileURI: "s3://b/a.mp4", OutputBucketName: "o"})
	if first.Transcribe.TranscriptionJobName == second.Transcribe.TranscriptionJobName {
		t.Fatalf("expected distinct job names, got %q twice", first.Transcribe.TranscriptionJobName)
	}
}

func TestBuildExplicitJobNameWins(t *testing.T) {
	req, err := execution.NewBuilderWithSuffix(fixedSuffix).Build(execution.Params{
		MediaFileURI:     "s3://bucket/path/clip.mp4",
		OutputBucketName: "out",
		JobName:          "My Job.v2",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.Transcribe.TranscriptionJobName != "My Job.v2" {
		t.Fatalf("expected explicit job name unchanged, got %q", req.Transcribe.TranscriptionJobName)
	}
}

func TestBuildFallsBackWhenStemEmpty(t *testing.T) {
	req, err := execution.NewBuilderWithSuffix(fixedSuffix).Build(execution.Params{
		MediaFileURI:     "s3://bucket/",
		OutputBucketName: "out",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.Transcribe.TranscriptionJobName != "transcription-1a2b3c4d" {
		t.Fatalf("unexpected fallback job name %q", req.Transcribe.TranscriptionJobName)
	}
}

func TestBuildRequiresMediaAndBucket(t *testing.T) {
	b := execution.NewBuilderWithSuffix(fixedSuffix)
	for _, p := range []execution.Params{
		{OutputBucketName: "out"},
		{MediaFileURI: "s3://b/clip.mp4", OutputBucketName: "  "},
	} {
		_, err := b.Build(p)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", p, err)
		}
	}
}

func TestEncodeRoundTripIsStable(t *testing.T) {
	req, err := execution.NewBuilderWithSuffix(fixedSuffix).Build(execution.Params{
		MediaFileURI:     "s3://bucket/path/clip.mp4",
		OutputBucketName: "out",
		SourceLanguage:   "en",
		Languages: []language.Target{
			{LanguageCode: "es", OutputBucketName: "out"},
			{LanguageCode: "fr", OutputBucketName: "out"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	first, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := execution.DecodeRequest(first)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	second, err := decoded.Encode()
	if err != nil {
		t.Fatalf("Encode decoded: %v", err)
	}
	if first != second {
		t.Fatalf("round trip changed encoding:\n%s\n%s", first, second)
	}
	want := `{"Transcribe":{"Media":{"MediaFileUri":"s3://bucket/path/clip.mp4"},"OutputBucketName":"out","TranscriptionJobName":"clip-1a2b3c4d","LanguageCode":"en"},"Translate":{"Languages":[{"LanguageCode":"es","OutputBucketName":"out"},{"LanguageCode":"fr","OutputBucketName":"out"}]}}`
	if first != want {
		t.Fatalf("unexpected encoding:\n got %s\nwant %s", first, want)
	}
}

func TestEncodeEmptyLanguagesAsArray(t *testing.T) {
	encoded, err := execution.Request{}.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(encoded, `"Languages":[]`) {
		t.Fatalf("expected empty array, got %s", encoded)
	}
}

func TestEncodeLeavesHTMLCharactersUnescaped(t *testing.T) {
	req := execution.Request{}
	req.Transcribe.Media.MediaFileURI = "s3://bucket/tom&jerry <1>.mp4"
	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(encoded, `"MediaFileUri":"s3://bucket/tom&jerry <1>.mp4"`) {
		t.Fatalf("expected raw characters, got %s", encoded)
	}
	if strings.HasSuffix(encoded, "\n") {
		t.Fatalf("expected no trailing newline, got %q", encoded)
	}
}

func TestDecodeRequestRejectsUnknownFields(t *testing.T) {
	if _, err := execution.DecodeRequest(`{"Transcribe":{},"Extra":1}`); err == nil {
		t.Fatal("expected unknown field error")
	}
}
