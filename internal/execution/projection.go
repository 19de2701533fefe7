package execution

import "envoi/internal/services"

// TranscriptionURIs holds the output file locations of a finished execution.
type TranscriptionURIs struct {
	TranscriptFileURI *string  `json:"TranscriptFileUri"`
	SubtitleFileURIs  []string `json:"SubtitleFileUris"`
}

// URIs is the projected view printed by `describe --uris-only`.
type URIs struct {
	Transcription TranscriptionURIs `json:"Transcription"`
}

// ProjectURIs extracts TranscriptionJob.Transcript.TranscriptFileUri and
// TranscriptionJob.Subtitles.SubtitleFileUris from the decoded output.
//
// A record without decoded output, or whose output lacks the Transcript
// section, yields a ProjectionError: the execution is most likely still
// running. Missing subtitle data yields an empty list.
func ProjectURIs(record *Record) (URIs, error) {
	if record == nil || !record.outputDecoded {
		reason := "execution has no output yet"
		handle := ""
		if record != nil {
			handle = record.Handle.String()
			if record.Status != "" {
				reason += " (status " + record.Status + ")"
			}
		}
		return URIs{}, &services.ProjectionError{Handle: handle, Reason: reason}
	}

	job := asObject(asObject(record.Output)["TranscriptionJob"])
	transcript := asObject(job["Transcript"])
	if transcript == nil {
		return URIs{}, &services.ProjectionError{
			Handle: record.Handle.String(),
			Reason: "output has no TranscriptionJob.Transcript section",
		}
	}

	var transcriptURI *string
	if uri, ok := transcript["TranscriptFileUri"].(string); ok {
		transcriptURI = &uri
	}

	subtitles := []string{}
	if list, ok := asObject(job["Subtitles"])["SubtitleFileUris"].([]any); ok {
		for _, item := range list {
			if uri, ok := item.(string); ok {
				subtitles = append(subtitles, uri)
			}
		}
	}

	return URIs{Transcription: TranscriptionURIs{
		TranscriptFileURI: transcriptURI,
		SubtitleFileURIs:  subtitles,
	}}, nil
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
