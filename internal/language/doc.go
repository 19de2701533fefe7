// Package language expands requested translation targets into the per-language
// descriptors carried by an execution request.
//
// An explicit list is used verbatim and in order; the single token "all" is
// resolved against the translation service's catalog, fetched fresh on every
// call. Codes are never checked against the catalog here: an unsupported code
// surfaces later as an error from the orchestrated job.
package language
