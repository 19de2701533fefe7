// Package execution builds, dispatches, and inspects transcription+translation
// executions on the Step Functions orchestration service.
//
// Request documents are assembled by Builder without any network I/O, handed
// to Dispatcher.Submit which issues exactly one StartExecution call, and later
// read back with Inspector.Describe. The service stores the input and output
// documents as JSON encoded inside strings; Describe decodes them and
// ProjectURIs narrows a decoded record to the transcript and subtitle file
// URIs.
package execution
