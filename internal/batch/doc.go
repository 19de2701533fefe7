// Package batch builds and submits S3 Batch Operations copy jobs.
//
// A job run lists every object under a source prefix, writes the
// bucket,key pairs to a local CSV manifest, uploads the manifest, reads back
// the stored object's ETag and creates a copy job that changes storage class.
// Jobs are created with confirmation required, so nothing runs until an
// operator confirms the job in the console or through the API.
package batch
