// Package services defines the error vocabulary shared by the components that
// talk to remote AWS services.
//
// Key responsibilities:
//   - Sentinel markers (validation, configuration, not found, external
//     service) plus the Wrap helper that adds operation context.
//   - Typed boundary errors (DispatchError, LookupError, ProjectionError,
//     JobCreationError) that carry the remote error code and message.
//   - RemoteDetail, which extracts code and message from SDK errors.
//
// Components return these values instead of logging and re-raising so callers
// can classify failures with errors.Is and errors.As.
package services
