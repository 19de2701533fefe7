// Package awsclient loads AWS credentials once and builds the service clients
// the commands need.
package awsclient
