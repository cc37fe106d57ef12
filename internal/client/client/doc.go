// Package client talks to the accounts gRPC API.
//
// GRPCClient keeps the session token returned by Login and sends it in the
// session_id metadata of every call. Failed calls are turned back into
// *common.StatusError values carrying the server's message and the HTTP status
// from the http-status trailer, so callers can match them with errors.Is
// against the common sentinels. Transport failures map to ErrUnavailable.
package client
