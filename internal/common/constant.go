package common

// SessionHeaderName is the gRPC metadata key that carries the session token
// on authenticated calls.
const SessionHeaderName = "session_id"

// HTTPStatusTrailer is the trailer key the server uses to report the HTTP
// status equivalent of a failed call.
const HTTPStatusTrailer = "http-status"

// ErrorKindTrailer is the trailer key naming the sentinel a failed call
// unwraps to, see KindName.
const ErrorKindTrailer = "error-kind"
