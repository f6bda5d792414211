package common

// RequestIDHeaderName is the gRPC metadata / HTTP header key that carries the
// caller supplied request id. A fresh id is generated when it is absent.
const RequestIDHeaderName = "x-request-id"

// ServiceName identifies this service as the subject of outbound service
// tokens and in log records.
const ServiceName = "deviceprov"
