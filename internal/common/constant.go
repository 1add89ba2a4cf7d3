// Package common contains shared constants and sentinel errors used across
// Snappy client components.
package common

// RequestIDHeaderName is the HTTP header used to carry a per-request
// correlation id on outbound requests.
const RequestIDHeaderName = "X-Request-Id"

// IdentitySlotName is the name of the durable slot holding the serialized
// identity record.
const IdentitySlotName = "chat-app-user"
