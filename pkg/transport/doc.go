// Package transport serves the OpenAI-compatible proxy API over HTTP:
// routing, request decoding, the SSE relay to callers, error envelope
// serialization, and cross-cutting middleware (CORS, recovery, request IDs,
// access logging).
package transport
