// Package upstream implements the NVIDIA NIM backend client: payload
// translation from the inbound OpenAI wire shape, the blocking chat
// completions call, the line-by-line SSE relay, and the models listing
// with its static fallback.
package upstream
