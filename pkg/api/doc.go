// Package api defines the OpenAI-compatible wire types exchanged with
// callers and the NVIDIA NIM backend, along with the proxy error taxonomy.
package api
