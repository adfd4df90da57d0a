// Package server exposes the customer lookup as a Model Context Protocol tool,
// served over stdio or streamable HTTP.
package server
