// Package api defines the wire DTOs shared by the HTTP surface and the IPC
// layer, plus the converters from rotation items.
package api
