// Package event defines the connection lifecycle event carried from probes
// to the ring log.
//
// An Event is a plain value: probes fill it, the whitelist inspects it, the
// ring log encodes it. Addresses are kept in raw 16-byte form tagged by
// Family so IPv4 and IPv6 flow through the same structure without
// reinterpretation.
package event
