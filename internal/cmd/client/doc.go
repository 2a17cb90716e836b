// Package client provides the `netlog` command-line client.
//
// The CLI talks to the netlog HTTP endpoint to read the event log and
// manage collection from a terminal. It is primarily intended for
// developers and operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it reads
// the NETLOG_API environment variable and defaults to
// http://127.0.0.1:8081.
//
// Usage
//
//	# Follow the log like the character device
//	netlog client tail
//	netlog client tail --from-start --limit 100
//	netlog client tail --filter 'protocol == "TCP" && dport == 443'
//
//	# One-shot drain of what is currently buffered
//	netlog client lines --from-start --limit 50
//
//	# Occupancy and collection state
//	netlog client stats
//
//	# Suppression rules
//	netlog client whitelist list
//	netlog client whitelist add '/usr/bin/ssh|<22>'
//	netlog client whitelist remove '/usr/bin/ssh|<22>'
//	netlog client whitelist clear
//
//	# Probe toggles
//	netlog client probes list
//	netlog client probes disable udp_close
//	netlog client probes enable udp_close
//
// Notes
//
//   - tail consumes the Server-Sent Events stream and prints the rendered
//     line text by default; use --json for the raw items with sequence
//     numbers.
//   - a "records lost to eviction" notice on stderr means the reader fell
//     behind and the ring overwrote unread records.
package client
