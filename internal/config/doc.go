// Package config loads letterfreq run settings.
//
// Settings are layered, each layer overriding the previous one:
//   - Default(): the RFC 1000..1049 batch, atomic strategy, one worker per CPU
//   - a YAML file (LoadFromFile), durations written as strings ("250ms")
//   - LETTERFREQ_* environment variables (LoadFromEnv)
//
// # Example file
//
//	template: https://www.rfc-editor.org/rfc/rfc%d.txt
//	first: 1000
//	last: 1049
//	strategy: locked
//	poll_interval: 250ms
//	workers: 8
//	http:
//	  timeout: 20s
//	  max_idle_conns_per_host: 16
//	log_level: debug
package config
