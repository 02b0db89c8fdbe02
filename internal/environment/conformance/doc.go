// Package conformance runs the environment actions against a live engine to
// verify the request objects they build are accepted as sent.
//
// # Running Conformance Tests
//
// Conformance tests are gated behind a build tag and do not run with regular
// `go test`. They need an engine configuration:
//
//	DXENV_CONFORMANCE_CONFIG=./dxtools.conf go test -tags=conformance ./internal/environment/conformance
//
// DXENV_CONFORMANCE_ENGINE picks an engine from the file; otherwise the
// default engine is used.
//
// # Lifecycle Tests
//
// The read-only checks always run. The lifecycle checks create, disable,
// enable, refresh and delete a real Linux environment and only run when
// these are set:
//
//	DXENV_CONFORMANCE_LINUX_ADDRESS   address of a host the engine can reach
//	DXENV_CONFORMANCE_LINUX_USER      OS user on that host
//	DXENV_CONFORMANCE_LINUX_TOOLKIT   writable toolkit directory
//	DXENV_CONFORMANCE_LINUX_PASSWORD  optional, the engine SSH key is used otherwise
//
// # Test Categories
//
// The conformance suite tests:
//   - Lookups: listing and not-found handling for every action
//   - Lifecycle: a full create to delete cycle with job polling
package conformance
