// Package preflight provides readiness checks for the external fingerprint
// tool and the filesystem paths introseek writes to.
//
// These checks run in two contexts:
//   - The scan command calls RunAll before dispatching workers. If any check
//     fails, the batch aborts instead of failing every file the same way.
//   - The CLI "introseek status" command renders every result, including
//     CheckCacheFromConfig, as a health summary.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
