// Package remote provides the listing boundary for the watched Google Drive
// folder.
//
// The monitor only depends on the Lister interface; DriveLister is the
// production implementation built on google.golang.org/api/drive/v3. Every
// API failure, regardless of cause, surfaces as a single recoverable remote
// error so the loop can skip the cycle and retry on its cadence.
package remote
