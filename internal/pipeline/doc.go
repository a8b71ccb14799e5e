// Package pipeline runs one notification cycle: fetch the ranked page,
// extract the rotation (falling back to the all-modes page when the ranked
// page yields nothing), resolve the map illustration, and deliver the
// notification through the configured channel.
//
// Configuration is validated before any network activity. Every step runs
// sequentially and any fatal failure aborts the run without a notification
// being sent.
package pipeline
