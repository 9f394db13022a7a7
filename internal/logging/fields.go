package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType tags log lines with a machine-readable event identifier.
	FieldEventType = "event_type"
	// FieldErrorHint carries an operator-facing suggestion for resolving a failure.
	FieldErrorHint = "error_hint"
	// FieldSessionID identifies one monitor process lifetime across log lines.
	FieldSessionID = "session_id"
	// FieldCycle is the 1-based cycle counter of the monitor loop.
	FieldCycle = "cycle"
	// FieldFolderID identifies the watched remote folder.
	FieldFolderID = "folder_id"
	// FieldItemID identifies a single remote item.
	FieldItemID = "item_id"
	// FieldBatchSize is the number of items selected for a pipeline invocation.
	FieldBatchSize = "batch_size"
	// FieldListingCount is the number of items returned by the remote listing.
	FieldListingCount = "listing_count"
	// FieldExitCode is the exit status of the correction pipeline process.
	FieldExitCode = "exit_code"
)
