package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	ArchiveError    = 4
	AggregateError  = 5
	RenderError     = 6
	ServerError     = 7
)
