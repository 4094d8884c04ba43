package options

// HostingModel selects how the target application is hosted.
type HostingModel int

const (
	// OutOfProcess launches the application as a separately supervised
	// child process.
	OutOfProcess HostingModel = iota
	// InProcess runs the application inside the host process itself.
	InProcess
)

// String returns the configuration spelling of the hosting model.
func (m HostingModel) String() string {
	if m == InProcess {
		return "inprocess"
	}
	return "outofprocess"
}

// Options is the resolved options bundle governing process launch,
// stdout logging, and error-page behaviour. It is constructed exactly
// once by Resolve and read-only afterwards.
type Options struct {
	HostingModel HostingModel

	// HandlerVersion is populated only for OutOfProcess hosting; empty
	// when unset.
	HandlerVersion string

	ProcessPath string
	Arguments   string

	StdoutLogEnabled bool
	StdoutLogFile    string

	DisableStartupErrorPage bool
	ShowDetailedErrors      bool
}
