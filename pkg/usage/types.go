package usage

import "net/http"

// Site identifies an instrumented function. Each Site has its own call count.
type Site struct {
	Module string
	Name   string
}

func (s Site) String() string {
	return s.Module + "." + s.Name
}

// Event is the record delivered to the usage endpoint for a reported call.
type Event struct {
	UserID           string `json:"user_id"`
	TZ               string `json:"tz"`
	Datetime         string `json:"datetime"`
	BackendHostname  string `json:"backend_hostname"`
	BackendVersion   string `json:"backend_version"`
	Platform         string `json:"platform"`
	PythonVersion    string `json:"python_version"`
	HSMLVersion      string `json:"hsml_version"`
	HSFSVersion      string `json:"hsfs_version"`
	HopsworksVersion string `json:"hopsworks_version"`

	MethodName    string `json:"method_name"`
	ModuleName    string `json:"module_name"`
	ExecutionTime int64  `json:"execution_time"`
	NumCall       int64  `json:"num_call"`

	ErrorMessage *string `json:"error_message"`
	StackTrace   *string `json:"stack_trace"`
}

// Payload is the request body: the event wrapped in a single "Data" field.
type Payload struct {
	Data *Event `json:"Data"`
}

// HTTPClient interface for making HTTP requests (allows mocking in tests)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// report is everything captured on the caller's goroutine for one reported
// call. The Event itself is assembled later on a dispatcher worker.
type report struct {
	site     Site
	elapsed  int64
	numCall  int64
	errMsg   string
	stack    string
	hasError bool
}
