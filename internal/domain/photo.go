package domain

type ProviderKind string

const (
	ProviderNone   ProviderKind = ""
	ProviderRemote ProviderKind = "remote"
	ProviderLocal  ProviderKind = "local"
)

type CameraStatus struct {
	Available bool
	Message   string
	Error     string
}

// CapturedPhoto lives only for the duration of one checkout-with-photo flow.
type CapturedPhoto struct {
	Filename  string
	DataURI   string
	Persisted bool
}

// Photo is a gallery record kept by the camera service.
type Photo struct {
	Filename string
	URL      string
	Path     string
}
