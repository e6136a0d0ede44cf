package meta

import "sync/atomic"

// Service names the running binary and its build.
type Service struct {
	Name    string
	Version string
}

var current atomic.Pointer[Service] //nolint:gochecknoglobals // set once at startup

// SetServiceInfo records the running service. Only the first call takes effect.
func SetServiceInfo(name, version string) {
	current.CompareAndSwap(nil, &Service{Name: name, Version: version})
}

// CurrentService returns the recorded service, or the zero value before SetServiceInfo.
func CurrentService() Service {
	if s := current.Load(); s != nil {
		return *s
	}
	return Service{}
}

// Values returns the service keys in the form InjectMetaToContext takes.
func (s Service) Values() map[ContextKey]string {
	return map[ContextKey]string{
		ServiceName:    s.Name,
		ServiceVersion: s.Version,
	}
}
