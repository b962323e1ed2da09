// Package version exposes the module's name and version, used to build the
// default User-Agent header seeded by engine.New.
package version

// AppName holds the name of the module, as exposed in the default User-Agent.
var AppName = "go-requests-engine"

// Version holds the current version of the module.
var Version = "0.1.0"

// GetAppName returns the name of the module.
func GetAppName() string {
	return AppName
}

// GetVersion returns the current version of the module.
func GetVersion() string {
	return Version
}

// UserAgent returns the default User-Agent header value, "<AppName>/<Version>".
func UserAgent() string {
	return AppName + "/" + Version
}
