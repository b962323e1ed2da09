package auth

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bgentry/go-netrc/netrc"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
)

// NetrcLookup builds an Auth strategy that resolves credentials for req's
// host from the user's netrc file at apply time, the resolution spec.md's
// send pipeline performs when no explicit auth and no URL userinfo are
// present and the client trusts the environment. path == "" uses
// $NETRC, then ~/.netrc (~/_netrc on Windows).
func NetrcLookup(path string) Auth {
	return netrcAuth{path: path}
}

type netrcAuth struct {
	path string
}

func (n netrcAuth) Apply(_ context.Context, req *httpreq.Request) error {
	path := n.path
	if path == "" {
		path = defaultNetrcPath()
	}
	if path == "" {
		return nil
	}

	machines, err := netrc.ParseFile(path)
	if err != nil {
		// No netrc file, or unreadable: silently skip, since netrc
		// credentials are opportunistic, not a hard requirement.
		return nil
	}

	host := req.URL.Hostname()
	machine := machines.FindMachine(host)
	if machine == nil {
		return nil
	}

	return Basic(machine.Login, machine.Password).Apply(context.Background(), req)
}

func defaultNetrcPath() string {
	if envPath := os.Getenv("NETRC"); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	name := ".netrc"
	if filepath.Separator == '\\' {
		name = "_netrc"
	}
	return filepath.Join(home, name)
}
