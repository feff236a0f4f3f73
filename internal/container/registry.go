// SPDX-License-Identifier: MPL-2.0

package container

// RegistryOptions carries the TLS, authentication, and certificate flags
// shared by every remote registry operation (pull and push).
type RegistryOptions struct {
	// TLSVerify controls certificate verification against the registry.
	TLSVerify bool
	// AuthFile is the path to a registry authentication file.
	AuthFile string
	// CertDir is an extra certificate directory.
	CertDir string
}

// Args renders the options as podman/buildah command-line flags.
// The TLS flag is always emitted explicitly, matching the tools' own
// handling of --tls-verify as a boolean flag.
func (o RegistryOptions) Args() []string {
	args := make([]string, 0, 3)
	if o.TLSVerify {
		args = append(args, "--tls-verify")
	} else {
		args = append(args, "--tls-verify=false")
	}
	if o.AuthFile != "" {
		args = append(args, "--authfile="+o.AuthFile)
	}
	if o.CertDir != "" {
		args = append(args, "--cert-dir="+o.CertDir)
	}
	return args
}
