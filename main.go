// SPDX-License-Identifier: MPL-2.0

// oscontainer moves ostree commits in and out of OCI container images.
package main

import cmd "oscontainer/cmd/oscontainer"

func main() {
	cmd.Execute()
}
