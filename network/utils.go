package network

import "syscall"

// UnlinkUdsFile removes a leftover unix-domain-socket file before binding,
// mirroring wind's network.UnlinkUdsFile.
func UnlinkUdsFile(network, addr string) error {
	if network == "unix" {
		return syscall.Unlink(addr)
	}
	return nil
}
