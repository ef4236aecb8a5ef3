package config

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const (
	appID        = "rclink"
	machineIDLen = 12
)

// DefaultID derives a stable ID from the machine ID.
// The hostname is used when the machine ID is not available.
func DefaultID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil && len(id) >= machineIDLen {
		return id[:machineIDLen]
	}
	glog.V(1).Infof("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return appID
}
