package common

import (
	"os"
	"sync"
)

var (
	serviceName     string
	serviceInstance string
	serviceInfoOnce sync.Once
)

// GetServiceName SERVICE_NAME
func GetServiceName() string {
	loadServiceInfo()
	return serviceName
}

// GetServiceInstance SERVICE_INSTANCE, fallback to hostname
func GetServiceInstance() string {
	loadServiceInfo()
	return serviceInstance
}

func loadServiceInfo() {
	serviceInfoOnce.Do(func() {
		serviceName = os.Getenv("SERVICE_NAME")
		if serviceName == "" {
			serviceName = "fieldflow"
		}
		serviceInstance = os.Getenv("SERVICE_INSTANCE")
		if serviceInstance == "" {
			hostname, err := os.Hostname()
			if err == nil {
				serviceInstance = hostname
			}
		}
	})
}
