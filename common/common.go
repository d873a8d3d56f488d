package common

import (
	"os"
)

var (
	// ProjectID is the google cloud project hosting the service.
	ProjectID string

	// GAEService is the app engine service name.
	GAEService string

	// GAEVersion is the deployed app engine version.
	GAEVersion string

	// Production flag indicating if app is running the production backend on appengine
	Production bool

	// IsLocalhost flag indicating if app is running on localhost
	IsLocalhost bool
)

const (
	productionProject = "bluepay-prod"

	// TestProjectID is the project used by package tests (firestore emulator).
	TestProjectID = "bluepay-dev"
)

func init() {
	ProjectID = GetEnv("GOOGLE_CLOUD_PROJECT", "")
	IsLocalhost = ProjectID == ""

	if IsLocalhost {
		ProjectID = TestProjectID
	}

	GAEService = GetEnv("GAE_SERVICE", "bluepay-api")
	GAEVersion = GetEnv("GAE_VERSION", "localhost")
	Production = ProjectID == productionProject
}

// GetEnv returns the value of the environment variable or a fallback value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
