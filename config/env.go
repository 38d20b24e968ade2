package config

import "os"

// Environment is the runtime environment the process believes it is in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reports the current environment. CI is detected from the
// CI variable that hosted runners set; everything else comes from ENV.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether the current environment is production.
func IsProduction() bool {
	return GetEnvironment() == Production
}

// IsTest reports whether the current environment is test.
func IsTest() bool {
	return GetEnvironment() == Test
}
