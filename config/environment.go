package config

import "strings"

// Environment is the hosting mode resolved once at startup
type Environment int

const (
	// EnvironmentOther covers every non-development mode (Production, Staging, ...)
	EnvironmentOther Environment = iota
	// EnvironmentDevelopment enables the developer exception page and seeding
	EnvironmentDevelopment
)

// ParseEnvironment maps a hosting environment name to an Environment.
// Matching is case-insensitive; unknown and empty names are EnvironmentOther.
func ParseEnvironment(name string) Environment {
	if strings.EqualFold(strings.TrimSpace(name), "development") {
		return EnvironmentDevelopment
	}
	return EnvironmentOther
}

// IsDevelopment reports whether e is the development mode
func (e Environment) IsDevelopment() bool {
	return e == EnvironmentDevelopment
}

func (e Environment) String() string {
	if e == EnvironmentDevelopment {
		return "Development"
	}
	return "Other"
}
