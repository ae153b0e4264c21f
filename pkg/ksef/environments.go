package ksef

import "fmt"

// Environment names a well-known KSeF instance.
type Environment string

const (
	// EnvironmentTest is the open test instance with synthetic data.
	EnvironmentTest Environment = "test"
	// EnvironmentDemo is the pre-production instance mirroring production
	// behavior.
	EnvironmentDemo Environment = "demo"
	// EnvironmentProd is the production instance carrying legally binding
	// invoices.
	EnvironmentProd Environment = "prod"
)

// BaseURLFor returns the API root for a well-known environment.
func BaseURLFor(env Environment) (string, error) {
	switch env {
	case EnvironmentTest:
		return "https://ksef-test.mf.gov.pl/api/v2", nil
	case EnvironmentDemo:
		return "https://ksef-demo.mf.gov.pl/api/v2", nil
	case EnvironmentProd:
		return "https://ksef.mf.gov.pl/api/v2", nil
	default:
		return "", fmt.Errorf("unknown environment %q", env)
	}
}
