package utils

import "fmt"

// DeriveUsername builds the deterministic account name for a physician:
// <prefix>_<firstName>.<lastName>.
func DeriveUsername(prefix, firstName, lastName string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, firstName, lastName)
}
