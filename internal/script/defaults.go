package script

import "time"

// DefaultSecurityLimits provides safe default constraints for script execution
var DefaultSecurityLimits = SecurityLimits{
	MaxExecutionTime: 5 * time.Second,
	MaxMemoryBytes:   32 * 1024 * 1024, // 32MB
	MaxAllocs:        -1,
	AllowedPackages: []string{
		"fmt",
		"strings",
		"math",
		"text",
	},
}

// GetDefaultSecurityLimits returns a copy of the default security limits
func GetDefaultSecurityLimits() SecurityLimits {
	limits := DefaultSecurityLimits
	limits.AllowedPackages = make([]string, len(DefaultSecurityLimits.AllowedPackages))
	copy(limits.AllowedPackages, DefaultSecurityLimits.AllowedPackages)
	return limits
}

func (l SecurityLimits) allows(pkg string) bool {
	for _, allowed := range l.AllowedPackages {
		if allowed == pkg {
			return true
		}
	}
	return false
}
