// Package security provides SSRF (server-side request forgery) protection for
// outbound HTTP requests made by the workflow engine.
//
// # Overview
//
// SSRFProtection checks a URL before a request is made. The package holds no
// other controls: input validation, output sanitization, rate limiting and
// access control are not part of it.
//
// # Checks
//
// ValidateURL rejects a URL when:
//
//   - It cannot be parsed, has no hostname, or its scheme is not allowed
//     (http and https by default)
//   - Its hostname is in BlockedDomains, or AllowedDomains is non-empty and
//     does not contain it (exact, case-insensitive matches)
//   - Its host, given as an IP address or resolved through DNS, is a blocked
//     address; every resolved address is checked
//
// Address classes, each switched on by an SSRFConfig field:
//
//   - BlockLocalhost: loopback addresses, 0.0.0.0, and the names "localhost",
//     "127.0.0.1", "::1" and "0.0.0.0"
//   - BlockPrivateIPs: 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16 and fc00::/7
//   - BlockLinkLocal: 169.254.0.0/16 and fe80::/10
//   - BlockCloudMetadata: 169.254.169.254, fd00:ec2::254 and the names
//     metadata.google.internal and metadata.azure.com
//
// A hostname that cannot be resolved passes once the name checks have passed.
//
// # Basic Usage
//
//	import "github.com/yesoreyeram/thaiyyal/backend/pkg/security"
//
//	// Default: http and https only, every address class blocked
//	protection := security.NewSSRFProtection()
//
//	if err := protection.ValidateURL(url); err != nil {
//	    return fmt.Errorf("URL not allowed: %w", err)
//	}
//
// # Custom Configuration
//
//	config := security.DefaultSSRFConfig()
//	config.BlockLocalhost = false
//	config.AllowedDomains = []string{"api.example.com"}
//
//	protection := security.NewSSRFProtectionWithConfig(config)
//
// An empty AllowedSchemes list allows http and https.
//
// # Thread Safety
//
// An SSRFProtection is not modified after construction, so ValidateURL can be
// called concurrently from multiple goroutines.
package security
