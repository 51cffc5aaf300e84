// Package config provides configuration management for the Thaiyyal workflow engine.
//
// # Overview
//
// The config package centralizes all configuration for the workflow engine
// in a single Config struct with preset constructors and validation.
//
// # Features
//
//   - Centralized configuration: Single source of truth
//   - Type-safe: Strongly typed configuration options
//   - Validation: Config.Validate rejects negative limits and durations
//   - Presets: Default, Development, Production and Testing constructors
//   - Copying: Config.Clone returns an independent copy
//
// Configuration is built in code only; the package does not read
// environment variables or files and does not reload at runtime.
//
// # Configuration Structure
//
// The configuration is organized into logical sections:
//
//   - Execution limits: Timeouts and iteration limits
//   - HTTP settings: HTTP request configuration
//   - Security: Network access control and restrictions
//   - Cache settings: Cache TTL and size limits
//   - Resource limits: Memory and size constraints
//   - Retry settings: Retry and backoff configuration
//
// # Basic Usage
//
//import "github.com/yesoreyeram/thaiyyal/backend/pkg/config"
//
//// Create default configuration
//cfg := config.Default()
//
//// Use in engine
//eng, err := engine.NewWithConfig(payloadJSON, *cfg)
//
// # Custom Configuration
//
//cfg := config.Default()
//cfg.MaxExecutionTime = 10 * time.Minute
//cfg.HTTPTimeout = 30 * time.Second
//cfg.MaxNodes = 1000
//if err := cfg.Validate(); err != nil { ... }
//
// # Default Configuration
//
// The default configuration provides secure, production-ready defaults:
//
//MaxExecutionTime: 5 minutes
//MaxNodeExecutionTime: 30 seconds
//MaxIterations: 10000
//HTTPTimeout: 30 seconds
//MaxHTTPRedirects: 10
//MaxResponseSize: 10MB
//AllowHTTP: false (HTTPS only)
//AllowPrivateIPs: false
//AllowLocalhost: false
//AllowLinkLocal: false
//AllowCloudMetadata: false
//DefaultCacheTTL: 1 hour
//MaxCacheSize: 1000
//MaxNodes: 1000
//MaxEdges: 5000
//DefaultMaxAttempts: 3
//DefaultBackoff: 1 second
//
// # Thread Safety
//
// Configuration objects are safe for concurrent read access.
package config
