// Package config loads routekit configuration.
//
// Configuration lives in routekit.json (or routekit.toml) at the project
// root. Missing fields take defaults; a handful of fields can be overridden
// from the environment.
//
// # Configuration File Structure
//
//	{
//	  "name": "portal",
//	  "server": { "host": "0.0.0.0", "port": 8080, "shutdownTimeout": "10s" },
//	  "history": { "mode": "web", "base": "/" },
//	  "assets": {
//	    "source": "s3",
//	    "prefix": "/assets",
//	    "s3": { "bucket": "portal-assets", "keyPrefix": "build/", "region": "eu-west-1" }
//	  },
//	  "metrics": { "enabled": true, "path": "/metrics" },
//	  "tracing": { "enabled": true, "tracerName": "routekit" },
//	  "log": { "level": "info", "format": "json" }
//	}
//
// # Environment
//
//	ROUTEKIT_HOST, ROUTEKIT_PORT, ROUTEKIT_HISTORY_MODE, ROUTEKIT_HISTORY_BASE,
//	ROUTEKIT_LOG_LEVEL
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
