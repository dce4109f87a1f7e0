// Package config loads reactor configuration files.
//
// The configuration is stored in reactor.json, reactor.yaml or reactor.toml
// at the project root. This package handles loading, saving, and validating
// configuration, and maps it to reactive.Config.
//
// # Configuration File Structure
//
//	{
//	  "runtime": {
//	    "async": true,
//	    "maxUpdateCount": 100,
//	    "strict": false,
//	    "performance": false
//	  },
//	  "log": {"level": "info", "format": "json"},
//	  "metrics": {"enabled": true, "namespace": "reactor"},
//	  "devtools": {
//	    "enabled": true,
//	    "port": 7070,
//	    "timelineSize": 1000,
//	    "export": {"bucket": "reactor-timelines", "region": "us-east-1"}
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt := reactive.New(reactive.WithConfig(cfg.RuntimeConfig()))
package config
