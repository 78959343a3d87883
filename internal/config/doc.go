// Package config provides configuration loading for hxstate.
//
// Configuration comes from four layers, later ones winning:
//
//  1. Defaults from New()
//  2. hxstate.yaml, hxstate.yml or hxstate.json (${VAR} references are
//     expanded from the environment)
//  3. HXSTATE_* environment variables, after .env files are loaded
//  4. Command-line flags, applied by cmd/hxstate
//
// # Configuration File Structure
//
//	server:
//	  addr: ":8080"
//	  variant: both          # counter | todos | both
//	  cookieName: session
//	  secureCookies: false
//	store:
//	  backend: redis         # memory | redis | sqlite | postgres | s3
//	  redis:
//	    addr: localhost:6379
//	    db: 1
//	    bindingDB: 0
//	log:
//	  level: info
//	  format: text
//	metrics:
//	  enabled: true
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
