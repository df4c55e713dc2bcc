// Package config loads elix configuration.
//
// The configuration is stored in elix.yaml in the project directory. This
// package handles loading, saving, defaults and validation.
//
// # Configuration File Structure
//
//	log:
//	  level: info          # debug, info, warn or error
//	  format: text         # text or json
//	state:
//	  maxPasses: 100       # change handler passes per update
//	loop:
//	  queueSize: 256
//	server:
//	  address: ":8080"
//	  readBufferSize: 1024
//	  writeBufferSize: 1024
//	  maxMessageSize: 65536
//	  writeTimeout: 10s
//	  allowedOrigins: ["https://example.com"]
//	metrics:
//	  enabled: true
//	  namespace: elix
//	  path: /metrics
//	snapshot:
//	  dir: snapshots
//	  s3:
//	    bucket: my-bucket
//	    prefix: snapshots/
//	    region: us-east-1
//	    endpoint: http://localhost:9000
//	    pathStyle: true
//
// Every field is optional.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	slog.SetDefault(cfg.Log.Logger(os.Stderr))
package config
