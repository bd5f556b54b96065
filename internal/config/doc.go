// Package config loads uploadbox.json, the configuration shared by the
// uploadbox commands.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": "localhost:8090",
//	    "apiBaseURL": "https://erp.example.com/api",
//	    "timeout": "30s"
//	  },
//	  "box": {
//	    "variant": "box",
//	    "multiple": true,
//	    "acceptedTypes": ["pdf", "png", "jpg"],
//	    "maxFileSize": 20,
//	    "styles": {"dropzone": "border-color:#888"}
//	  },
//	  "save": {
//	    "dir": "downloads",
//	    "s3": {"bucket": "", "prefix": "", "region": ""}
//	  },
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "uploadbox"}
//	}
//
// Every field is optional; missing ones keep their defaults.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    errors.PrintError(err)
//	    os.Exit(1)
//	}
//	box := uploadbox.New(cfg.Box, ...)
package config
