// Package config loads the application configuration.
//
// Values come from struct tag defaults, an optional config.yaml, an optional
// .env file and the environment, each overriding the previous. Environment
// keys are the upper-cased dotted path with dots replaced by underscores
// (data.dir is DATA_DIR).
//
// # Configuration Structure
//
//   - Data: backend (files, database), data directory and file names
//   - Server: HTTP port, Swagger toggle, enabled features
//   - Database: driver (sqlite, mysql) and connection details
//   - Storage: S3/MinIO credentials and the backup bucket
//   - Log: level, format and output
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Data.Dir)
package config
